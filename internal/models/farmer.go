package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Farmer struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Username    string    `gorm:"not null" json:"username"`
	Email       string    `gorm:"not null" json:"email"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (f *Farmer) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
