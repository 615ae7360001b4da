package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MarketListing is a denormalized projection of an InventoryItem for
// public browsing. A row exists exactly while the item is listed.
type MarketListing struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	ItemID      string    `gorm:"uniqueIndex;not null" json:"item_id"`
	Name        string    `gorm:"not null" json:"name"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Type        string    `json:"type"`
	Unit        string    `json:"unit"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	HarvestDate time.Time `json:"harvest_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (m *MarketListing) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
