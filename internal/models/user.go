package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email        string        `gorm:"uniqueIndex;not null" json:"email"`
	Username     string        `gorm:"not null" json:"username"`
	FirstName    string        `json:"firstname"`
	LastName     string        `json:"lastname"`
	PasswordHash string        `gorm:"not null" json:"-"`
	Verified     bool          `gorm:"default:false" json:"verified"`
	ResetCode    *string       `gorm:"uniqueIndex" json:"-"`
	DeviceTokens []DeviceToken `gorm:"foreignKey:UserID" json:"-"`
}
