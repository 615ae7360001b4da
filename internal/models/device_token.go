package models

import "gorm.io/gorm"

type DeviceToken struct {
	gorm.Model
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Token  string `gorm:"not null" json:"token"`
}
