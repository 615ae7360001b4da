package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Market status values for an inventory item.
const (
	StatusUnlisted = "unlisted"
	StatusPending  = "pending"
)

type InventoryItem struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	FarmID      string         `gorm:"not null;index" json:"farm_id"`
	Farm        Farm           `gorm:"foreignKey:FarmID" json:"-"`
	FarmerID    string         `gorm:"not null;index" json:"farmer_id"`
	Farmer      Farmer         `gorm:"foreignKey:FarmerID" json:"-"`
	Name        string         `gorm:"not null" json:"name"`
	Type        string         `json:"type"`
	Unit        string         `json:"unit"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	Price       float64        `gorm:"not null" json:"price"`
	HarvestDate time.Time      `json:"harvest_date"`
	Listed      bool           `gorm:"default:false" json:"listed"`
	Status      string         `gorm:"default:unlisted" json:"status"`
	Listing     *MarketListing `gorm:"foreignKey:ItemID" json:"listing,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
