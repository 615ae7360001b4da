package repository

import (
	"errors"

	"github.com/agrolink/farmgate/internal/models"
	"gorm.io/gorm"
)

type MarketRepository struct {
	db *gorm.DB
}

func NewMarketRepository(db *gorm.DB) *MarketRepository {
	return &MarketRepository{db: db}
}

func (r *MarketRepository) CreateInTx(tx *gorm.DB, listing *models.MarketListing) error {
	return tx.Create(listing).Error
}

func (r *MarketRepository) DeleteByItemIDInTx(tx *gorm.DB, itemID string) (int64, error) {
	result := tx.Where("item_id = ?", itemID).Delete(&models.MarketListing{})
	return result.RowsAffected, result.Error
}

func (r *MarketRepository) FindByItemID(itemID string) (*models.MarketListing, error) {
	var listing models.MarketListing
	err := r.db.Where("item_id = ?", itemID).First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

func (r *MarketRepository) List(page, limit int) ([]models.MarketListing, error) {
	var listings []models.MarketListing
	offset := (page - 1) * limit

	err := r.db.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&listings).Error

	return listings, err
}
