package repository

import (
	"errors"

	"github.com/agrolink/farmgate/internal/models"
	"gorm.io/gorm"
)

type FarmerRepository struct {
	db *gorm.DB
}

func NewFarmerRepository(db *gorm.DB) *FarmerRepository {
	return &FarmerRepository{db: db}
}

func (r *FarmerRepository) Create(farmer *models.Farmer) error {
	return r.db.Create(farmer).Error
}

func (r *FarmerRepository) FindByID(id string) (*models.Farmer, error) {
	var farmer models.Farmer
	err := r.db.Where("id = ?", id).First(&farmer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &farmer, nil
}

func (r *FarmerRepository) FindByIDInTx(tx *gorm.DB, id string) (*models.Farmer, error) {
	var farmer models.Farmer
	err := tx.Where("id = ?", id).First(&farmer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &farmer, nil
}
