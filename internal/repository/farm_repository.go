package repository

import (
	"errors"

	"github.com/agrolink/farmgate/internal/models"
	"gorm.io/gorm"
)

type FarmRepository struct {
	db *gorm.DB
}

func NewFarmRepository(db *gorm.DB) *FarmRepository {
	return &FarmRepository{db: db}
}

func (r *FarmRepository) Create(farm *models.Farm) error {
	return r.db.Create(farm).Error
}

func (r *FarmRepository) FindByID(id string) (*models.Farm, error) {
	var farm models.Farm
	err := r.db.Where("id = ?", id).First(&farm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &farm, nil
}
