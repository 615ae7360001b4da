package repository

import (
	"github.com/agrolink/farmgate/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Create(item *models.InventoryItem) error {
	return r.db.Create(item).Error
}

// FindScoped returns the items matching all three keys. Absence is an
// empty slice, not an error.
func (r *InventoryRepository) FindScoped(id, farmID, farmerID string) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.
		Where("id = ? AND farm_id = ? AND farmer_id = ?", id, farmID, farmerID).
		Find(&items).Error
	return items, err
}

// List pages through a farm+farmer scope ordered by creation time. The
// id tiebreak keeps pages stable when rows share a timestamp.
func (r *InventoryRepository) List(farmerID, farmID string, page, limit int) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	offset := (page - 1) * limit

	err := r.db.
		Where("farm_id = ? AND farmer_id = ?", farmID, farmerID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error

	return items, err
}

// UpdateFields applies a partial column update within the scope and
// reports how many rows matched.
func (r *InventoryRepository) UpdateFields(id, farmID, farmerID string, fields map[string]interface{}) (int64, error) {
	result := r.db.Model(&models.InventoryItem{}).
		Where("id = ? AND farm_id = ? AND farmer_id = ?", id, farmID, farmerID).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *InventoryRepository) Delete(id, farmerID, farmID string) (int64, error) {
	result := r.db.
		Where("id = ? AND farm_id = ? AND farmer_id = ?", id, farmID, farmerID).
		Delete(&models.InventoryItem{})
	return result.RowsAffected, result.Error
}

func (r *InventoryRepository) DeleteScope(farmerID, farmID string) (int64, error) {
	result := r.db.
		Where("farm_id = ? AND farmer_id = ?", farmID, farmerID).
		Delete(&models.InventoryItem{})
	return result.RowsAffected, result.Error
}

func (r *InventoryRepository) FindByFarmForUpdate(tx *gorm.DB, id, farmID string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND farm_id = ?", id, farmID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *InventoryRepository) UpdateInTx(tx *gorm.DB, item *models.InventoryItem) error {
	return tx.Save(item).Error
}

func (r *InventoryRepository) FindAllScoped(farmerID, farmID string) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.
		Where("farm_id = ? AND farmer_id = ?", farmID, farmerID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}
