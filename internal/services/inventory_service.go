package services

import (
	"errors"
	"time"

	"github.com/agrolink/farmgate/internal/models"
	"github.com/agrolink/farmgate/internal/repository"
	"go.uber.org/zap"
)

var ErrItemNotFound = errors.New("inventory item not found")

// PageSize is the fixed page size for inventory and market listings.
const PageSize = 10

type InventoryService struct {
	inventoryRepo *repository.InventoryRepository
	logger        *zap.Logger
}

func NewInventoryService(inventoryRepo *repository.InventoryRepository, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		logger:        logger,
	}
}

// NewItem carries the fields of a harvest record to be created.
type NewItem struct {
	Name        string
	Type        string
	Unit        string
	Quantity    int
	Price       float64
	HarvestDate time.Time
}

// ItemUpdate is a partial update: nil fields leave the column unchanged.
type ItemUpdate struct {
	Name        *string
	Type        *string
	Unit        *string
	Quantity    *int
	Price       *float64
	HarvestDate *time.Time
}

func (u ItemUpdate) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.Type != nil {
		fields["type"] = *u.Type
	}
	if u.Unit != nil {
		fields["unit"] = *u.Unit
	}
	if u.Quantity != nil {
		fields["quantity"] = *u.Quantity
	}
	if u.Price != nil {
		fields["price"] = *u.Price
	}
	if u.HarvestDate != nil {
		fields["harvest_date"] = *u.HarvestDate
	}
	return fields
}

func (s *InventoryService) Add(farmID, farmerID string, item NewItem) (*models.InventoryItem, error) {
	record := &models.InventoryItem{
		FarmID:      farmID,
		FarmerID:    farmerID,
		Name:        item.Name,
		Type:        item.Type,
		Unit:        item.Unit,
		Quantity:    item.Quantity,
		Price:       item.Price,
		HarvestDate: item.HarvestDate,
		Listed:      false,
		Status:      models.StatusUnlisted,
	}

	if err := s.inventoryRepo.Create(record); err != nil {
		s.logger.Error("adding inventory item failed",
			zap.String("farm_id", farmID),
			zap.String("farmer_id", farmerID),
			zap.Error(err))
		return nil, err
	}

	return record, nil
}

// List returns one fixed-size page of the farm+farmer scope. Pages are
// 1-based; anything below 1 is treated as the first page.
func (s *InventoryService) List(farmerID, farmID string, page int) ([]models.InventoryItem, error) {
	if page < 1 {
		page = 1
	}

	items, err := s.inventoryRepo.List(farmerID, farmID, page, PageSize)
	if err != nil {
		s.logger.Error("listing inventory failed", zap.Error(err))
		return nil, err
	}

	return items, nil
}

// Get returns the items matching id+farm+farmer. No match is an empty
// slice, never an error.
func (s *InventoryService) Get(id, farmID, farmerID string) ([]models.InventoryItem, error) {
	items, err := s.inventoryRepo.FindScoped(id, farmID, farmerID)
	if err != nil {
		s.logger.Error("fetching inventory item failed", zap.Error(err))
		return nil, err
	}

	return items, nil
}

func (s *InventoryService) Update(id, farmID, farmerID string, update ItemUpdate) ([]models.InventoryItem, error) {
	fields := update.fields()
	if len(fields) > 0 {
		rows, err := s.inventoryRepo.UpdateFields(id, farmID, farmerID, fields)
		if err != nil {
			s.logger.Error("updating inventory item failed", zap.Error(err))
			return nil, err
		}
		if rows == 0 {
			return nil, ErrItemNotFound
		}
	}

	return s.inventoryRepo.FindScoped(id, farmID, farmerID)
}

func (s *InventoryService) Delete(id, farmerID, farmID string) error {
	rows, err := s.inventoryRepo.Delete(id, farmerID, farmID)
	if err != nil {
		s.logger.Error("deleting inventory item failed", zap.Error(err))
		return err
	}
	if rows == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *InventoryService) Clear(farmerID, farmID string) error {
	if _, err := s.inventoryRepo.DeleteScope(farmerID, farmID); err != nil {
		s.logger.Error("clearing inventory failed", zap.Error(err))
		return err
	}
	return nil
}
