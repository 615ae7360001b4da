package services

import (
	"errors"

	"github.com/agrolink/farmgate/internal/models"
	"github.com/agrolink/farmgate/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrListingNotFound = errors.New("market listing not found")
	ErrFarmerNotFound  = errors.New("farmer not found")
)

// MarketService toggles an inventory item's presence in the market
// collection. The item flag and the listing row are written in one
// transaction so they can never disagree.
type MarketService struct {
	inventoryRepo *repository.InventoryRepository
	marketRepo    *repository.MarketRepository
	farmerRepo    *repository.FarmerRepository
	db            *gorm.DB
	logger        *zap.Logger
}

func NewMarketService(
	inventoryRepo *repository.InventoryRepository,
	marketRepo *repository.MarketRepository,
	farmerRepo *repository.FarmerRepository,
	db *gorm.DB,
	logger *zap.Logger,
) *MarketService {
	return &MarketService{
		inventoryRepo: inventoryRepo,
		marketRepo:    marketRepo,
		farmerRepo:    farmerRepo,
		db:            db,
		logger:        logger,
	}
}

// AddToMarket lists the item and projects it into a MarketListing. The
// unique index on item_id keeps at most one listing per item; a failed
// projection rolls the flag update back.
func (s *MarketService) AddToMarket(id, farmID string) (*models.MarketListing, error) {
	var listing *models.MarketListing

	err := s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.inventoryRepo.FindByFarmForUpdate(tx, id, farmID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		farmer, err := s.farmerRepo.FindByIDInTx(tx, item.FarmerID)
		if err != nil {
			return err
		}
		if farmer == nil {
			return ErrFarmerNotFound
		}

		item.Listed = true
		item.Status = models.StatusPending
		if err := s.inventoryRepo.UpdateInTx(tx, item); err != nil {
			return err
		}

		listing = &models.MarketListing{
			ItemID:      item.ID,
			Name:        item.Name,
			Username:    farmer.Username,
			Email:       farmer.Email,
			PhoneNumber: farmer.PhoneNumber,
			Type:        item.Type,
			Unit:        item.Unit,
			Quantity:    item.Quantity,
			Price:       item.Price,
			HarvestDate: item.HarvestDate,
		}

		return s.marketRepo.CreateInTx(tx, listing)
	})

	if err != nil {
		s.logger.Error("adding item to market failed",
			zap.String("item_id", id),
			zap.String("farm_id", farmID),
			zap.Error(err))
		return nil, err
	}

	return listing, nil
}

// RemoveFromMarket unlists the item and deletes its listing. Both
// writes share one transaction.
func (s *MarketService) RemoveFromMarket(id, farmID string) (*models.InventoryItem, error) {
	var item *models.InventoryItem

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = s.inventoryRepo.FindByFarmForUpdate(tx, id, farmID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		item.Listed = false
		item.Status = models.StatusUnlisted
		if err := s.inventoryRepo.UpdateInTx(tx, item); err != nil {
			return err
		}

		rows, err := s.marketRepo.DeleteByItemIDInTx(tx, item.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrListingNotFound
		}

		return nil
	})

	if err != nil {
		s.logger.Error("removing item from market failed",
			zap.String("item_id", id),
			zap.String("farm_id", farmID),
			zap.Error(err))
		return nil, err
	}

	return item, nil
}

// Browse returns one page of the public market feed, newest first.
func (s *MarketService) Browse(page int) ([]models.MarketListing, error) {
	if page < 1 {
		page = 1
	}

	listings, err := s.marketRepo.List(page, PageSize)
	if err != nil {
		s.logger.Error("browsing market failed", zap.Error(err))
		return nil, err
	}

	return listings, nil
}
