package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/agrolink/farmgate/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidExport    = errors.New("invalid export data")
)

// InventoryExport is a signed snapshot of a farm+farmer inventory scope,
// suitable for handing to auditors or other services.
type InventoryExport struct {
	FarmID     string       `json:"farm_id"`
	FarmerID   string       `json:"farmer_id"`
	Items      []ExportItem `json:"items"`
	ExportedAt time.Time    `json:"exported_at"`
	Signature  string       `json:"signature"`
}

type ExportItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Unit        string    `json:"unit"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	HarvestDate time.Time `json:"harvest_date"`
	Listed      bool      `json:"listed"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type ExportService struct {
	inventoryRepo *repository.InventoryRepository
	signingKey    string
	logger        *zap.Logger
}

func NewExportService(inventoryRepo *repository.InventoryRepository, signingKey string, logger *zap.Logger) *ExportService {
	return &ExportService{
		inventoryRepo: inventoryRepo,
		signingKey:    signingKey,
		logger:        logger,
	}
}

func (s *ExportService) ExportInventory(farmerID, farmID string) (*InventoryExport, error) {
	items, err := s.inventoryRepo.FindAllScoped(farmerID, farmID)
	if err != nil {
		s.logger.Error("inventory export failed", zap.Error(err))
		return nil, err
	}

	exportItems := make([]ExportItem, len(items))
	for i, item := range items {
		exportItems[i] = ExportItem{
			ID:          item.ID,
			Name:        item.Name,
			Type:        item.Type,
			Unit:        item.Unit,
			Quantity:    item.Quantity,
			Price:       item.Price,
			HarvestDate: item.HarvestDate,
			Listed:      item.Listed,
			Status:      item.Status,
			CreatedAt:   item.CreatedAt,
		}
	}

	export := &InventoryExport{
		FarmID:     farmID,
		FarmerID:   farmerID,
		Items:      exportItems,
		ExportedAt: time.Now(),
	}

	signature, err := s.signExport(export)
	if err != nil {
		return nil, err
	}
	export.Signature = signature

	return export, nil
}

func (s *ExportService) VerifyExport(export *InventoryExport) (bool, error) {
	if export.Signature == "" {
		return false, ErrInvalidExport
	}

	provided := export.Signature

	exportCopy := *export
	exportCopy.Signature = ""

	computed, err := s.signExport(&exportCopy)
	if err != nil {
		return false, err
	}

	return hmac.Equal([]byte(computed), []byte(provided)), nil
}

func (s *ExportService) signExport(export *InventoryExport) (string, error) {
	exportCopy := *export
	exportCopy.Signature = ""

	data, err := json.Marshal(exportCopy)
	if err != nil {
		return "", err
	}

	h := hmac.New(sha256.New, []byte(s.signingKey))
	h.Write(data)

	return hex.EncodeToString(h.Sum(nil)), nil
}
