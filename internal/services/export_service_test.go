package services

import (
	"encoding/json"
	"testing"

	"github.com/agrolink/farmgate/internal/database"
	"github.com/agrolink/farmgate/internal/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupExportTest(t *testing.T) (*gorm.DB, *InventoryService, *ExportService) {
	db, err := database.Connect(":memory:")
	assert.NoError(t, err)

	err = database.Migrate(db)
	assert.NoError(t, err)

	inventoryRepo := repository.NewInventoryRepository(db)
	inventoryService := NewInventoryService(inventoryRepo, zap.NewNop())
	exportService := NewExportService(inventoryRepo, "export-test-key", zap.NewNop())

	return db, inventoryService, exportService
}

func TestExportService_ExportInventory(t *testing.T) {
	db, inventoryService, exportService := setupExportTest(t)
	farm, farmer := seedScope(t, db)

	_, err := inventoryService.Add(farm.ID, farmer.ID, NewItem{Name: "Maize", Unit: "kg", Quantity: 100, Price: 2.5})
	assert.NoError(t, err)
	_, err = inventoryService.Add(farm.ID, farmer.ID, NewItem{Name: "Yam", Unit: "tuber", Quantity: 40, Price: 1.2})
	assert.NoError(t, err)

	export, err := exportService.ExportInventory(farmer.ID, farm.ID)
	assert.NoError(t, err)
	assert.Equal(t, farm.ID, export.FarmID)
	assert.Equal(t, farmer.ID, export.FarmerID)
	assert.Len(t, export.Items, 2)
	assert.NotEmpty(t, export.Signature)

	valid, err := exportService.VerifyExport(export)
	assert.NoError(t, err)
	assert.True(t, valid)
}

func TestExportService_VerifyDetectsTampering(t *testing.T) {
	db, inventoryService, exportService := setupExportTest(t)
	farm, farmer := seedScope(t, db)

	_, err := inventoryService.Add(farm.ID, farmer.ID, NewItem{Name: "Maize", Quantity: 100, Price: 2.5})
	assert.NoError(t, err)

	export, err := exportService.ExportInventory(farmer.ID, farm.ID)
	assert.NoError(t, err)

	export.Items[0].Quantity = 9999

	valid, err := exportService.VerifyExport(export)
	assert.NoError(t, err)
	assert.False(t, valid)
}

func TestExportService_VerifySurvivesRoundTrip(t *testing.T) {
	db, inventoryService, exportService := setupExportTest(t)
	farm, farmer := seedScope(t, db)

	_, err := inventoryService.Add(farm.ID, farmer.ID, NewItem{Name: "Maize", Quantity: 100, Price: 2.5})
	assert.NoError(t, err)

	export, err := exportService.ExportInventory(farmer.ID, farm.ID)
	assert.NoError(t, err)

	data, err := json.Marshal(export)
	assert.NoError(t, err)

	var decoded InventoryExport
	assert.NoError(t, json.Unmarshal(data, &decoded))

	valid, err := exportService.VerifyExport(&decoded)
	assert.NoError(t, err)
	assert.True(t, valid)
}

func TestExportService_VerifyRejectsMissingSignature(t *testing.T) {
	_, _, exportService := setupExportTest(t)

	_, err := exportService.VerifyExport(&InventoryExport{})
	assert.ErrorIs(t, err, ErrInvalidExport)
}

func TestExportService_VerifyRejectsWrongKey(t *testing.T) {
	db, inventoryService, exportService := setupExportTest(t)
	farm, farmer := seedScope(t, db)

	_, err := inventoryService.Add(farm.ID, farmer.ID, NewItem{Name: "Maize", Quantity: 100, Price: 2.5})
	assert.NoError(t, err)

	export, err := exportService.ExportInventory(farmer.ID, farm.ID)
	assert.NoError(t, err)

	inventoryRepo := repository.NewInventoryRepository(db)
	other := NewExportService(inventoryRepo, "different-key", zap.NewNop())

	valid, err := other.VerifyExport(export)
	assert.NoError(t, err)
	assert.False(t, valid)
}
