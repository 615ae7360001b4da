package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/agrolink/farmgate/internal/services"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
	exportService    *services.ExportService
}

func NewInventoryHandler(inventoryService *services.InventoryService, exportService *services.ExportService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		exportService:    exportService,
	}
}

type AddInventoryRequest struct {
	Name        string    `json:"name" binding:"required"`
	Type        string    `json:"type"`
	Unit        string    `json:"unit"`
	Quantity    int       `json:"quantity" binding:"required,min=1"`
	Price       float64   `json:"price" binding:"required"`
	HarvestDate time.Time `json:"harvestDate"`
}

type UpdateInventoryRequest struct {
	Name        *string    `json:"name"`
	Type        *string    `json:"type"`
	Unit        *string    `json:"unit"`
	Quantity    *int       `json:"quantity"`
	Price       *float64   `json:"price"`
	HarvestDate *time.Time `json:"harvestDate"`
}

// AddToInventory godoc
// @Summary Add a harvest to inventory
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param farmId path string true "Farm ID"
// @Param farmerId path string true "Farmer ID"
// @Param request body AddInventoryRequest true "Harvest details"
// @Success 201 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /farms/{farmId}/farmers/{farmerId}/inventory [post]
func (h *InventoryHandler) AddToInventory(c *gin.Context) {
	var req AddInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	item, err := h.inventoryService.Add(c.Param("farmId"), c.Param("farmerId"), services.NewItem{
		Name:        req.Name,
		Type:        req.Type,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		Price:       req.Price,
		HarvestDate: req.HarvestDate,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "Harvest could not be added to inventory.")
		return
	}

	respond(c, http.StatusCreated, "Harvest successfully added to inventory", "success", item)
}

// ListInventory godoc
// @Summary List inventory
// @Description One page (10 items) of the farm+farmer inventory
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param farmId path string true "Farm ID"
// @Param farmerId path string true "Farmer ID"
// @Param page query int false "1-based page number"
// @Success 200 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /farms/{farmId}/farmers/{farmerId}/inventory [get]
func (h *InventoryHandler) ListInventory(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	items, err := h.inventoryService.List(c.Param("farmerId"), c.Param("farmId"), page)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Harvest inventory could not be retrieved.")
		return
	}

	respond(c, http.StatusOK, "Harvest inventory retrieved.", "success", items)
}

// GetInventoryItem godoc
// @Summary Get one inventory item
// @Description Returns a list with zero or one items; absence is not an error
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param farmId path string true "Farm ID"
// @Param farmerId path string true "Farmer ID"
// @Param id path string true "Item ID"
// @Success 200 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /farms/{farmId}/farmers/{farmerId}/inventory/{id} [get]
func (h *InventoryHandler) GetInventoryItem(c *gin.Context) {
	items, err := h.inventoryService.Get(c.Param("id"), c.Param("farmId"), c.Param("farmerId"))
	if err != nil {
		fail(c, http.StatusInternalServerError, "Harvest could not be retrieved from inventory")
		return
	}

	respond(c, http.StatusOK, "Harvest retrieved from inventory", "success", items)
}

// UpdateInventoryItem godoc
// @Summary Update an inventory item
// @Description Partial update; absent fields keep their values
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param farmId path string true "Farm ID"
// @Param farmerId path string true "Farmer ID"
// @Param id path string true "Item ID"
// @Param request body UpdateInventoryRequest true "Fields to change"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /farms/{farmId}/farmers/{farmerId}/inventory/{id} [patch]
func (h *InventoryHandler) UpdateInventoryItem(c *gin.Context) {
	var req UpdateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	items, err := h.inventoryService.Update(c.Param("id"), c.Param("farmId"), c.Param("farmerId"), services.ItemUpdate{
		Name:        req.Name,
		Type:        req.Type,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		Price:       req.Price,
		HarvestDate: req.HarvestDate,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "Harvest could not be updated, try again.")
		return
	}

	respond(c, http.StatusOK, "Harvest updated successfully", "success", items)
}

// DeleteInventoryItem godoc
// @Summary Delete an inventory item
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param farmId path string true "Farm ID"
// @Param farmerId path string true "Farmer ID"
// @Param id path string true "Item ID"
// @Success 200 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /farms/{farmId}/farmers/{farmerId}/inventory/{id} [delete]
func (h *InventoryHandler) DeleteInventoryItem(c *gin.Context) {
	err := h.inventoryService.Delete(c.Param("id"), c.Param("farmerId"), c.Param("farmId"))
	if err != nil {
		fail(c, http.StatusInternalServerError, "Harvest could not be deleted")
		return
	}

	respond(c, http.StatusOK, "Harvest deleted successfully", "success", nil)
}

// ClearInventory godoc
// @Summary Clear a farm+farmer inventory
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param farmId path string true "Farm ID"
// @Param farmerId path string true "Farmer ID"
// @Success 200 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /farms/{farmId}/farmers/{farmerId}/inventory [delete]
func (h *InventoryHandler) ClearInventory(c *gin.Context) {
	if err := h.inventoryService.Clear(c.Param("farmerId"), c.Param("farmId")); err != nil {
		fail(c, http.StatusInternalServerError, "Inventory could not be cleared")
		return
	}

	respond(c, http.StatusOK, "Inventory cleared successfully", "success", nil)
}

// ExportInventory godoc
// @Summary Export a signed inventory snapshot
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param farmId path string true "Farm ID"
// @Param farmerId path string true "Farmer ID"
// @Success 200 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /farms/{farmId}/farmers/{farmerId}/inventory/export [get]
func (h *InventoryHandler) ExportInventory(c *gin.Context) {
	export, err := h.exportService.ExportInventory(c.Param("farmerId"), c.Param("farmId"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidExport) {
			fail(c, http.StatusBadRequest, "Inventory export is invalid")
			return
		}
		fail(c, http.StatusInternalServerError, "Inventory could not be exported")
		return
	}

	respond(c, http.StatusOK, "Inventory exported", "success", export)
}
