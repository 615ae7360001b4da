package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/agrolink/farmgate/internal/services"
	"github.com/gin-gonic/gin"
)

type MarketHandler struct {
	marketService *services.MarketService
}

func NewMarketHandler(marketService *services.MarketService) *MarketHandler {
	return &MarketHandler{marketService: marketService}
}

// AddToMarket godoc
// @Summary List an inventory item on the market
// @Tags market
// @Produce json
// @Security BearerAuth
// @Param farmId path string true "Farm ID"
// @Param id path string true "Item ID"
// @Success 200 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /farms/{farmId}/inventory/{id}/market [post]
func (h *MarketHandler) AddToMarket(c *gin.Context) {
	listing, err := h.marketService.AddToMarket(c.Param("id"), c.Param("farmId"))
	if err != nil {
		fail(c, http.StatusInternalServerError, "Inventory Item could not be added to market")
		return
	}

	respond(c, http.StatusOK, "Item has been added to market", "success", listing)
}

// RemoveFromMarket godoc
// @Summary Remove an inventory item from the market
// @Tags market
// @Produce json
// @Security BearerAuth
// @Param farmId path string true "Farm ID"
// @Param id path string true "Item ID"
// @Success 200 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /farms/{farmId}/inventory/{id}/market [delete]
func (h *MarketHandler) RemoveFromMarket(c *gin.Context) {
	item, err := h.marketService.RemoveFromMarket(c.Param("id"), c.Param("farmId"))
	if err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			fail(c, http.StatusInternalServerError, "Item could not be deleted from market")
			return
		}
		fail(c, http.StatusInternalServerError, "Item could not be removed from market.")
		return
	}

	respond(c, http.StatusOK, "Item has been removed from market", "success", item)
}

// Browse godoc
// @Summary Browse the public market feed
// @Tags market
// @Produce json
// @Param page query int false "1-based page number"
// @Success 200 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /market [get]
func (h *MarketHandler) Browse(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	listings, err := h.marketService.Browse(page)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Market listings could not be retrieved")
		return
	}

	respond(c, http.StatusOK, "Market listings retrieved.", "success", listings)
}
