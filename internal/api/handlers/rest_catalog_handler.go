package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SaniatAzam/invoice-generator/internal/services"
)

// RestCatalogHandler serves the item catalog.
type RestCatalogHandler struct {
	catalogService services.ICatalogService
}

// NewRestCatalogHandler creates a new RestCatalogHandler.
func NewRestCatalogHandler(catalogService services.ICatalogService) *RestCatalogHandler {
	return &RestCatalogHandler{catalogService: catalogService}
}

// ListItems handles GET /items
func (h *RestCatalogHandler) ListItems(c *gin.Context) {
	items, err := h.catalogService.ListItems(c.Request.Context())
	if err != nil {
		respondError(c, err, "Item not found", "Failed to fetch items")
		return
	}
	c.JSON(http.StatusOK, items)
}
