package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SaniatAzam/invoice-generator/internal/services"
)

// RestCartHandler exposes server-side cart sessions.
type RestCartHandler struct {
	cartService services.ICartService
}

// NewRestCartHandler creates a new RestCartHandler.
func NewRestCartHandler(cartService services.ICartService) *RestCartHandler {
	return &RestCartHandler{cartService: cartService}
}

type selectRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity *int   `json:"quantity"`
}

// OpenCart handles POST /cart
func (h *RestCartHandler) OpenCart(c *gin.Context) {
	id, cart, err := h.cartService.Open(c.Request.Context())
	if err != nil {
		respondError(c, err, msgCartNotFound, "Failed to open cart")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "cart": cart})
}

// GetCart handles GET /cart/:id
func (h *RestCartHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, msgCartNotFound, "Failed to load cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}

// SelectItem handles POST /cart/:id/select
func (h *RestCartHandler) SelectItem(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	cart, err := h.cartService.Select(c.Request.Context(), c.Param("id"), req.Name, req.Quantity)
	if err != nil {
		respondError(c, err, msgCartNotFound, "Failed to update cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddLine handles POST /cart/:id/lines. An empty body adds the pending
// selection. A rejected line still answers 200 with added=false.
func (h *RestCartHandler) AddLine(c *gin.Context) {
	var req services.LineRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadBody(c, err)
			return
		}
	}

	cart, added, err := h.cartService.AddLine(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, msgCartNotFound, "Failed to update cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "added": added})
}

// Checkout handles POST /cart/:id/checkout
func (h *RestCartHandler) Checkout(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	invoice, err := h.cartService.Checkout(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, msgCartNotFound, "Failed to save invoice")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgInvoiceSaved, "newInvoice": invoice})
}
