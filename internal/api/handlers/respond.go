package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SaniatAzam/invoice-generator/internal/services"
)

const (
	msgInvoiceSaved     = "Invoice saved successfully"
	msgInvoiceUpdated   = "Invoice updated successfully!"
	msgInvoiceNotFound  = "Invoice not found!"
	msgDuplicateInvoice = "Invoice number already exists. Please use a unique invoice number."
	msgCartNotFound     = "Cart not found or expired"
	msgInvalidBody      = "Invalid request body"
)

// respondError maps service errors onto status codes. notFound is the message
// sent for ErrNotFound, failure the one sent with any unclassified error.
func respondError(c *gin.Context, err error, notFound, failure string) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, services.ErrDuplicateKey):
		c.JSON(http.StatusBadRequest, gin.H{"message": msgDuplicateInvoice})
	case errors.Is(err, services.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": notFound})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": failure, "error": err.Error()})
	}
}

func respondBadBody(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidBody, "error": err.Error()})
}
