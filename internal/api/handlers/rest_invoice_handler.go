package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SaniatAzam/invoice-generator/internal/models"
	"github.com/SaniatAzam/invoice-generator/internal/render"
	"github.com/SaniatAzam/invoice-generator/internal/services"
	"github.com/SaniatAzam/invoice-generator/internal/storage"
)

const archiveLinkTTL = 15 * time.Minute

// RestInvoiceHandler handles REST requests for invoices.
type RestInvoiceHandler struct {
	invoiceService services.IInvoiceService
	renderer       render.IInvoiceRenderer
	archive        storage.IInvoiceArchive // nil when archiving is disabled
	now            func() time.Time
}

// NewRestInvoiceHandler creates a new RestInvoiceHandler.
func NewRestInvoiceHandler(invoiceService services.IInvoiceService, renderer render.IInvoiceRenderer, archive storage.IInvoiceArchive) *RestInvoiceHandler {
	return &RestInvoiceHandler{
		invoiceService: invoiceService,
		renderer:       renderer,
		archive:        archive,
		now:            time.Now,
	}
}

// SaveInvoice handles POST /save-invoice
func (h *RestInvoiceHandler) SaveInvoice(c *gin.Context) {
	var req models.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	invoice, err := req.ToInvoice(h.now())
	if err != nil {
		respondBadBody(c, err)
		return
	}

	saved, err := h.invoiceService.Create(c.Request.Context(), invoice)
	if err != nil {
		respondError(c, err, msgInvoiceNotFound, "Failed to save invoice")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgInvoiceSaved, "newInvoice": saved})
}

// UpdateInvoice handles PUT /update-invoice/:invoiceNo
func (h *RestInvoiceHandler) UpdateInvoice(c *gin.Context) {
	invoiceNo := c.Param("invoiceNo")

	var req models.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	req.InvoiceNo = invoiceNo

	invoice, err := req.ToInvoice(h.now())
	if err != nil {
		respondBadBody(c, err)
		return
	}

	updated, err := h.invoiceService.Update(c.Request.Context(), invoiceNo, invoice.Fields())
	if err != nil {
		respondError(c, err, msgInvoiceNotFound, "Failed to update invoice")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgInvoiceUpdated, "updatedInvoice": updated})
}

// DeleteInvoice handles DELETE /delete-invoice/:invoiceNo
func (h *RestInvoiceHandler) DeleteInvoice(c *gin.Context) {
	invoiceNo := c.Param("invoiceNo")

	if err := h.invoiceService.Delete(c.Request.Context(), invoiceNo); err != nil {
		respondError(c, err, msgInvoiceNotFound, "Failed to delete invoice")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Invoice %s deleted successfully!", invoiceNo)})
}

// GetInvoice handles GET /invoice/:invoiceNo
func (h *RestInvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.Get(c.Request.Context(), c.Param("invoiceNo"))
	if err != nil {
		respondError(c, err, msgInvoiceNotFound, "Failed to fetch invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// PrintInvoice handles GET /invoice/:invoiceNo/print and streams the PDF.
func (h *RestInvoiceHandler) PrintInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.Get(c.Request.Context(), c.Param("invoiceNo"))
	if err != nil {
		respondError(c, err, msgInvoiceNotFound, "Failed to fetch invoice")
		return
	}

	pdf, err := h.renderer.RenderInvoicePDF(c.Request.Context(), invoice)
	if err != nil {
		respondError(c, err, msgInvoiceNotFound, "Failed to render invoice")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", invoice.InvoiceNo+".pdf"))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GetArchiveLink handles GET /invoice/:invoiceNo/archive
func (h *RestInvoiceHandler) GetArchiveLink(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invoice archive is not enabled"})
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), c.Param("invoiceNo"))
	if err != nil {
		respondError(c, err, msgInvoiceNotFound, "Failed to fetch invoice")
		return
	}

	url, err := h.archive.PresignInvoiceURL(c.Request.Context(), invoice.InvoiceNo, archiveLinkTTL)
	if err != nil {
		respondError(c, err, msgInvoiceNotFound, "Failed to create archive link")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":       url,
		"key":       storage.InvoiceKey(invoice.InvoiceNo),
		"expiresAt": h.now().Add(archiveLinkTTL).UTC(),
	})
}
