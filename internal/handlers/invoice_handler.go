package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"ordermgmt/internal/apperrors"
	"ordermgmt/internal/repositories"
)

// InvoiceHandler handles HTTP requests for generated invoices. Invoices are
// created by the background workers only, so the surface is read-only.
type InvoiceHandler struct {
	repo repositories.InvoiceRepository
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(repo repositories.InvoiceRepository) *InvoiceHandler {
	return &InvoiceHandler{repo: repo}
}

// RegisterRoutes registers the invoice routes with the Fiber app.
func (h *InvoiceHandler) RegisterRoutes(router fiber.Router) {
	invoiceRoutes := router.Group("/invoices")
	invoiceRoutes.Get("/", h.HandleGetInvoices)
	invoiceRoutes.Get("/:id", h.HandleGetInvoiceByID)
	invoiceRoutes.Get("/:id/download", h.HandleDownloadInvoice)
}

// HandleGetInvoices retrieves all invoices.
func (h *InvoiceHandler) HandleGetInvoices(c *fiber.Ctx) error {
	invoices, err := h.repo.GetAll()
	if err != nil {
		log.Printf("Error getting all invoices: %v", err)
		return respondError(c, err)
	}
	return c.JSON(invoices)
}

// HandleGetInvoiceByID retrieves a single invoice by its ID.
func (h *InvoiceHandler) HandleGetInvoiceByID(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	invoice, err := h.repo.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// HandleDownloadInvoice serves the generated PDF file for an invoice.
func (h *InvoiceHandler) HandleDownloadInvoice(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	invoice, err := h.repo.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	if invoice.FilePath == "" {
		return respondError(c, apperrors.NewNotFound("invoice file", id))
	}
	return c.Download(invoice.FilePath, invoice.FileName)
}
