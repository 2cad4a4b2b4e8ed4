package repositories

import (
	"ordermgmt/internal/models"
)

// InvoiceRepository defines the interface for invoice data access. Invoice
// rows are written once by the background workers and never updated.
type InvoiceRepository interface {
	GetAll() ([]models.Invoice, error)
	GetByID(id uint) (*models.Invoice, error)
	// GetByOrderID and GetByReturnID return nil without error when no
	// invoice exists yet; workers use them for duplicate-delivery checks.
	GetByOrderID(orderID uint) (*models.Invoice, error)
	GetByReturnID(returnID uint) (*models.Invoice, error)
	Create(invoice *models.Invoice) error
}
