package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ordermgmt/internal/apperrors"
	"ordermgmt/internal/models"
)

// GORMInvoiceRepository is a GORM implementation of InvoiceRepository.
type GORMInvoiceRepository struct {
	db *gorm.DB
}

// NewGORMInvoiceRepository creates a new instance of GORMInvoiceRepository.
func NewGORMInvoiceRepository(db *gorm.DB) *GORMInvoiceRepository {
	return &GORMInvoiceRepository{db: db}
}

// GetAll retrieves all invoices, newest first.
func (r *GORMInvoiceRepository) GetAll() ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := r.db.Order("created_at DESC").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to get all invoices: %w", err)
	}
	return invoices, nil
}

// GetByID retrieves a single invoice.
func (r *GORMInvoiceRepository) GetByID(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("invoice", id)
		}
		return nil, fmt.Errorf("failed to get invoice %d: %w", id, err)
	}
	return &invoice, nil
}

// GetByOrderID retrieves the invoice generated for an order, or nil.
func (r *GORMInvoiceRepository) GetByOrderID(orderID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.First(&invoice, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice for order %d: %w", orderID, err)
	}
	return &invoice, nil
}

// GetByReturnID retrieves the credit memo generated for a return, or nil.
func (r *GORMInvoiceRepository) GetByReturnID(returnID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.First(&invoice, "return_id = ?", returnID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice for return %d: %w", returnID, err)
	}
	return &invoice, nil
}

// Create persists a new invoice record.
func (r *GORMInvoiceRepository) Create(invoice *models.Invoice) error {
	if err := r.db.Create(invoice).Error; err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}
