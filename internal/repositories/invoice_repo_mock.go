package repositories

import (
	"sort"
	"sync"
	"time"

	"ordermgmt/internal/apperrors"
	"ordermgmt/internal/models"
)

// MockInvoiceRepository is an in-memory implementation of InvoiceRepository.
type MockInvoiceRepository struct {
	invoices map[uint]models.Invoice
	nextID   uint
	mu       sync.RWMutex
}

// NewMockInvoiceRepository creates a new instance of MockInvoiceRepository.
func NewMockInvoiceRepository() *MockInvoiceRepository {
	return &MockInvoiceRepository{
		invoices: make(map[uint]models.Invoice),
		nextID:   1,
	}
}

// GetAll returns all invoices, newest first.
func (r *MockInvoiceRepository) GetAll() ([]models.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	invoices := make([]models.Invoice, 0, len(r.invoices))
	for _, invoice := range r.invoices {
		invoices = append(invoices, invoice)
	}
	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].CreatedAt.After(invoices[j].CreatedAt)
	})
	return invoices, nil
}

// GetByID returns an invoice by its ID.
func (r *MockInvoiceRepository) GetByID(id uint) (*models.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	invoice, ok := r.invoices[id]
	if !ok {
		return nil, apperrors.NewNotFound("invoice", id)
	}
	return &invoice, nil
}

// GetByOrderID returns the invoice generated for an order, or nil.
func (r *MockInvoiceRepository) GetByOrderID(orderID uint) (*models.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, invoice := range r.invoices {
		if invoice.OrderID != nil && *invoice.OrderID == orderID {
			inv := invoice
			return &inv, nil
		}
	}
	return nil, nil
}

// GetByReturnID returns the credit memo generated for a return, or nil.
func (r *MockInvoiceRepository) GetByReturnID(returnID uint) (*models.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, invoice := range r.invoices {
		if invoice.ReturnID != nil && *invoice.ReturnID == returnID {
			inv := invoice
			return &inv, nil
		}
	}
	return nil, nil
}

// Create adds a new invoice.
func (r *MockInvoiceRepository) Create(invoice *models.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	invoice.ID = r.nextID
	r.nextID++
	invoice.CreatedAt = time.Now().UTC()
	r.invoices[invoice.ID] = *invoice
	return nil
}
