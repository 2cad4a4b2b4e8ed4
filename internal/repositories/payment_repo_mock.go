package repositories

import (
	"sort"
	"sync"
	"time"

	"ordermgmt/internal/apperrors"
	"ordermgmt/internal/models"
)

// MockPaymentRepository is an in-memory implementation of PaymentRepository.
type MockPaymentRepository struct {
	payments map[uint]models.Payment
	nextID   uint
	mu       sync.RWMutex
}

// NewMockPaymentRepository creates a new instance of MockPaymentRepository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[uint]models.Payment),
		nextID:   1,
	}
}

// GetAll returns all payments, newest first.
func (r *MockPaymentRepository) GetAll() ([]models.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payments := make([]models.Payment, 0, len(r.payments))
	for _, payment := range r.payments {
		payments = append(payments, payment)
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
	return payments, nil
}

// GetByID returns a payment by its ID.
func (r *MockPaymentRepository) GetByID(id uint) (*models.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, ok := r.payments[id]
	if !ok {
		return nil, apperrors.NewNotFound("payment", id)
	}
	return &payment, nil
}

// Create adds a new payment.
func (r *MockPaymentRepository) Create(payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment.ID = r.nextID
	r.nextID++
	payment.CreatedAt = time.Now().UTC()
	payment.UpdatedAt = payment.CreatedAt
	r.payments[payment.ID] = *payment
	return nil
}

// Update replaces the stored payment if the version still matches.
func (r *MockPaymentRepository) Update(payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.payments[payment.ID]
	if !ok {
		return apperrors.NewNotFound("payment", payment.ID)
	}
	if stored.Version != payment.Version {
		return apperrors.NewConflict("payment", payment.ID)
	}
	payment.Version++
	payment.UpdatedAt = time.Now().UTC()
	r.payments[payment.ID] = *payment
	return nil
}
