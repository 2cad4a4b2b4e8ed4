package repositories

import (
	"ordermgmt/internal/models"
)

// PaymentRepository defines the interface for payment data access.
type PaymentRepository interface {
	GetAll() ([]models.Payment, error)
	GetByID(id uint) (*models.Payment, error)
	Create(payment *models.Payment) error
	// Update persists status, amounts and timestamps. It fails with a
	// Conflict error when the payment was modified concurrently.
	Update(payment *models.Payment) error
}
