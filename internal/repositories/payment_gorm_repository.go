package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ordermgmt/internal/apperrors"
	"ordermgmt/internal/models"
)

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
type GORMPaymentRepository struct {
	db *gorm.DB
}

// NewGORMPaymentRepository creates a new instance of GORMPaymentRepository.
func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{db: db}
}

// GetAll retrieves all payments, newest first.
func (r *GORMPaymentRepository) GetAll() ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to get all payments: %w", err)
	}
	return payments, nil
}

// GetByID retrieves a single payment.
func (r *GORMPaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("payment", id)
		}
		return nil, fmt.Errorf("failed to get payment %d: %w", id, err)
	}
	return &payment, nil
}

// Create persists a new payment.
func (r *GORMPaymentRepository) Create(payment *models.Payment) error {
	if err := r.db.Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// Update persists the mutable payment fields guarded by the version column.
func (r *GORMPaymentRepository) Update(payment *models.Payment) error {
	current := payment.Version
	res := r.db.Model(&models.Payment{}).
		Where("id = ? AND version = ?", payment.ID, current).
		Updates(map[string]any{
			"status":          payment.Status,
			"refunded_amount": payment.RefundedAmount,
			"transaction_id":  payment.TransactionID,
			"completed_at":    payment.CompletedAt,
			"refunded_at":     payment.RefundedAt,
			"version":         current + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update payment %d: %w", payment.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewConflict("payment", payment.ID)
	}
	payment.Version = current + 1
	return nil
}
