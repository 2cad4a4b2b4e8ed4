package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ordermgmt/internal/apperrors"
	"ordermgmt/internal/models"
)

// GORMReturnRepository is a GORM implementation of ReturnRepository.
type GORMReturnRepository struct {
	db *gorm.DB
}

// NewGORMReturnRepository creates a new instance of GORMReturnRepository.
func NewGORMReturnRepository(db *gorm.DB) *GORMReturnRepository {
	return &GORMReturnRepository{db: db}
}

// GetAll retrieves all returns with their items, newest first.
func (r *GORMReturnRepository) GetAll() ([]models.Return, error) {
	var returns []models.Return
	if err := r.db.Preload("Items").Order("created_at DESC").Find(&returns).Error; err != nil {
		return nil, fmt.Errorf("failed to get all returns: %w", err)
	}
	return returns, nil
}

// GetByID retrieves a single return with its items.
func (r *GORMReturnRepository) GetByID(id uint) (*models.Return, error) {
	var ret models.Return
	if err := r.db.Preload("Items").First(&ret, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("return", id)
		}
		return nil, fmt.Errorf("failed to get return %d: %w", id, err)
	}
	return &ret, nil
}

// Create persists a new return together with its items.
func (r *GORMReturnRepository) Create(ret *models.Return) error {
	if err := r.db.Create(ret).Error; err != nil {
		return fmt.Errorf("failed to create return: %w", err)
	}
	return nil
}

// Update persists the mutable return fields guarded by the version column.
func (r *GORMReturnRepository) Update(ret *models.Return) error {
	current := ret.Version
	res := r.db.Model(&models.Return{}).
		Where("id = ? AND version = ?", ret.ID, current).
		Updates(map[string]any{
			"status":              ret.Status,
			"previous_status":     ret.PreviousStatus,
			"rejection_reason":    ret.RejectionReason,
			"tracking_number":     ret.TrackingNumber,
			"notes":               ret.Notes,
			"approved_at":         ret.ApprovedAt,
			"pickup_scheduled_at": ret.PickupScheduledAt,
			"received_at":         ret.ReceivedAt,
			"processed_at":        ret.ProcessedAt,
			"refunded_at":         ret.RefundedAt,
			"version":             current + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update return %d: %w", ret.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewConflict("return", ret.ID)
	}
	ret.Version = current + 1
	return nil
}
