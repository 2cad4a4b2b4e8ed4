package repositories

import (
	"ordermgmt/internal/models"
)

// ReturnRepository defines the interface for return data access.
type ReturnRepository interface {
	GetAll() ([]models.Return, error)
	GetByID(id uint) (*models.Return, error)
	Create(ret *models.Return) error
	// Update persists status, timestamps and rejection reason. It fails
	// with a Conflict error when the return was modified concurrently.
	Update(ret *models.Return) error
}
