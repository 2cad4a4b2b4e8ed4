package repositories

import (
	"ordermgmt/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id uint) (*models.Order, error)
	GetByNumber(number string) (*models.Order, error)
	// GetItem resolves a single order item; return creation validates
	// requested items against it.
	GetItem(id uint) (*models.OrderItem, error)
	Create(order *models.Order) error
	// Update persists status, timestamps and notes. It fails with a
	// Conflict error when the order was modified concurrently.
	Update(order *models.Order) error
}
