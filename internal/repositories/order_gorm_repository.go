package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ordermgmt/internal/apperrors"
	"ordermgmt/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// GetAll retrieves all orders with their items, newest first.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order with its items.
func (r *GORMOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("order", id)
		}
		return nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}
	return &order, nil
}

// GetByNumber retrieves a single order by its order number.
func (r *GORMOrderRepository) GetByNumber(number string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "order_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("order", number)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", number, err)
	}
	return &order, nil
}

// GetItem retrieves a single order item by its ID.
func (r *GORMOrderRepository) GetItem(id uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("order item", id)
		}
		return nil, fmt.Errorf("failed to get order item %d: %w", id, err)
	}
	return &item, nil
}

// Create persists a new order together with its items.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Update persists the mutable order fields guarded by the version column.
// A stale snapshot updates zero rows and yields a Conflict error.
func (r *GORMOrderRepository) Update(order *models.Order) error {
	current := order.Version
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, current).
		Updates(map[string]any{
			"status":          order.Status,
			"previous_status": order.PreviousStatus,
			"confirmed_at":    order.ConfirmedAt,
			"shipped_at":      order.ShippedAt,
			"delivered_at":    order.DeliveredAt,
			"cancelled_at":    order.CancelledAt,
			"notes":           order.Notes,
			"version":         current + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update order %d: %w", order.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewConflict("order", order.ID)
	}
	order.Version = current + 1
	return nil
}
