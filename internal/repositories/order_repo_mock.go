package repositories

import (
	"sort"
	"sync"
	"time"

	"ordermgmt/internal/apperrors"
	"ordermgmt/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[uint]models.Order
	items  map[uint]models.OrderItem
	nextID uint
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[uint]models.Order),
		items:  make(map[uint]models.OrderItem),
		nextID: 1,
	}
}

// GetAll returns all orders, newest first.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orders = append(orders, copyOrder(order))
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id uint) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NewNotFound("order", id)
	}
	o := copyOrder(order)
	return &o, nil
}

// GetByNumber returns an order by its order number.
func (r *MockOrderRepository) GetByNumber(number string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.OrderNumber == number {
			o := copyOrder(order)
			return &o, nil
		}
	}
	return nil, apperrors.NewNotFound("order", number)
}

// GetItem returns an order item by its ID.
func (r *MockOrderRepository) GetItem(id uint) (*models.OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, apperrors.NewNotFound("order item", id)
	}
	return &item, nil
}

// Create adds a new order, assigning IDs to the order and its items.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = r.nextID
	r.nextID++
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt
	for i := range order.Items {
		order.Items[i].ID = r.nextID
		r.nextID++
		order.Items[i].OrderID = order.ID
		order.Items[i].CreatedAt = order.CreatedAt
		r.items[order.Items[i].ID] = order.Items[i]
	}
	r.orders[order.ID] = copyOrder(*order)
	return nil
}

// Update replaces the stored order if the version still matches.
func (r *MockOrderRepository) Update(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.ID]
	if !ok {
		return apperrors.NewNotFound("order", order.ID)
	}
	if stored.Version != order.Version {
		return apperrors.NewConflict("order", order.ID)
	}
	order.Version++
	order.UpdatedAt = time.Now().UTC()
	r.orders[order.ID] = copyOrder(*order)
	return nil
}

func copyOrder(order models.Order) models.Order {
	items := make([]models.OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return order
}
