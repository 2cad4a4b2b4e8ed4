package services

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ordermgmt/internal/models"
	"ordermgmt/internal/repositories"
	"ordermgmt/internal/statemachine"
	"ordermgmt/pkg/rabbitmq"

	"ordermgmt/internal/apperrors"
)

// TaskPublisher enqueues background tasks on the durable queue. Enqueue
// happens strictly after the state-transition commit; a failed enqueue is
// logged and never unwinds the transition.
type TaskPublisher interface {
	PublishTask(task rabbitmq.TaskMessage) error
}

var validate = validator.New()

// OrderItemInput is one requested order line.
type OrderItemInput struct {
	ProductID   int64           `json:"product_id" validate:"required"`
	ProductName string          `json:"product_name" validate:"required"`
	ProductSKU  string          `json:"product_sku" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderInput is the payload for creating an order.
type CreateOrderInput struct {
	CustomerID      int64            `json:"customer_id" validate:"required"`
	CustomerEmail   string           `json:"customer_email" validate:"required,email"`
	CustomerName    string           `json:"customer_name" validate:"required"`
	ShippingAddress string           `json:"shipping_address"`
	BillingAddress  string           `json:"billing_address"`
	Notes           string           `json:"notes"`
	Items           []OrderItemInput `json:"items" validate:"min=1,dive"`
}

// OrderService handles order business logic: creation with total computation
// and lifecycle transitions coupled to background task enqueueing.
type OrderService struct {
	orderRepo    repositories.OrderRepository
	publisher    TaskPublisher
	machine      *statemachine.Machine[models.Order]
	taxRate      decimal.Decimal
	shippingCost decimal.Decimal
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, publisher TaskPublisher, taxRate, shippingCost decimal.Decimal) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		publisher:    publisher,
		machine:      statemachine.NewOrderMachine(),
		taxRate:      taxRate,
		shippingCost: shippingCost,
	}
}

func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id uint) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// CreateOrder creates a new order in the pending state. The item list must be
// non-empty; totals are derived from it: tax is a percentage of the subtotal,
// shipping is flat, total = subtotal + tax + shipping.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if err := validate.Struct(input); err != nil {
		return nil, apperrors.NewValidation("invalid order: %v", err)
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		if item.UnitPrice.IsNegative() {
			return nil, apperrors.NewValidation("unit price of product %d must not be negative", item.ProductID)
		}
		totalPrice := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items = append(items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			TotalPrice:  totalPrice,
		})
		subtotal = subtotal.Add(totalPrice)
	}

	tax := subtotal.Mul(s.taxRate).Round(2)
	total := subtotal.Add(tax).Add(s.shippingCost)

	order := &models.Order{
		OrderNumber:     generateOrderNumber(),
		CustomerID:      input.CustomerID,
		CustomerEmail:   input.CustomerEmail,
		CustomerName:    input.CustomerName,
		Status:          models.OrderStatusPending,
		Subtotal:        subtotal,
		Tax:             tax,
		ShippingCost:    s.shippingCost,
		Total:           total,
		Currency:        "USD",
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		Notes:           input.Notes,
		Items:           items,
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

// TransitionOrder applies a lifecycle action to an order and persists the
// result. After a successful ship transition it enqueues invoice generation;
// every successful transition enqueues a status notification. Enqueue failures
// are logged only — the transition is already committed.
func (s *OrderService) TransitionOrder(id uint, action string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	action = s.machine.Normalize(action)
	if _, err := s.machine.Apply(order, action, nil); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	if action == statemachine.OrderActionShip {
		s.enqueue(rabbitmq.TaskMessage{
			Task:    rabbitmq.TaskGenerateOrderInvoice,
			OrderID: order.ID,
		}, order.ID)
	}
	s.enqueue(rabbitmq.TaskMessage{
		Task:     rabbitmq.TaskSendStatusNotification,
		Entity:   "order",
		EntityID: order.ID,
		Status:   string(order.Status),
	}, order.ID)

	return order, nil
}

func (s *OrderService) enqueue(task rabbitmq.TaskMessage, orderID uint) {
	if s.publisher == nil {
		slog.Warn("task publisher not configured, skipping enqueue", "task", task.Task, "order_id", orderID)
		return
	}
	if err := s.publisher.PublishTask(task); err != nil {
		slog.Error("failed to enqueue task", "task", task.Task, "order_id", orderID, "error", err)
	}
}
