package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusReturned   OrderStatus = "returned"
)

// Order represents a customer order. Status transitions are managed by the
// order state machine; transition timestamps are set on first entry into each
// state.
type Order struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	OrderNumber string `json:"order_number" gorm:"uniqueIndex;type:varchar(50);not null"`

	CustomerID    int64  `json:"customer_id" gorm:"index;not null" validate:"required"`
	CustomerEmail string `json:"customer_email" gorm:"type:varchar(255);not null" validate:"required,email"`
	CustomerName  string `json:"customer_name" gorm:"type:varchar(255);not null" validate:"required"`

	Status         OrderStatus  `json:"status" gorm:"type:varchar(20);index;not null"`
	PreviousStatus *OrderStatus `json:"previous_status" gorm:"type:varchar(20)"`

	Subtotal     decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	Tax          decimal.Decimal `json:"tax" gorm:"type:decimal(10,2);not null"`
	ShippingCost decimal.Decimal `json:"shipping_cost" gorm:"type:decimal(10,2);not null"`
	Total        decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	Currency     string          `json:"currency" gorm:"type:varchar(3);default:'USD'"`

	ShippingAddress string `json:"shipping_address" gorm:"type:text"`
	BillingAddress  string `json:"billing_address" gorm:"type:text"`
	Notes           string `json:"notes" gorm:"type:text"`

	Items []OrderItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	// Version is bumped on every update; stale writes are rejected.
	Version   uint      `json:"version" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem is a single product line within an order. Pricing is captured at
// order time, so later catalog changes do not affect it.
type OrderItem struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	OrderID uint `json:"order_id" gorm:"index;not null"`

	ProductID   int64  `json:"product_id" gorm:"index;not null" validate:"required"`
	ProductName string `json:"product_name" gorm:"type:varchar(255);not null" validate:"required"`
	ProductSKU  string `json:"product_sku" gorm:"type:varchar(100);not null" validate:"required"`

	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Quantity   int             `json:"quantity" gorm:"not null" validate:"required,gt=0"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2);not null"`

	CreatedAt time.Time `json:"created_at"`
}
