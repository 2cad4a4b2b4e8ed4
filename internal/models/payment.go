package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the state of a payment. Refund states are derived from the
// refunded amount, not driven by the state machine engine.
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusProcessing        PaymentStatus = "processing"
	PaymentStatusCompleted         PaymentStatus = "completed"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentStatusCancelled         PaymentStatus = "cancelled"
)

// PaymentMethod is how the customer paid.
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodPayPal       PaymentMethod = "paypal"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodStripe       PaymentMethod = "stripe"
	PaymentMethodOther        PaymentMethod = "other"
)

// Payment records a payment against an order. RefundedAmount only ever grows
// and never exceeds Amount.
type Payment struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	PaymentNumber string `json:"payment_number" gorm:"uniqueIndex;type:varchar(50);not null"`
	OrderID       uint   `json:"order_id" gorm:"index;not null"`

	Status PaymentStatus `json:"status" gorm:"type:varchar(20);index;not null"`
	Method PaymentMethod `json:"method" gorm:"type:varchar(20);not null" validate:"required,oneof=credit_card debit_card paypal bank_transfer stripe other"`

	Amount         decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	RefundedAmount decimal.Decimal `json:"refunded_amount" gorm:"type:decimal(10,2);not null"`
	Currency       string          `json:"currency" gorm:"type:varchar(3);default:'USD'"`

	TransactionID string `json:"transaction_id" gorm:"type:varchar(100)"`

	CompletedAt *time.Time `json:"completed_at"`
	RefundedAt  *time.Time `json:"refunded_at"`

	Version   uint      `json:"version" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
