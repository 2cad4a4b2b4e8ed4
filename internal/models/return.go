package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReturnStatus is the lifecycle state of a return.
type ReturnStatus string

const (
	ReturnStatusInitiated       ReturnStatus = "initiated"
	ReturnStatusApproved        ReturnStatus = "approved"
	ReturnStatusRejected        ReturnStatus = "rejected"
	ReturnStatusPickupScheduled ReturnStatus = "pickup_scheduled"
	ReturnStatusInTransit       ReturnStatus = "in_transit"
	ReturnStatusReceived        ReturnStatus = "received"
	ReturnStatusProcessed       ReturnStatus = "processed"
	ReturnStatusRefunded        ReturnStatus = "refunded"
	ReturnStatusCancelled       ReturnStatus = "cancelled"
)

// ReturnReason is why the customer is sending items back.
type ReturnReason string

const (
	ReturnReasonDefective      ReturnReason = "defective"
	ReturnReasonWrongItem      ReturnReason = "wrong_item"
	ReturnReasonNotAsDescribed ReturnReason = "not_as_described"
	ReturnReasonDamaged        ReturnReason = "damaged"
	ReturnReasonSizeIssue      ReturnReason = "size_issue"
	ReturnReasonChangeOfMind   ReturnReason = "change_of_mind"
	ReturnReasonOther          ReturnReason = "other"
)

// Return represents a product return against a delivered order. The refund
// amount is computed once at creation from the referenced order items and is
// never recomputed afterwards.
type Return struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	ReturnNumber string `json:"return_number" gorm:"uniqueIndex;type:varchar(50);not null"`
	OrderID      uint   `json:"order_id" gorm:"index;not null"`

	Status         ReturnStatus  `json:"status" gorm:"type:varchar(20);index;not null"`
	PreviousStatus *ReturnStatus `json:"previous_status" gorm:"type:varchar(20)"`

	Reason            ReturnReason `json:"reason" gorm:"type:varchar(30);not null" validate:"required,oneof=defective wrong_item not_as_described damaged size_issue change_of_mind other"`
	ReasonDescription string       `json:"reason_description" gorm:"type:text"`
	RejectionReason   *string      `json:"rejection_reason" gorm:"type:text"`

	RefundAmount decimal.Decimal `json:"refund_amount" gorm:"type:decimal(10,2);not null"`
	Currency     string          `json:"currency" gorm:"type:varchar(3);default:'USD'"`

	TrackingNumber string `json:"tracking_number" gorm:"type:varchar(100)"`
	Notes          string `json:"notes" gorm:"type:text"`

	Items []ReturnItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`

	ApprovedAt        *time.Time `json:"approved_at"`
	PickupScheduledAt *time.Time `json:"pickup_scheduled_at"`
	ReceivedAt        *time.Time `json:"received_at"`
	ProcessedAt       *time.Time `json:"processed_at"`
	RefundedAt        *time.Time `json:"refunded_at"`

	Version   uint      `json:"version" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReturnItem references an item of the original order. Its refund amount is
// unit price at order time multiplied by the returned quantity.
type ReturnItem struct {
	ID          uint `json:"id" gorm:"primaryKey"`
	ReturnID    uint `json:"return_id" gorm:"index;not null"`
	OrderItemID uint `json:"order_item_id" gorm:"not null"`

	ProductID   int64  `json:"product_id" gorm:"not null"`
	ProductName string `json:"product_name" gorm:"type:varchar(255);not null"`
	ProductSKU  string `json:"product_sku" gorm:"type:varchar(100);not null"`

	Quantity     int             `json:"quantity" gorm:"not null" validate:"required,gt=0"`
	RefundAmount decimal.Decimal `json:"refund_amount" gorm:"type:decimal(10,2);not null"`

	Condition      string `json:"condition" gorm:"type:varchar(50)"`
	ConditionNotes string `json:"condition_notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
}
