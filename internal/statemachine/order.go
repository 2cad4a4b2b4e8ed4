package statemachine

import (
	"time"

	"ordermgmt/internal/apperrors"
	"ordermgmt/internal/models"
)

// Order lifecycle actions.
const (
	OrderActionConfirm         = "confirm"
	OrderActionCancel          = "cancel"
	OrderActionStartProcessing = "start_processing"
	OrderActionShip            = "ship"
	OrderActionDeliver         = "deliver"
	OrderActionReturn          = "return_order"
)

// NewOrderMachine builds the state machine for the order lifecycle:
//
//	pending ──confirm──> confirmed ──start_processing──> processing ──ship──> shipped ──deliver──> delivered ──return_order──> returned
//	pending/confirmed/processing ──cancel──> cancelled
//
// cancelled and returned are terminal. Cancelling a shipped or delivered order
// is rejected by an explicit guard even though the table never permits it.
func NewOrderMachine() *Machine[models.Order] {
	return New(Config[models.Order]{
		Entity: "order",
		Current: func(o *models.Order) string {
			return string(o.Status)
		},
		SetStatus: func(o *models.Order, previous, next string) {
			prev := models.OrderStatus(previous)
			o.PreviousStatus = &prev
			o.Status = models.OrderStatus(next)
		},
		Synonyms: map[string]string{
			"cancelled": OrderActionCancel,
		},
		AlreadyIn: map[string]string{
			OrderActionCancel:  string(models.OrderStatusCancelled),
			OrderActionConfirm: string(models.OrderStatusConfirmed),
			OrderActionDeliver: string(models.OrderStatusDelivered),
		},
		ActionGuards: map[string]func(o *models.Order) error{
			OrderActionCancel: guardOrderCancellable,
		},
		Transitions: []Transition[models.Order]{
			{
				From:   string(models.OrderStatusPending),
				Action: OrderActionConfirm,
				To:     string(models.OrderStatusConfirmed),
				Effect: func(o *models.Order, now time.Time, _ Args) {
					o.ConfirmedAt = &now
				},
			},
			{
				From:   string(models.OrderStatusPending),
				Action: OrderActionCancel,
				To:     string(models.OrderStatusCancelled),
				Effect: stampOrderCancelled,
			},
			{
				From:   string(models.OrderStatusConfirmed),
				Action: OrderActionStartProcessing,
				To:     string(models.OrderStatusProcessing),
			},
			{
				From:   string(models.OrderStatusConfirmed),
				Action: OrderActionCancel,
				To:     string(models.OrderStatusCancelled),
				Effect: stampOrderCancelled,
			},
			{
				From:   string(models.OrderStatusProcessing),
				Action: OrderActionShip,
				To:     string(models.OrderStatusShipped),
				Effect: func(o *models.Order, now time.Time, _ Args) {
					o.ShippedAt = &now
				},
			},
			{
				From:   string(models.OrderStatusProcessing),
				Action: OrderActionCancel,
				To:     string(models.OrderStatusCancelled),
				Effect: stampOrderCancelled,
			},
			{
				From:   string(models.OrderStatusShipped),
				Action: OrderActionDeliver,
				To:     string(models.OrderStatusDelivered),
				Effect: func(o *models.Order, now time.Time, _ Args) {
					o.DeliveredAt = &now
				},
			},
			{
				From:   string(models.OrderStatusDelivered),
				Action: OrderActionReturn,
				To:     string(models.OrderStatusReturned),
			},
		},
	})
}

// guardOrderCancellable rejects cancellation once the order has left the
// warehouse. The transition table already excludes these states; the guard
// keeps the business rule explicit and fires before the table lookup.
func guardOrderCancellable(o *models.Order) error {
	switch o.Status {
	case models.OrderStatusShipped:
		return apperrors.NewInvalidOperation("cannot cancel order that has already been shipped")
	case models.OrderStatusDelivered:
		return apperrors.NewInvalidOperation("cannot cancel order that has already been delivered")
	}
	return nil
}

func stampOrderCancelled(o *models.Order, now time.Time, _ Args) {
	o.CancelledAt = &now
}
