package statemachine

import (
	"time"

	"ordermgmt/internal/models"
)

// Return lifecycle actions.
const (
	ReturnActionApprove        = "approve"
	ReturnActionReject         = "reject"
	ReturnActionCancel         = "cancel"
	ReturnActionSchedulePickup = "schedule_pickup"
	ReturnActionStartTransit   = "start_transit"
	ReturnActionReceive        = "receive"
	ReturnActionProcess        = "process"
	ReturnActionRefund         = "refund"
)

// ArgReason is the Args key carrying the optional rejection reason.
const ArgReason = "reason"

// NewReturnMachine builds the state machine for the return lifecycle:
//
//	initiated ──approve──> approved ──schedule_pickup──> pickup_scheduled ──start_transit──> in_transit ──receive──> received ──process──> processed ──refund──> refunded
//	initiated/approved ──reject──> rejected
//	initiated/approved ──cancel──> cancelled
//
// rejected, refunded and cancelled are terminal.
func NewReturnMachine() *Machine[models.Return] {
	return New(Config[models.Return]{
		Entity: "return",
		Current: func(r *models.Return) string {
			return string(r.Status)
		},
		SetStatus: func(r *models.Return, previous, next string) {
			prev := models.ReturnStatus(previous)
			r.PreviousStatus = &prev
			r.Status = models.ReturnStatus(next)
		},
		AlreadyIn: map[string]string{
			ReturnActionApprove: string(models.ReturnStatusApproved),
			ReturnActionRefund:  string(models.ReturnStatusRefunded),
			ReturnActionReject:  string(models.ReturnStatusRejected),
		},
		Transitions: []Transition[models.Return]{
			{
				From:   string(models.ReturnStatusInitiated),
				Action: ReturnActionApprove,
				To:     string(models.ReturnStatusApproved),
				Effect: func(r *models.Return, now time.Time, _ Args) {
					r.ApprovedAt = &now
				},
			},
			{
				From:   string(models.ReturnStatusInitiated),
				Action: ReturnActionReject,
				To:     string(models.ReturnStatusRejected),
				Effect: stampReturnRejected,
			},
			{
				From:   string(models.ReturnStatusInitiated),
				Action: ReturnActionCancel,
				To:     string(models.ReturnStatusCancelled),
			},
			{
				From:   string(models.ReturnStatusApproved),
				Action: ReturnActionSchedulePickup,
				To:     string(models.ReturnStatusPickupScheduled),
				Effect: func(r *models.Return, now time.Time, _ Args) {
					r.PickupScheduledAt = &now
				},
			},
			{
				From:   string(models.ReturnStatusApproved),
				Action: ReturnActionReject,
				To:     string(models.ReturnStatusRejected),
				Effect: stampReturnRejected,
			},
			{
				From:   string(models.ReturnStatusApproved),
				Action: ReturnActionCancel,
				To:     string(models.ReturnStatusCancelled),
			},
			{
				From:   string(models.ReturnStatusPickupScheduled),
				Action: ReturnActionStartTransit,
				To:     string(models.ReturnStatusInTransit),
			},
			{
				From:   string(models.ReturnStatusInTransit),
				Action: ReturnActionReceive,
				To:     string(models.ReturnStatusReceived),
				Effect: func(r *models.Return, now time.Time, _ Args) {
					r.ReceivedAt = &now
				},
			},
			{
				From:   string(models.ReturnStatusReceived),
				Action: ReturnActionProcess,
				To:     string(models.ReturnStatusProcessed),
				Effect: func(r *models.Return, now time.Time, _ Args) {
					r.ProcessedAt = &now
				},
			},
			{
				From:   string(models.ReturnStatusProcessed),
				Action: ReturnActionRefund,
				To:     string(models.ReturnStatusRefunded),
				Effect: func(r *models.Return, now time.Time, _ Args) {
					r.RefundedAt = &now
				},
			},
		},
	})
}

func stampReturnRejected(r *models.Return, _ time.Time, args Args) {
	if reason, ok := args[ArgReason]; ok && reason != "" {
		r.RejectionReason = &reason
	}
}
