package apperrors

import (
	"fmt"
	"strings"
)

// InvalidTransitionError is returned when the requested action has no entry in
// the transition table for the entity's current state. It carries the set of
// actions that are legal from that state so callers can report them.
type InvalidTransitionError struct {
	Entity    string
	Action    string
	State     string
	Available []string
}

func (e *InvalidTransitionError) Error() string {
	available := "none (" + e.Entity + " is in final state)"
	if len(e.Available) > 0 {
		available = strings.Join(e.Available, ", ")
	}
	return fmt.Sprintf("cannot perform action '%s' from state '%s'. Available actions: %s",
		e.Action, e.State, available)
}

// NewInvalidTransition creates an InvalidTransitionError.
func NewInvalidTransition(entity, action, state string, available []string) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: entity, Action: action, State: state, Available: available}
}

// AlreadyInStateError is the idempotency short-circuit: the requested action
// would move the entity into the state it is already in.
type AlreadyInStateError struct {
	Entity string
	State  string
}

func (e *AlreadyInStateError) Error() string {
	return fmt.Sprintf("%s is already %s", e.Entity, e.State)
}

// NewAlreadyInState creates an AlreadyInStateError.
func NewAlreadyInState(entity, state string) *AlreadyInStateError {
	return &AlreadyInStateError{Entity: entity, State: state}
}

// InvalidOperationError is a guard rejection: the action exists but business
// rules forbid it (cancel after ship, refund exceeding the available amount).
type InvalidOperationError struct {
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return e.Reason
}

// NewInvalidOperation creates an InvalidOperationError.
func NewInvalidOperation(format string, args ...any) *InvalidOperationError {
	return &InvalidOperationError{Reason: fmt.Sprintf(format, args...)}
}

// ReferenceError marks a dangling or mismatched foreign reference, such as a
// return citing an order item that belongs to a different order.
type ReferenceError struct {
	Reason string
}

func (e *ReferenceError) Error() string {
	return e.Reason
}

// NewReference creates a ReferenceError.
func NewReference(format string, args ...any) *ReferenceError {
	return &ReferenceError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError is an entity lookup miss. ID is the numeric id or the
// human-readable number used for the lookup.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// NewNotFound creates a NotFoundError.
func NewNotFound(entity string, id any) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError rejects malformed input before it reaches persistence,
// for example an order created with an empty item list.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidation creates a ValidationError.
func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError signals an optimistic-concurrency failure: the entity was
// modified by another request between read and write.
type ConflictError struct {
	Entity string
	ID     uint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d was modified concurrently, retry the request", e.Entity, e.ID)
}

// NewConflict creates a ConflictError.
func NewConflict(entity string, id uint) *ConflictError {
	return &ConflictError{Entity: entity, ID: id}
}
