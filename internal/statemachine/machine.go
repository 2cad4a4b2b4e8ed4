// Package statemachine implements a table-driven finite-state-machine engine.
// A Machine is parametrized by an immutable transition table declared ahead of
// time; evaluation is purely a function of the table and the entity handed in.
// The Order and Return lifecycles are built on the same engine.
package statemachine

import (
	"sort"
	"strings"
	"time"

	"ordermgmt/internal/apperrors"
)

// Args carries optional action arguments into transition effects, such as the
// free-text reason of a return rejection.
type Args map[string]string

// Transition is one row of the transition table.
type Transition[E any] struct {
	From   string
	Action string
	To     string

	// Guard may veto the transition before any mutation happens.
	Guard func(e *E) error

	// Effect mutates entity fields (timestamps, extra fields) once the
	// transition is accepted. Status and previous status are set by the
	// engine itself.
	Effect func(e *E, now time.Time, args Args)
}

// Config declares a machine. Transitions, synonyms, idempotency pre-checks and
// crosscutting action guards are fixed at construction time.
type Config[E any] struct {
	// Entity names the entity kind in error messages ("order", "return").
	Entity string

	// Current reads the entity's current state.
	Current func(e *E) string

	// SetStatus records the transition on the entity: previous state and
	// new state.
	SetStatus func(e *E, previous, next string)

	// Synonyms maps known action aliases to their canonical token.
	Synonyms map[string]string

	// AlreadyIn maps an action to the state that makes it redundant. If the
	// entity is already in that state, Apply fails with AlreadyInState
	// before consulting the table.
	AlreadyIn map[string]string

	// ActionGuards run for an action regardless of the current state,
	// before the table lookup. They exist so business rules like "cannot
	// cancel a shipped order" are enforced as rules in their own right,
	// not only by omission from the table.
	ActionGuards map[string]func(e *E) error

	Transitions []Transition[E]
}

type tableKey struct {
	state  string
	action string
}

// Machine evaluates actions against a fixed transition table. It holds no
// mutable state and is safe for concurrent use.
type Machine[E any] struct {
	entity       string
	current      func(e *E) string
	setStatus    func(e *E, previous, next string)
	synonyms     map[string]string
	alreadyIn    map[string]string
	actionGuards map[string]func(e *E) error
	table        map[tableKey]Transition[E]
}

// New builds a Machine from a Config. The config's transition list is copied
// into a lookup table; later changes to the config do not affect the machine.
func New[E any](cfg Config[E]) *Machine[E] {
	table := make(map[tableKey]Transition[E], len(cfg.Transitions))
	for _, tr := range cfg.Transitions {
		table[tableKey{state: tr.From, action: tr.Action}] = tr
	}
	return &Machine[E]{
		entity:       cfg.Entity,
		current:      cfg.Current,
		setStatus:    cfg.SetStatus,
		synonyms:     cfg.Synonyms,
		alreadyIn:    cfg.AlreadyIn,
		actionGuards: cfg.ActionGuards,
		table:        table,
	}
}

// Normalize lowercases and trims an action token and resolves known synonyms.
func (m *Machine[E]) Normalize(action string) string {
	action = strings.ToLower(strings.TrimSpace(action))
	if canonical, ok := m.synonyms[action]; ok {
		return canonical
	}
	return action
}

// CanTransition reports whether (state, action) exists in the table.
func (m *Machine[E]) CanTransition(state, action string) bool {
	_, ok := m.table[tableKey{state: state, action: m.Normalize(action)}]
	return ok
}

// AvailableTransitions returns all actions legal from the given state, sorted.
// Terminal states yield an empty slice.
func (m *Machine[E]) AvailableTransitions(state string) []string {
	var actions []string
	for key := range m.table {
		if key.state == state {
			actions = append(actions, key.action)
		}
	}
	sort.Strings(actions)
	return actions
}

// Apply validates the requested action against the entity's current state and,
// if legal, runs the guard and effect and returns the new state. On failure
// the entity is left untouched. Persisting the mutated entity is the caller's
// responsibility.
func (m *Machine[E]) Apply(e *E, action string, args Args) (string, error) {
	action = m.Normalize(action)
	current := m.current(e)

	if state, ok := m.alreadyIn[action]; ok && current == state {
		return "", apperrors.NewAlreadyInState(m.entity, state)
	}

	if guard, ok := m.actionGuards[action]; ok {
		if err := guard(e); err != nil {
			return "", err
		}
	}

	tr, ok := m.table[tableKey{state: current, action: action}]
	if !ok {
		return "", apperrors.NewInvalidTransition(m.entity, action, current, m.AvailableTransitions(current))
	}

	if tr.Guard != nil {
		if err := tr.Guard(e); err != nil {
			return "", err
		}
	}

	m.setStatus(e, current, tr.To)
	if tr.Effect != nil {
		tr.Effect(e, time.Now().UTC(), args)
	}
	return tr.To, nil
}
