package statemachine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordermgmt/internal/apperrors"
)

type toggle struct {
	state    string
	previous string
	flipped  *time.Time
}

func newToggleMachine(guardErr error) *Machine[toggle] {
	return New(Config[toggle]{
		Entity:  "toggle",
		Current: func(t *toggle) string { return t.state },
		SetStatus: func(t *toggle, previous, next string) {
			t.previous = previous
			t.state = next
		},
		Synonyms: map[string]string{
			"flipped": "flip",
		},
		AlreadyIn: map[string]string{
			"flip": "on",
		},
		Transitions: []Transition[toggle]{
			{
				From:   "off",
				Action: "flip",
				To:     "on",
				Guard: func(t *toggle) error {
					return guardErr
				},
				Effect: func(t *toggle, now time.Time, _ Args) {
					t.flipped = &now
				},
			},
			{From: "off", Action: "break", To: "broken"},
			{From: "on", Action: "dim", To: "dimmed"},
		},
	})
}

func TestMachineApply(t *testing.T) {
	m := newToggleMachine(nil)
	e := &toggle{state: "off"}

	next, err := m.Apply(e, "flip", nil)
	require.NoError(t, err)
	assert.Equal(t, "on", next)
	assert.Equal(t, "on", e.state)
	assert.Equal(t, "off", e.previous)
	require.NotNil(t, e.flipped)
	assert.Equal(t, time.UTC, e.flipped.Location())
}

func TestMachineNormalize(t *testing.T) {
	m := newToggleMachine(nil)

	assert.Equal(t, "flip", m.Normalize("  FLIP "))
	assert.Equal(t, "flip", m.Normalize("Flipped"))
	assert.Equal(t, "dim", m.Normalize("dim"))
}

func TestMachineApplyNormalizesAction(t *testing.T) {
	m := newToggleMachine(nil)
	e := &toggle{state: "off"}

	next, err := m.Apply(e, "  Flipped ", nil)
	require.NoError(t, err)
	assert.Equal(t, "on", next)
}

func TestMachineApplyUnknownActionLeavesEntityUntouched(t *testing.T) {
	m := newToggleMachine(nil)
	e := &toggle{state: "off"}

	_, err := m.Apply(e, "explode", nil)

	var invalid *apperrors.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "explode", invalid.Action)
	assert.Equal(t, "off", invalid.State)
	assert.Equal(t, []string{"break", "flip"}, invalid.Available)
	assert.Equal(t, "off", e.state)
	assert.Nil(t, e.flipped)
}

func TestMachineApplyAlreadyInState(t *testing.T) {
	m := newToggleMachine(nil)
	e := &toggle{state: "on"}

	_, err := m.Apply(e, "flip", nil)

	var already *apperrors.AlreadyInStateError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, "on", e.state)
}

func TestMachineApplyGuardVetoes(t *testing.T) {
	guardErr := apperrors.NewInvalidOperation("not today")
	m := newToggleMachine(guardErr)
	e := &toggle{state: "off"}

	_, err := m.Apply(e, "flip", nil)

	var invalidOp *apperrors.InvalidOperationError
	require.ErrorAs(t, err, &invalidOp)
	assert.Equal(t, "off", e.state)
	assert.Nil(t, e.flipped)
}

func TestMachineAvailableTransitionsSorted(t *testing.T) {
	m := newToggleMachine(nil)

	assert.Equal(t, []string{"break", "flip"}, m.AvailableTransitions("off"))
	assert.Equal(t, []string{"dim"}, m.AvailableTransitions("on"))
	assert.Empty(t, m.AvailableTransitions("broken"))
}

func TestMachineCanTransition(t *testing.T) {
	m := newToggleMachine(nil)

	assert.True(t, m.CanTransition("off", "flip"))
	assert.True(t, m.CanTransition("off", "FLIPPED"))
	assert.False(t, m.CanTransition("on", "flip"))
	assert.False(t, m.CanTransition("broken", "flip"))
}
