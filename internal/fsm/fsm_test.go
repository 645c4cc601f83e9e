package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionHappyPath(t *testing.T) {
	s := StateCreated

	next, err := Transition(s, EventShow)
	require.NoError(t, err)
	require.Equal(t, StateVisible, next)

	next, err = Transition(next, EventHide)
	require.NoError(t, err)
	require.Equal(t, StateHidden, next)

	next, err = Transition(next, EventShow)
	require.NoError(t, err)
	require.Equal(t, StateVisible, next)

	next, err = Transition(next, EventTerminate)
	require.NoError(t, err)
	require.Equal(t, StateTerminated, next)
}

func TestTransitionTerminateFromAnyLiveState(t *testing.T) {
	states := []State{StateCreated, StateVisible, StateHidden}
	for _, state := range states {
		next, err := Transition(state, EventTerminate)
		require.NoError(t, err)
		require.Equal(t, StateTerminated, next)
	}
}

func TestTransitionTerminatedIsAbsorbing(t *testing.T) {
	events := []Event{EventShow, EventHide, EventTerminate}
	for _, event := range events {
		next, err := Transition(StateTerminated, event)
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid transition")
		require.Equal(t, StateTerminated, next)
	}
}

func TestTransitionShowHideAreIdempotent(t *testing.T) {
	next, err := Transition(StateVisible, EventShow)
	require.NoError(t, err)
	require.Equal(t, StateVisible, next)

	next, err = Transition(StateHidden, EventHide)
	require.NoError(t, err)
	require.Equal(t, StateHidden, next)
}

func TestTransitionUnknownState(t *testing.T) {
	next, err := Transition(State("mystery"), EventShow)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown state")
	require.Equal(t, State("mystery"), next)
}
