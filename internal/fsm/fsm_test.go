package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionPrimaryPath(t *testing.T) {
	s := StateStarting

	next, err := Transition(s, EventResolved)
	require.NoError(t, err)
	require.Equal(t, StateBinding, next)

	next, err = Transition(next, EventBound)
	require.NoError(t, err)
	require.Equal(t, StateServing, next)
	require.Equal(t, "primary", Role(next))

	next, err = Transition(next, EventDone)
	require.NoError(t, err)
	require.Equal(t, StateStopped, next)
}

func TestTransitionSecondaryPath(t *testing.T) {
	next, err := Transition(StateBinding, EventInUse)
	require.NoError(t, err)
	require.Equal(t, StateHandingOff, next)
	require.Equal(t, "secondary", Role(next))

	next, err = Transition(next, EventDone)
	require.NoError(t, err)
	require.Equal(t, StateStopped, next)
}

func TestTransitionFailFromAnyLiveStateGoesFailed(t *testing.T) {
	states := []State{StateStarting, StateBinding, StateServing, StateHandingOff, StateFailed}
	for _, state := range states {
		next, err := Transition(state, EventFail)
		require.NoError(t, err)
		require.Equal(t, StateFailed, next)
	}
}

func TestTransitionMatrixInvalidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		event   Event
		want    State
		wantErr bool
	}{
		{name: "starting bound invalid", state: StateStarting, event: EventBound, want: StateStarting, wantErr: true},
		{name: "starting done invalid", state: StateStarting, event: EventDone, want: StateStarting, wantErr: true},
		{name: "binding resolved invalid", state: StateBinding, event: EventResolved, want: StateBinding, wantErr: true},
		{name: "binding done invalid", state: StateBinding, event: EventDone, want: StateBinding, wantErr: true},
		{name: "serving in use invalid", state: StateServing, event: EventInUse, want: StateServing, wantErr: true},
		{name: "handing off bound invalid", state: StateHandingOff, event: EventBound, want: StateHandingOff, wantErr: true},
		{name: "stopped fail invalid", state: StateStopped, event: EventFail, want: StateStopped, wantErr: true},
		{name: "stopped resolved invalid", state: StateStopped, event: EventResolved, want: StateStopped, wantErr: true},
		{name: "failed done invalid", state: StateFailed, event: EventDone, want: StateFailed, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Transition(tc.state, tc.event)
			require.Equal(t, tc.want, next)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTransitionUnknownState(t *testing.T) {
	_, err := Transition(State("bogus"), EventResolved)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown state")
}

func TestRoleBeforeBindIsEmpty(t *testing.T) {
	require.Empty(t, Role(StateStarting))
	require.Empty(t, Role(StateBinding))
	require.Empty(t, Role(StateStopped))
}
