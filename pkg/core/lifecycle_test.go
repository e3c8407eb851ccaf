package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionBootstrapHappyPath(t *testing.T) {
	s, ok := Transition(StateDiscovered, EventBootstrapStart)
	assert.True(t, ok)
	assert.Equal(t, StateBootstrapping, s)

	s, ok = Transition(s, EventBootstrapOK)
	assert.True(t, ok)
	assert.Equal(t, StateActive, s)
}

func TestTransitionBootstrapFailureNeverFreezesAtDiscovered(t *testing.T) {
	s, ok := Transition(StateBootstrapping, EventBootstrapStaleContext)
	assert.True(t, ok)
	assert.Equal(t, StateDiscovered, s, "a failed bootstrap must retry from DISCOVERED, not freeze")

	s, ok = Transition(StateBootstrapping, EventBootstrapRPCError)
	assert.True(t, ok)
	assert.Equal(t, StateDiscovered, s)
}

func TestTransitionRefreshAbortReturnsToActiveWithTopologyIntact(t *testing.T) {
	s, ok := Transition(StateRefreshing, EventRefreshRPCError)
	assert.True(t, ok)
	assert.Equal(t, StateActive, s)
}

func TestTransitionFatalErrorFreezesFromAnyLiveState(t *testing.T) {
	for _, from := range []LifecycleState{StateDiscovered, StateBootstrapping, StateActive} {
		s, ok := Transition(from, EventFatalError)
		assert.True(t, ok, "fatal error must be valid from %s", from)
		assert.Equal(t, StateFrozenTopology, s)
	}
}

func TestTransitionRejectsInvalidEventForState(t *testing.T) {
	_, ok := Transition(StateDiscovered, EventRefreshOK)
	assert.False(t, ok)
}
