package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solroute/arbengine/pkg/core"
)

type lifecycleCall struct {
	pool     core.Pubkey
	from, to core.LifecycleState
}

func TestLifecycleTrackerFiresNotifierOnlyWhenStateChanges(t *testing.T) {
	var calls []lifecycleCall
	tr := NewLifecycleTracker(func(pool, mint0, mint1 core.Pubkey, venue core.Venue, from, to core.LifecycleState) {
		calls = append(calls, lifecycleCall{pool, from, to})
	})

	pool := pk(1)
	s, ok := tr.Fire(pool, pk(2), pk(3), core.VenueCLMM, core.EventBootstrapStart, nil)
	require.True(t, ok)
	assert.Equal(t, core.StateBootstrapping, s)
	require.Len(t, calls, 1)
	assert.Equal(t, core.StateDiscovered, calls[0].from)
	assert.Equal(t, core.StateBootstrapping, calls[0].to)

	_, ok = tr.Fire(pool, pk(2), pk(3), core.VenueCLMM, core.EventRefreshOK, nil)
	assert.False(t, ok, "refresh-ok is invalid from bootstrapping")
	assert.Len(t, calls, 1, "an invalid transition must not fire the notifier")
}

func TestLifecycleTrackerRecordsFrozenTopologyOnActivation(t *testing.T) {
	tr := NewLifecycleTracker(nil)
	pool := pk(1)
	want := core.FrozenTopology{}

	tr.Fire(pool, pk(2), pk(3), core.VenueCLMM, core.EventBootstrapStart, nil)
	s, ok := tr.Fire(pool, pk(2), pk(3), core.VenueCLMM, core.EventBootstrapOK, func() core.FrozenTopology { return want })
	require.True(t, ok)
	assert.Equal(t, core.StateActive, s)

	got, found := tr.Topology(pool)
	require.True(t, found)
	assert.Equal(t, want, got)
}

func TestLifecycleTrackerStateDefaultsToDiscoveredForUnseenPool(t *testing.T) {
	tr := NewLifecycleTracker(nil)
	assert.Equal(t, core.StateDiscovered, tr.State(pk(9)))
}
