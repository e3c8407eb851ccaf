package cache

import (
	"sync"

	"github.com/solroute/arbengine/pkg/core"
)

// Notifier is fired synchronously whenever a pool's lifecycle state
// changes, so the pair index can add/remove (venue, pool) membership
// without polling.
type Notifier func(pool core.Pubkey, mint0, mint1 core.Pubkey, venue core.Venue, from, to core.LifecycleState)

// LifecycleTracker owns the pool lifecycle FSM. CLMM/DLMM pools wait in
// BOOTSTRAPPING for their dependency fetch; CPMM pools pass through it too,
// going from BOOTSTRAPPING to ACTIVE in the same update that decodes them.
type LifecycleTracker struct {
	mu       sync.Mutex
	state    map[string]core.LifecycleState
	topology map[string]core.FrozenTopology
	notify   Notifier
}

func NewLifecycleTracker(notify Notifier) *LifecycleTracker {
	return &LifecycleTracker{
		state:    make(map[string]core.LifecycleState),
		topology: make(map[string]core.FrozenTopology),
		notify:   notify,
	}
}

// State returns a pool's current lifecycle state, defaulting to DISCOVERED
// for a pool the tracker has never seen.
func (t *LifecycleTracker) State(pool core.Pubkey) core.LifecycleState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.state[core.HexKey(pool)]; ok {
		return s
	}
	return core.StateDiscovered
}

// Topology returns the frozen dependency set materialized at activation.
func (t *LifecycleTracker) Topology(pool core.Pubkey) (core.FrozenTopology, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	top, ok := t.topology[core.HexKey(pool)]
	return top, ok
}

// Fire applies event to pool's current state and fires the notifier when
// the transition changes state. onActivate supplies the frozen topology to
// record when the transition lands on ACTIVE from BOOTSTRAPPING.
func (t *LifecycleTracker) Fire(pool, mint0, mint1 core.Pubkey, venue core.Venue, event core.LifecycleEvent, onActivate func() core.FrozenTopology) (core.LifecycleState, bool) {
	key := core.HexKey(pool)

	t.mu.Lock()
	from := t.state[key]
	to, ok := core.Transition(from, event)
	if !ok {
		t.mu.Unlock()
		return from, false
	}
	t.state[key] = to
	if to == core.StateActive && from == core.StateBootstrapping && onActivate != nil {
		t.topology[key] = onActivate()
	}
	t.mu.Unlock()

	if to != from && t.notify != nil {
		t.notify(pool, mint0, mint1, venue, from, to)
	}
	return to, true
}
