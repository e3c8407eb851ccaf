package core

// LifecycleState is the pool-lifetime state machine for CLMM/DLMM pools.
// CPMM pools have no dependency materialization step and are treated as
// permanently ACTIVE from the moment they are decoded.
type LifecycleState uint8

const (
	StateDiscovered LifecycleState = iota
	StateBootstrapping
	StateActive
	StateRefreshing
	StateFrozenTopology
)

func (s LifecycleState) String() string {
	switch s {
	case StateDiscovered:
		return "DISCOVERED"
	case StateBootstrapping:
		return "BOOTSTRAPPING"
	case StateActive:
		return "ACTIVE"
	case StateRefreshing:
		return "REFRESHING"
	case StateFrozenTopology:
		return "FROZEN_TOPOLOGY"
	default:
		return "UNKNOWN"
	}
}

// LifecycleEvent drives LifecycleState transitions.
type LifecycleEvent uint8

const (
	EventBootstrapStart LifecycleEvent = iota
	EventBootstrapOK
	EventBootstrapStaleContext // RPC context slot below target: abort, stay DISCOVERED
	EventBootstrapRPCError
	EventRefreshTrigger // price moved within bufferArrays of the frozen window edge
	EventRefreshOK
	EventRefreshRPCError // abortRefresh: REFRESHING -> ACTIVE with prior topology intact
	EventFatalError
)

// Transition is the pure FSM step: given the current state and an event,
// returns the next state and whether the event was valid in that state.
// Kept free of any RPC or cache dependency so it is independently testable.
func Transition(current LifecycleState, event LifecycleEvent) (LifecycleState, bool) {
	switch current {
	case StateDiscovered:
		switch event {
		case EventBootstrapStart:
			return StateBootstrapping, true
		case EventFatalError:
			return StateFrozenTopology, true
		}
	case StateBootstrapping:
		switch event {
		case EventBootstrapOK:
			return StateActive, true
		case EventBootstrapStaleContext, EventBootstrapRPCError:
			return StateDiscovered, true // never freezes at slot 0
		case EventFatalError:
			return StateFrozenTopology, true
		}
	case StateActive:
		switch event {
		case EventRefreshTrigger:
			return StateRefreshing, true
		case EventFatalError:
			return StateFrozenTopology, true
		}
	case StateRefreshing:
		switch event {
		case EventRefreshOK:
			return StateActive, true
		case EventRefreshRPCError:
			return StateActive, true // abortRefresh, prior topology intact
		case EventFatalError:
			return StateFrozenTopology, true
		}
	case StateFrozenTopology:
		// terminal: excluded from candidate routing unless the operator opts in
	}
	return current, false
}

// FrozenTopology is the set of tick-/bin-array indices materialized at
// activation, plus the slot at which the freeze occurred. While a pool is
// ACTIVE, no simulation may consult an index outside this set.
type FrozenTopology struct {
	Indices   map[int64]struct{}
	FrozenAt  uint64
}

// NewFrozenTopology builds a frozen set from a slice of indices.
func NewFrozenTopology(at uint64, indices []int64) FrozenTopology {
	set := make(map[int64]struct{}, len(indices))
	for _, idx := range indices {
		set[idx] = struct{}{}
	}
	return FrozenTopology{Indices: set, FrozenAt: at}
}

// Contains reports whether idx is part of the frozen set.
func (f FrozenTopology) Contains(idx int64) bool {
	_, ok := f.Indices[idx]
	return ok
}
