// Package cache owns every mutable account-derived record: pools, vaults,
// tick/bin arrays, and configs. Caches are the only place state mutates;
// everything downstream (snapshot, sim, detector) reads copies.
package cache

import "github.com/solroute/arbengine/pkg/core"

// TraceKind labels what a Trace event reports.
type TraceKind uint8

const (
	TraceAccepted TraceKind = iota
	TraceRejectedStale
	TraceRejectedLayout
	TraceDeleted
)

func (k TraceKind) String() string {
	switch k {
	case TraceAccepted:
		return "accepted"
	case TraceRejectedStale:
		return "rejected_stale"
	case TraceRejectedLayout:
		return "rejected_layout"
	case TraceDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Trace is the structured event every cache write emits, per the cache
// contract's kind/pubkey/slot/writeVersion/source/reason fields.
type Trace struct {
	Kind         TraceKind
	CacheName    string
	Pubkey       core.Pubkey
	Slot         uint64
	WriteVersion uint64
	Source       core.Source
	Reason       string
}

// TraceHandler receives every Trace a cache emits. Caches never log
// directly; the engine wires a zap-backed handler in at construction.
type TraceHandler func(Trace)
