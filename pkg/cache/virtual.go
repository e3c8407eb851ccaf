package cache

import (
	"sync"

	"github.com/solroute/arbengine/pkg/core"
)

// DependencyCache wraps a Cache[T] with virtual-empty support: the
// distinction between "never fetched" (hard miss) and "confirmed empty"
// (a bootstrap RPC call observed no account at this PDA, safe to treat as
// zero liquidity). Only tick/bin array caches need this; pool and vault
// caches never have a legitimate "confirmed absent" state.
type DependencyCache[T any] struct {
	*Cache[T]
	vmu     sync.Mutex
	virtual map[string]T
	zero    func() T
}

func NewDependencyCache[T any](name string, zero func() T) *DependencyCache[T] {
	return &DependencyCache[T]{
		Cache:   New[T](name),
		virtual: make(map[string]T),
		zero:    zero,
	}
}

// MarkVirtual records that a bootstrap fetch confirmed no account exists at
// key; subsequent GetOrVirtual calls return a materialized empty record
// instead of a hard miss.
func (d *DependencyCache[T]) MarkVirtual(key core.Pubkey) {
	d.vmu.Lock()
	d.virtual[core.HexKey(key)] = d.zero()
	d.vmu.Unlock()
}

// GetOrVirtual returns (payload, ok, isVirtual). ok is false only for a
// hard miss — a key that was never fetched and never confirmed empty.
func (d *DependencyCache[T]) GetOrVirtual(key core.Pubkey) (T, bool, bool) {
	if entry, found := d.Cache.Get(key); found {
		return entry.Payload, true, false
	}
	d.vmu.Lock()
	v, found := d.virtual[core.HexKey(key)]
	d.vmu.Unlock()
	if found {
		return v, true, true
	}
	var zero T
	return zero, false, false
}
