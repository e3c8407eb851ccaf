// Package pairindex maintains the incremental mint-pair -> venue-set index
// described in §4.5: membership is driven entirely by lifecycle transitions
// (activate/deactivate), never by a table scan over the pool cache.
package pairindex

import (
	"sync"

	"github.com/solroute/arbengine/pkg/core"
)

// Index maps an unordered mint pair to the set of (venue, pool) entries
// quoting it. It is safe for concurrent use, though the engine only ever
// mutates it from the single lifecycle-notifier callback per §5's
// single-threaded cooperative model.
type Index struct {
	mu      sync.RWMutex
	byPair  map[string]map[string]core.PairEntry // pairKey -> poolHex -> entry
	byPool  map[string]string                    // poolHex -> pairKey, for O(1) removal
}

func New() *Index {
	return &Index{
		byPair: make(map[string]map[string]core.PairEntry),
		byPool: make(map[string]string),
	}
}

// Add registers (venue, pool) under the mintA/mintB pair. Idempotent: adding
// an already-present pool just overwrites its entry.
func (idx *Index) Add(mintA, mintB core.Pubkey, venue core.Venue, pool core.Pubkey) {
	key := core.PairKey(mintA, mintB)
	poolHex := core.HexKey(pool)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	bucket, ok := idx.byPair[key]
	if !ok {
		bucket = make(map[string]core.PairEntry)
		idx.byPair[key] = bucket
	}
	bucket[poolHex] = core.PairEntry{MintA: mintA, MintB: mintB, Venue: venue, Pool: pool}
	idx.byPool[poolHex] = key
}

// Remove drops a pool from whatever pair bucket it's registered under. A
// no-op if the pool was never added.
func (idx *Index) Remove(pool core.Pubkey) {
	poolHex := core.HexKey(pool)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	key, ok := idx.byPool[poolHex]
	if !ok {
		return
	}
	delete(idx.byPool, poolHex)
	bucket, ok := idx.byPair[key]
	if !ok {
		return
	}
	delete(bucket, poolHex)
	if len(bucket) == 0 {
		delete(idx.byPair, key)
	}
}

// Entries returns every (venue, pool) entry for a mint pair. The returned
// slice is a snapshot copy safe to range over after the lock is released.
func (idx *Index) Entries(mintA, mintB core.Pubkey) []core.PairEntry {
	key := core.PairKey(mintA, mintB)

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	bucket, ok := idx.byPair[key]
	if !ok {
		return nil
	}
	out := make([]core.PairEntry, 0, len(bucket))
	for _, e := range bucket {
		out = append(out, e)
	}
	return out
}

// MultiVenuePairs returns every pair currently quoted by two or more
// distinct venues — the candidate set the detector loop iterates.
func (idx *Index) MultiVenuePairs() [][]core.PairEntry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var out [][]core.PairEntry
	for _, bucket := range idx.byPair {
		venues := make(map[core.Venue]struct{}, len(bucket))
		for _, e := range bucket {
			venues[e.Venue] = struct{}{}
		}
		if len(venues) < 2 {
			continue
		}
		entries := make([]core.PairEntry, 0, len(bucket))
		for _, e := range bucket {
			entries = append(entries, e)
		}
		out = append(out, entries)
	}
	return out
}

// Len reports the number of distinct mint pairs currently tracked,
// regardless of venue count.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.byPair)
}

// OnLifecycleChange adapts a cache.Notifier-shaped callback into Index
// mutations, per §4.5: "on every pool activation, add ... to the token
// mint's venue set; on deletion or freeze, remove." A REFRESHING detour
// leaves membership untouched — the pool is still quotable against its
// last-frozen topology while it refreshes.
func (idx *Index) OnLifecycleChange(pool, mint0, mint1 core.Pubkey, venue core.Venue, from, to core.LifecycleState) {
	switch to {
	case core.StateActive:
		idx.Add(mint0, mint1, venue, pool)
	case core.StateFrozenTopology:
		idx.Remove(pool)
	}
}
