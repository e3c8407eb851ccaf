package cache

import (
	"sync"
	"time"

	"github.com/solroute/arbengine/pkg/core"
)

// Cache is a generic, slot-ordered keyed store. One instance per record
// type (pools, vaults, tick arrays, bin arrays, configs); each instance
// enforces the same (slot, writeVersion) supersession rule independent of
// what T is.
type Cache[T any] struct {
	name string
	mu   sync.Mutex
	rows map[string]core.CacheEntry[T]
	trace TraceHandler
	lastSeenSlot uint64

	// rejectRawLen, when non-nil, implements the pool-cache layout
	// invariant: reject writes whose raw account length matches a known
	// tick- or bin-array size, defending against a mis-routed update.
	rejectRawLen func(int) bool
}

// New builds an empty cache. name is used only for tracing.
func New[T any](name string) *Cache[T] {
	return &Cache[T]{name: name, rows: make(map[string]core.CacheEntry[T])}
}

// SetTraceHandler installs the observer every set/delete reports to.
func (c *Cache[T]) SetTraceHandler(h TraceHandler) { c.trace = h }

// SetLayoutGuard installs the raw-length rejection predicate for pool
// caches; other cache kinds leave this nil.
func (c *Cache[T]) SetLayoutGuard(guard func(rawLen int) bool) { c.rejectRawLen = guard }

func (c *Cache[T]) emit(t Trace) {
	if c.trace != nil {
		t.CacheName = c.name
		c.trace(t)
	}
}

// Get returns the current entry for pubkey, if any.
func (c *Cache[T]) Get(pubkey core.Pubkey) (core.CacheEntry[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.rows[core.HexKey(pubkey)]
	return e, ok
}

// Has reports key presence without copying the payload.
func (c *Cache[T]) Has(pubkey core.Pubkey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.rows[core.HexKey(pubkey)]
	return ok
}

// Delete removes an entry unconditionally (pool closure, account closed).
func (c *Cache[T]) Delete(pubkey core.Pubkey) {
	c.mu.Lock()
	key := core.HexKey(pubkey)
	_, existed := c.rows[key]
	delete(c.rows, key)
	c.mu.Unlock()
	if existed {
		c.emit(Trace{Kind: TraceDeleted, Pubkey: pubkey})
	}
}

// LastSeenSlot is the highest slot accepted by any write to this cache.
func (c *Cache[T]) LastSeenSlot() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeenSlot
}

// Set is the invariant-heavy write path: layout-guard reject, stale-reject
// by (slot, writeVersion), then replace and trace.
// rawLen is the source account's data length (0 if not applicable, e.g.
// a synthesized/bootstrap entry with no raw byte form) and is only
// consulted when a layout guard is installed.
func (c *Cache[T]) Set(pubkey core.Pubkey, payload T, slot, writeVersion uint64, source core.Source, rawLen int) bool {
	key := core.HexKey(pubkey)

	c.mu.Lock()
	if c.rejectRawLen != nil && c.rejectRawLen(rawLen) {
		c.mu.Unlock()
		c.emit(Trace{Kind: TraceRejectedLayout, Pubkey: pubkey, Slot: slot, WriteVersion: writeVersion, Source: source, Reason: "raw length matches a dependency record size"})
		return false
	}

	existing, had := c.rows[key]
	if had && !existing.SupersededBy(slot, writeVersion) {
		c.mu.Unlock()
		c.emit(Trace{Kind: TraceRejectedStale, Pubkey: pubkey, Slot: slot, WriteVersion: writeVersion, Source: source, Reason: "stale by (slot, writeVersion)"})
		return false
	}

	c.rows[key] = core.CacheEntry[T]{
		Payload:      payload,
		Slot:         slot,
		WriteVersion: writeVersion,
		IngestedAt:   time.Now(),
		Source:       source,
	}
	if slot > c.lastSeenSlot {
		c.lastSeenSlot = slot
	}
	c.mu.Unlock()

	c.emit(Trace{Kind: TraceAccepted, Pubkey: pubkey, Slot: slot, WriteVersion: writeVersion, Source: source})
	return true
}

// Len reports the number of live entries, mainly for stats reporting.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rows)
}

// Keys returns every hex-encoded key currently live, for callers (like the
// detector's derived-signal sweep) that need to walk the whole cache
// rather than look up one pubkey.
func (c *Cache[T]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.rows))
	for k := range c.rows {
		keys = append(keys, k)
	}
	return keys
}

// GetByHex looks up an entry by its already-hex-encoded key, avoiding a
// pubkey round-trip for callers that obtained the key from Keys.
func (c *Cache[T]) GetByHex(hexKey string) (core.CacheEntry[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.rows[hexKey]
	return e, ok
}
