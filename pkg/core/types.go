// Package core holds the shared data model: pubkeys, slot ordering, and the
// cache-entry envelope every typed cache stores. Nothing here mutates state;
// mutation is confined to pkg/cache.
package core

import (
	"encoding/hex"
	"time"

	"github.com/gagliardetto/solana-go"
)

// Pubkey is a 32-byte account identifier. Equality is byte-equal.
type Pubkey = solana.PublicKey

// HexKey returns the canonical 64-character hex form used as a key in every
// keyed container (caches, pair index, frozen-topology sets).
func HexKey(pk Pubkey) string {
	return hex.EncodeToString(pk[:])
}

// Slot is a monotonic ledger sequence number.
type Slot uint64

// WriteVersion disambiguates intra-slot account updates.
type WriteVersion uint64

// Supersedes reports whether (slot, wv) supersedes (otherSlot, otherWV)
// under the rule: slot' > slot, or slot' == slot && wv' > wv.
func Supersedes(slot, wv, otherSlot, otherWV uint64) bool {
	if slot != otherSlot {
		return slot > otherSlot
	}
	return wv > otherWV
}

// Source tags where a cache entry's data originated.
type Source uint8

const (
	SourceStream Source = iota
	SourceBootstrap
)

func (s Source) String() string {
	if s == SourceBootstrap {
		return "bootstrap"
	}
	return "stream"
}

// CacheEntry wraps a payload with the provenance a cache needs to enforce
// slot monotonicity and to trace accepted/rejected writes.
type CacheEntry[T any] struct {
	Payload      T
	Slot         uint64
	WriteVersion uint64
	IngestedAt   time.Time
	Source       Source
}

// SupersededBy reports whether a candidate (slot, wv) supersedes this entry.
func (e CacheEntry[T]) SupersededBy(slot, wv uint64) bool {
	return Supersedes(slot, wv, e.Slot, e.WriteVersion)
}
