// Package store provides the cache stores backing a memoized function:
// an unbounded map store, a size-bounded LRU store, and a time-bounded
// TTL store with an optional capacity limit.
//
// All stores share the Store interface and are safe for concurrent use.
// Presence is always reported through the boolean flag returned by Get
// and Has; a stored zero value (nil pointer, empty string, 0) is a valid
// cached result.
package store

import "time"

// Store is the common contract for all cache strategies.
// Keys are the canonical strings produced by the key resolver.
type Store[V any] interface {
	// Get returns the value for key and a presence flag.
	// LRU: a hit promotes the entry to most-recently-used.
	// TTL: an expired entry is removed, counted as an eviction,
	// and reported as absent (lazy expiry).
	Get(key string) (V, bool)

	// Set inserts or updates key→v, applying the store's eviction
	// policy if a bound is exceeded afterwards.
	Set(key string, v V)

	// Has reports presence without promoting the entry.
	// TTL: expired entries are lazily removed here as well.
	Has(key string) bool

	// Delete removes key if present and returns true on success.
	// Explicit deletion is not counted as an eviction.
	Delete(key string) bool

	// Clear removes every entry. The eviction counter is untouched.
	Clear()

	// Len returns the number of resident entries.
	Len() int

	// Evictions returns the number of entries removed by capacity
	// limits or expiry since the store was created.
	Evictions() uint64
}

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictCapacity — removed to satisfy a maxSize bound.
	EvictCapacity EvictReason = iota
	// EvictExpired — aged out by TTL (lazy removal on access).
	EvictExpired
)

// EvictFunc observes evictions. Called under the store lock;
// keep implementations lightweight.
type EvictFunc func(key string, reason EvictReason)

// Clock provides time in UnixNano; useful for deterministic tests.
type Clock interface{ NowUnixNano() int64 }

type wallClock struct{}

func (wallClock) NowUnixNano() int64 { return time.Now().UnixNano() }
