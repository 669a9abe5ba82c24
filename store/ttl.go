package store

import (
	"errors"
	"sync"
	"time"
)

// ttlNode carries the value plus its insertion timestamp. The intrusive
// list is kept in insertion order: head is the newest entry, tail the
// oldest, so capacity eviction pops the tail.
type ttlNode[V any] struct {
	key        string
	val        V
	insertedAt int64 // UnixNano
	prev       *ttlNode[V]
	next       *ttlNode[V]
}

// ttlStore is the time-bounded strategy. Entries older than ttl are
// treated as absent on the next read and removed there (lazy expiry);
// no background sweeper runs. An optional maxSize additionally bounds
// the entry count, evicting oldest-inserted first — independent of
// time-based expiry.
type ttlStore[V any] struct {
	mu      sync.Mutex
	m       map[string]*ttlNode[V]
	head    *ttlNode[V] // newest
	tail    *ttlNode[V] // oldest
	ttl     int64       // nanoseconds
	max     int         // 0 = unbounded
	clk     Clock
	evicts  uint64
	onEvict EvictFunc
}

// NewTTL returns a time-bounded store. ttl must be positive. maxSize is
// an optional entry bound (0 disables it). A nil clock uses wall time;
// tests inject a fake. onEvict may be nil.
func NewTTL[V any](ttl time.Duration, maxSize int, clk Clock, onEvict EvictFunc) (Store[V], error) {
	if ttl <= 0 {
		return nil, errors.New("store: ttl must be > 0")
	}
	if clk == nil {
		clk = wallClock{}
	}
	return &ttlStore[V]{
		m:       make(map[string]*ttlNode[V]),
		ttl:     int64(ttl),
		max:     maxSize,
		clk:     clk,
		onEvict: onEvict,
	}, nil
}

// Get returns the value for key. An expired entry is removed, counted
// as an eviction, and reported as absent. Fresh hits do not reorder.
func (s *ttlStore[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.m[key]
	if !ok {
		var zero V
		return zero, false
	}
	if s.expired(n) {
		s.evictNode(n, EvictExpired)
		var zero V
		return zero, false
	}
	return n.val, true
}

// Set inserts or updates key→v. Updating re-stamps insertedAt and moves
// the entry to the newest position, so it participates in capacity
// eviction as a fresh insertion.
func (s *ttlStore[V]) Set(key string, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.NowUnixNano()
	if n, ok := s.m[key]; ok {
		n.val = v
		n.insertedAt = now
		s.moveToFront(n)
		return
	}

	n := &ttlNode[V]{key: key, val: v, insertedAt: now}
	s.m[key] = n
	s.pushFront(n)

	if s.max > 0 {
		for len(s.m) > s.max {
			if t := s.tail; t != nil {
				s.evictNode(t, EvictCapacity)
			} else {
				break
			}
		}
	}
}

// Has reports presence, lazily removing an expired entry.
func (s *ttlStore[V]) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.m[key]
	if !ok {
		return false
	}
	if s.expired(n) {
		s.evictNode(n, EvictExpired)
		return false
	}
	return true
}

func (s *ttlStore[V]) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.m[key]
	if !ok {
		return false
	}
	s.unlink(n)
	delete(s.m, key)
	return true
}

func (s *ttlStore[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[string]*ttlNode[V])
	s.head, s.tail = nil, nil
}

func (s *ttlStore[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

func (s *ttlStore[V]) Evictions() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evicts
}

// -------------------- internals (mu held) --------------------

func (s *ttlStore[V]) expired(n *ttlNode[V]) bool {
	return s.clk.NowUnixNano()-n.insertedAt > s.ttl
}

func (s *ttlStore[V]) pushFront(n *ttlNode[V]) {
	n.prev = nil
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
}

func (s *ttlStore[V]) moveToFront(n *ttlNode[V]) {
	if n == s.head {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if s.tail == n {
		s.tail = n.prev
	}
	n.prev = nil
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
}

func (s *ttlStore[V]) unlink(n *ttlNode[V]) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if s.head == n {
		s.head = n.next
	}
	if s.tail == n {
		s.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

func (s *ttlStore[V]) evictNode(n *ttlNode[V], reason EvictReason) {
	s.unlink(n)
	delete(s.m, n.key)
	s.evicts++
	if s.onEvict != nil {
		s.onEvict(n.key, reason)
	}
}
