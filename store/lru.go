package store

import (
	"errors"
	"sync"
)

// lruNode is an intrusive doubly linked list element owned by the store.
// head is MRU, tail is LRU.
type lruNode[V any] struct {
	key  string
	val  V
	prev *lruNode[V]
	next *lruNode[V]
}

// lruStore is the size-bounded recency strategy: a map for lookups plus
// an intrusive MRU↔LRU list for ordering. All operations are O(1).
//
// Invariant: Len() <= max after every mutating operation. Overflow on
// Set evicts the tail (least recently used; ties broken by earliest
// insertion, which the list order encodes naturally).
type lruStore[V any] struct {
	mu      sync.Mutex
	m       map[string]*lruNode[V]
	head    *lruNode[V] // MRU
	tail    *lruNode[V] // LRU
	max     int
	evicts  uint64
	onEvict EvictFunc
}

// NewLRU returns a bounded store evicting the least-recently-used entry
// on overflow. maxSize must be positive. onEvict may be nil.
func NewLRU[V any](maxSize int, onEvict EvictFunc) (Store[V], error) {
	if maxSize <= 0 {
		return nil, errors.New("store: lru maxSize must be > 0")
	}
	return &lruStore[V]{
		m:       make(map[string]*lruNode[V], maxSize),
		max:     maxSize,
		onEvict: onEvict,
	}, nil
}

// Get returns the value for key and promotes the entry to MRU.
func (s *lruStore[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.m[key]
	if !ok {
		var zero V
		return zero, false
	}
	s.moveToFront(n)
	return n.val, true
}

// Set inserts or updates key→v. An update promotes the entry; a new
// entry that overflows the bound evicts the current LRU first.
func (s *lruStore[V]) Set(key string, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.m[key]; ok {
		n.val = v
		s.moveToFront(n)
		return
	}

	n := &lruNode[V]{key: key, val: v}
	s.m[key] = n
	s.pushFront(n)

	for len(s.m) > s.max {
		if t := s.tail; t != nil {
			s.evictNode(t, EvictCapacity)
		} else {
			break
		}
	}
}

// Has reports presence without touching recency order.
func (s *lruStore[V]) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[key]
	return ok
}

func (s *lruStore[V]) Delete(key string) bool {
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

func (s *lruStore[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[string]*lruNode[V], s.max)
	s.head, s.tail = nil, nil
}

func (s *lruStore[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

func (s *lruStore[V]) Evictions() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evicts
}

// -------------------- internals (mu held) --------------------

// pushFront inserts n at MRU in O(1).
func (s *lruStore[V]) pushFront(n *lruNode[V]) {
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

// moveToFront promotes n to MRU in O(1).
func (s *lruStore[V]) moveToFront(n *lruNode[V]) {
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

// unlink detaches n from the list in O(1).
func (s *lruStore[V]) unlink(n *lruNode[V]) {
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

// evictNode removes n, counts the eviction, and notifies the hook.
func (s *lruStore[V]) evictNode(n *lruNode[V], reason EvictReason) {
	s.unlink(n)
	delete(s.m, n.key)
	s.evicts++
	if s.onEvict != nil {
		s.onEvict(n.key, reason)
	}
}
