package store

import "sync"

// mapStore is the default unbounded strategy: a plain map with no
// eviction. All operations are O(1).
type mapStore[V any] struct {
	mu sync.RWMutex
	m  map[string]V
}

// NewMap returns an unbounded map store.
func NewMap[V any]() Store[V] {
	return &mapStore[V]{m: make(map[string]V)}
}

func (s *mapStore[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *mapStore[V]) Set(key string, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = v
}

func (s *mapStore[V]) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.m[key]
	return ok
}

func (s *mapStore[V]) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[key]; !ok {
		return false
	}
	delete(s.m, key)
	return true
}

func (s *mapStore[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[string]V)
}

func (s *mapStore[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Evictions is always zero: the map strategy never evicts.
func (s *mapStore[V]) Evictions() uint64 { return 0 }
