package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_GetSetDelete(t *testing.T) {
	s, err := NewLRU[string](10, nil)
	require.NoError(t, err)

	s.Set("a", "1")
	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	s.Set("a", "2") // update in place
	v, _ = s.Get("a")
	assert.Equal(t, "2", v)
	assert.Equal(t, 1, s.Len())

	assert.True(t, s.Delete("a"))
	assert.False(t, s.Delete("a"))
	_, ok = s.Get("a")
	assert.False(t, ok)
}

func TestLRU_RequiresPositiveMaxSize(t *testing.T) {
	_, err := NewLRU[int](0, nil)
	assert.Error(t, err)
	_, err = NewLRU[int](-1, nil)
	assert.Error(t, err)
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	s, err := NewLRU[int](2, func(key string, reason EvictReason) {
		assert.Equal(t, EvictCapacity, reason)
		evicted = append(evicted, key)
	})
	require.NoError(t, err)

	s.Set("a", 1)
	s.Set("b", 2)
	_, ok := s.Get("a") // promote a
	require.True(t, ok)
	s.Set("c", 3) // evicts b

	_, ok = s.Get("b")
	assert.False(t, ok)
	_, ok = s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []string{"b"}, evicted)
	assert.Equal(t, uint64(1), s.Evictions())
	assert.Equal(t, 2, s.Len())
}

func TestLRU_TieBrokenByInsertionOrder(t *testing.T) {
	s, err := NewLRU[int](3, nil)
	require.NoError(t, err)

	// No reads in between: recency equals insertion order, so the
	// earliest insertion goes first.
	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("c", 3)
	s.Set("d", 4)

	_, ok := s.Get("a")
	assert.False(t, ok, "earliest insertion must be evicted first")
	for _, k := range []string{"b", "c", "d"} {
		assert.True(t, s.Has(k), "key %s must survive", k)
	}
}

func TestLRU_HasDoesNotPromote(t *testing.T) {
	s, err := NewLRU[int](2, nil)
	require.NoError(t, err)

	s.Set("a", 1)
	s.Set("b", 2)
	assert.True(t, s.Has("a")) // no promotion
	s.Set("c", 3)              // evicts a, the untouched LRU

	assert.False(t, s.Has("a"))
	assert.True(t, s.Has("b"))
}

func TestLRU_ZeroValuePresence(t *testing.T) {
	s, err := NewLRU[*int](4, nil)
	require.NoError(t, err)

	s.Set("nil", nil)
	v, ok := s.Get("nil")
	assert.True(t, ok, "presence must come from the existence check, not the value")
	assert.Nil(t, v)
}

func TestLRU_ClearKeepsEvictionCounter(t *testing.T) {
	s, err := NewLRU[int](1, nil)
	require.NoError(t, err)

	s.Set("a", 1)
	s.Set("b", 2) // evicts a
	require.Equal(t, uint64(1), s.Evictions())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, uint64(1), s.Evictions(), "Clear is not an eviction")

	// Store stays usable after Clear.
	s.Set("c", 3)
	v, ok := s.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}
