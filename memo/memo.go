package memo

import (
	"sync/atomic"

	"github.com/gomemo/memofn/internal/keyenc"
	"github.com/gomemo/memofn/internal/util"
	"github.com/gomemo/memofn/store"
)

// DefaultKeyFunc is the key resolver used when Options.KeyFunc is nil.
// It canonically serializes the argument list: structurally equal
// arguments yield identical keys regardless of map insertion order, and
// an empty list maps to one fixed key. See internal/keyenc for the
// encoding rules.
func DefaultKeyFunc(args []any) string { return keyenc.Encode(args) }

// memoizer owns the per-wrapper state: the store, the key resolver, the
// counters, and the callbacks. Each Memoize/MemoizeAsync call creates
// its own instance; wrappers never share state.
type memoizer[V any] struct {
	st    store.Store[V]
	keyFn func([]any) string
	onHit func(key string, v V)
	onMis func(key string)
	met   Metrics

	// Hot counters, padded to avoid false sharing.
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64

	// Store eviction count at the last ResetStats. The store counter
	// itself is monotonic; snapshots subtract this baseline.
	evictBase atomic.Uint64
}

func newMemoizer[V any](opt Options[V]) (*memoizer[V], error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}

	m := &memoizer[V]{
		keyFn: opt.KeyFunc,
		onHit: opt.OnHit,
		onMis: opt.OnMiss,
		met:   opt.Metrics,
	}
	if m.keyFn == nil {
		m.keyFn = DefaultKeyFunc
	}
	if m.met == nil {
		m.met = NoopMetrics{}
	}

	st, err := opt.newStore(func(_ string, reason store.EvictReason) {
		m.met.Evict(reason)
	})
	if err != nil {
		return nil, err
	}
	m.st = st
	return m, nil
}

func (m *memoizer[V]) keyOf(args ...any) string { return m.keyFn(args) }

// lookup probes the store and accounts a hit on presence. A miss is not
// counted here; the caller attributes it when it actually computes.
func (m *memoizer[V]) lookup(key string) (V, bool) {
	v, ok := m.st.Get(key)
	if !ok {
		return v, false
	}
	m.hits.Add(1)
	m.met.Hit()
	if m.onHit != nil {
		m.onHit(key, v)
	}
	return v, true
}

// miss accounts a miss just before the wrapped function is invoked.
func (m *memoizer[V]) miss(key string) {
	m.misses.Add(1)
	m.met.Miss()
	if m.onMis != nil {
		m.onMis(key)
	}
}

// joined accounts a hit for a caller that attached to an in-flight
// computation instead of the settled store.
func (m *memoizer[V]) joined(key string, v V, failed bool) {
	m.hits.Add(1)
	m.met.Hit()
	if !failed && m.onHit != nil {
		m.onHit(key, v)
	}
}

// fill stores a freshly computed value.
func (m *memoizer[V]) fill(key string, v V) {
	m.st.Set(key, v)
	m.met.Size(m.st.Len())
}

// Clear empties the cache. Every subsequent call recomputes.
func (m *memoizer[V]) Clear() {
	m.st.Clear()
	m.met.Size(0)
}

// DeleteKey removes the entry for an already-resolved key and reports
// whether it existed. Other entries are unaffected.
func (m *memoizer[V]) DeleteKey(key string) bool {
	ok := m.st.Delete(key)
	m.met.Size(m.st.Len())
	return ok
}

// Stats returns a snapshot of the wrapper's counters.
func (m *memoizer[V]) Stats() Stats {
	return Stats{
		Hits:      m.hits.Load(),
		Misses:    m.misses.Load(),
		Evictions: m.st.Evictions() - m.evictBase.Load(),
		Size:      m.st.Len(),
	}
}

// ResetStats zeroes hits, misses, and evictions. Size is live store
// cardinality and is not affected.
func (m *memoizer[V]) ResetStats() {
	m.hits.Store(0)
	m.misses.Store(0)
	m.evictBase.Store(m.st.Evictions())
}
