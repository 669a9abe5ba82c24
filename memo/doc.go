// Package memo provides generic memoization for synchronous and
// asynchronous functions with pluggable cache-eviction strategies,
// concurrent-call deduplication, and built-in instrumentation.
//
// Design
//
//   - State: each wrapper returned by a Memoize/MemoizeAsync constructor
//     owns its store, counters, and pending registry exclusively.
//     Independently created wrappers never share cache state.
//
//   - Strategies: the backing store is selected once at construction via
//     Options.Strategy — an unbounded map (default), a size-bounded LRU
//     store, or a TTL store with lazy expiry and an optional size bound.
//     Invalid combinations (LRU without MaxSize, TTL without TTL) fail
//     at the constructor with a ConfigError, never on the first call.
//
//   - Keys: arguments are serialized into a canonical, type-tagged
//     string, so structurally equal arguments share one entry no matter
//     how their maps were built. Options.KeyFunc fully replaces the
//     default resolver.
//
//   - Async deduplication: concurrent calls for one key attach to a
//     single in-flight computation and observe the identical resolution
//     or the identical error. Failures are never cached; the next call
//     re-executes. Errors propagate verbatim and nothing is retried.
//
//   - Stats & metrics: every wrapper counts hits, misses, and evictions
//     and reports the live entry count via Stats(). Options.Metrics
//     receives Hit/Miss/Evict/Size signals; NoopMetrics is the default
//     and metrics/prom exports to Prometheus.
//
// Basic usage
//
//	f, err := memo.Memoize(expensive, memo.Options[int]{})
//	if err != nil {
//	    // invalid configuration
//	}
//	v := f.Call(42) // computes
//	v = f.Call(42)  // cached
//
// Bounded by recency
//
//	f, _ := memo.Memoize(render, memo.Options[string]{
//	    Strategy: memo.StrategyLRU,
//	    MaxSize:  1024,
//	})
//
// Bounded by age
//
//	f, _ := memo.Memoize(lookup, memo.Options[string]{
//	    Strategy: memo.StrategyTTL,
//	    TTL:      time.Minute,
//	})
//
// Asynchronous deduplication
//
//	g, _ := memo.MemoizeAsync(fetchUser, memo.Options[*User]{})
//	// Concurrent calls for one ID trigger a single fetch; all callers
//	// receive the same *User (or the same error, which is not cached).
//	u, err := g.Call(ctx, 123)
//
// Control surface
//
//	g.Delete(123)   // drop one entry; the next call recomputes
//	g.Clear()       // drop everything
//	s := g.Stats()  // {Hits, Misses, Evictions, Size}
//	g.ResetStats()  // zero the counters; Size stays live
//
// Thread-safety
//
// All methods on a wrapper are safe for concurrent use. The synchronous
// wrappers do not coalesce concurrent computations for a cold key; the
// asynchronous wrappers guarantee at most one outstanding invocation
// per key.
package memo
