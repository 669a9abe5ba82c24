// Package flight holds the pending-computation registry used to
// deduplicate concurrent asynchronous calls for the same cache key.
package flight

import (
	"context"
	"sync"
)

// Group tracks at most one in-flight computation per key. The first
// caller for a key becomes the leader and runs fn; concurrent callers
// for the same key join the leader's call and wait for its shared
// result. A pending entry exists only while its computation is
// outstanding and is removed exactly once, on settlement — success or
// failure alike.
//
// Concurrency notes:
//   - Publishing (val, err) happens-before close(c.done), so joiners
//     reading after <-done observe the final values.
//   - Cancelling ctx in a joiner unblocks only that joiner; it never
//     cancels the leader's fn. Once started, a computation runs to
//     completion.
type Group[V any] struct {
	mu sync.Mutex
	m  map[string]*call[V]
}

type call[V any] struct {
	done chan struct{} // closed when val/err are published
	val  V
	err  error
}

// Do executes fn once per key among concurrent callers. The returned
// leader flag reports whether this caller ran fn itself (true) or
// joined an already-pending computation (false); the memoizer uses it
// to attribute exactly one miss per underlying invocation.
func (g *Group[V]) Do(ctx context.Context, key string, fn func() (V, error)) (v V, err error, leader bool) {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[string]*call[V])
	}
	if c, ok := g.m[key]; ok {
		// Join the pending computation.
		done := c.done
		g.mu.Unlock()

		select {
		case <-done:
			return c.val, c.err, false
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err(), false
		}
	}

	// Leader path: record the pending marker, run fn outside the lock.
	c := &call[V]{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()
	close(c.done)

	// Settle: the marker is removed exactly once, here.
	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()

	return c.val, c.err, true
}

// Pending returns the number of outstanding computations. Test helper.
func (g *Group[V]) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.m)
}
