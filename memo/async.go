package memo

import (
	"context"

	"github.com/gomemo/memofn/internal/flight"
)

// AsyncFunc is a memoized asynchronous function of one argument.
// Concurrent calls for the same key are deduplicated: at most one
// underlying invocation is ever outstanding per key, and every caller
// sharing it observes the identical result or the identical error.
type AsyncFunc[A, V any] struct {
	*memoizer[V]
	fn func(context.Context, A) (V, error)
	fl flight.Group[V]
}

// MemoizeAsync wraps an asynchronous single-argument function. Invalid
// options fail here, never on the first call.
//
// Failures are never cached: after an error settles, the next call with
// the same arguments genuinely re-executes the function. Errors
// propagate verbatim — no wrapping, no translation, no retries.
func MemoizeAsync[A, V any](fn func(context.Context, A) (V, error), opt Options[V]) (*AsyncFunc[A, V], error) {
	m, err := newMemoizer(opt)
	if err != nil {
		return nil, err
	}
	return &AsyncFunc[A, V]{memoizer: m, fn: fn}, nil
}

// Call invokes the wrapped function through the cache and the pending
// registry. ctx unbinds only this caller when it joins an in-flight
// computation; the computation itself runs to completion.
//
// One leader per key computes and counts the miss; joiners count hits
// against the pending registry. The store is populated before the
// pending marker is removed, so no window exists in which a new caller
// would re-invoke the function for a settled value.
func (f *AsyncFunc[A, V]) Call(ctx context.Context, a A) (V, error) {
	key := f.keyOf(a)
	if v, ok := f.lookup(key); ok {
		return v, nil
	}
	v, err, leader := f.fl.Do(ctx, key, func() (V, error) {
		// Re-check after winning leadership: another leader may have
		// settled this key between our store probe and now.
		if v, ok := f.lookup(key); ok {
			return v, nil
		}
		f.miss(key)
		v, err := f.fn(ctx, a)
		if err != nil {
			// Never cache failures; the pending marker is dropped on
			// settlement and the next call retries from scratch.
			return v, err
		}
		f.fill(key, v)
		return v, nil
	})
	if !leader {
		f.joined(key, v, err != nil)
	}
	return v, err
}

// Delete removes the settled entry for the given argument. A pending
// computation for it is unaffected and will still populate the store.
func (f *AsyncFunc[A, V]) Delete(a A) bool { return f.DeleteKey(f.keyOf(a)) }

// AsyncFunc2 is a memoized asynchronous function of two arguments.
type AsyncFunc2[A, B, V any] struct {
	*memoizer[V]
	fn func(context.Context, A, B) (V, error)
	fl flight.Group[V]
}

// MemoizeAsync2 wraps an asynchronous two-argument function.
func MemoizeAsync2[A, B, V any](fn func(context.Context, A, B) (V, error), opt Options[V]) (*AsyncFunc2[A, B, V], error) {
	m, err := newMemoizer(opt)
	if err != nil {
		return nil, err
	}
	return &AsyncFunc2[A, B, V]{memoizer: m, fn: fn}, nil
}

// Call invokes the wrapped function through the cache and the pending
// registry.
func (f *AsyncFunc2[A, B, V]) Call(ctx context.Context, a A, b B) (V, error) {
	key := f.keyOf(a, b)
	if v, ok := f.lookup(key); ok {
		return v, nil
	}
	v, err, leader := f.fl.Do(ctx, key, func() (V, error) {
		if v, ok := f.lookup(key); ok {
			return v, nil
		}
		f.miss(key)
		v, err := f.fn(ctx, a, b)
		if err != nil {
			return v, err
		}
		f.fill(key, v)
		return v, nil
	})
	if !leader {
		f.joined(key, v, err != nil)
	}
	return v, err
}

// Delete removes the settled entry for the given arguments.
func (f *AsyncFunc2[A, B, V]) Delete(a A, b B) bool { return f.DeleteKey(f.keyOf(a, b)) }
