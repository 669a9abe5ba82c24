package memo

// Func is a memoized synchronous function of one argument. The control
// surface (Clear, Delete, DeleteKey, Stats, ResetStats) is promoted
// from the embedded engine.
type Func[A, V any] struct {
	*memoizer[V]
	fn func(A) V
}

// Memoize wraps a synchronous single-argument function. Invalid options
// fail here, never on the first call.
//
// Two goroutines racing on a cold key may both compute; the synchronous
// wrapper does not coalesce concurrent calls. Use MemoizeAsync when one
// underlying invocation per key must be guaranteed.
func Memoize[A, V any](fn func(A) V, opt Options[V]) (*Func[A, V], error) {
	m, err := newMemoizer(opt)
	if err != nil {
		return nil, err
	}
	return &Func[A, V]{memoizer: m, fn: fn}, nil
}

// Call invokes the wrapped function through the cache.
func (f *Func[A, V]) Call(a A) V {
	key := f.keyOf(a)
	if v, ok := f.lookup(key); ok {
		return v
	}
	f.miss(key)
	v := f.fn(a)
	f.fill(key, v)
	return v
}

// Delete removes the entry for the given argument and reports whether
// it existed. The next Call with that argument recomputes.
func (f *Func[A, V]) Delete(a A) bool { return f.DeleteKey(f.keyOf(a)) }

// Func0 is a memoized synchronous function of no arguments. Every call
// maps to one fixed key, so the wrapped function computes exactly once
// until the entry is deleted, cleared, or evicted.
type Func0[V any] struct {
	*memoizer[V]
	fn  func() V
	key string
}

// Memoize0 wraps a zero-argument synchronous function.
func Memoize0[V any](fn func() V, opt Options[V]) (*Func0[V], error) {
	m, err := newMemoizer(opt)
	if err != nil {
		return nil, err
	}
	return &Func0[V]{memoizer: m, fn: fn, key: m.keyOf()}, nil
}

// Call invokes the wrapped function through the cache.
func (f *Func0[V]) Call() V {
	if v, ok := f.lookup(f.key); ok {
		return v
	}
	f.miss(f.key)
	v := f.fn()
	f.fill(f.key, v)
	return v
}

// Delete removes the single entry and reports whether it existed.
func (f *Func0[V]) Delete() bool { return f.DeleteKey(f.key) }

// Func2 is a memoized synchronous function of two arguments.
type Func2[A, B, V any] struct {
	*memoizer[V]
	fn func(A, B) V
}

// Memoize2 wraps a synchronous two-argument function. Functions with
// wider argument tuples pass a struct to Memoize instead; the default
// resolver serializes it structurally.
func Memoize2[A, B, V any](fn func(A, B) V, opt Options[V]) (*Func2[A, B, V], error) {
	m, err := newMemoizer(opt)
	if err != nil {
		return nil, err
	}
	return &Func2[A, B, V]{memoizer: m, fn: fn}, nil
}

// Call invokes the wrapped function through the cache.
func (f *Func2[A, B, V]) Call(a A, b B) V {
	key := f.keyOf(a, b)
	if v, ok := f.lookup(key); ok {
		return v
	}
	f.miss(key)
	v := f.fn(a, b)
	f.fill(key, v)
	return v
}

// Delete removes the entry for the given arguments.
func (f *Func2[A, B, V]) Delete(a A, b B) bool { return f.DeleteKey(f.keyOf(a, b)) }
