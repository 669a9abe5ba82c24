package memo

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct{ t int64 }

func (f *fakeClock) NowUnixNano() int64  { return f.t }
func (f *fakeClock) add(d time.Duration) { f.t += int64(d) }

// countingFn returns a wrapped function plus an invocation counter.
func countingFn() (func(int) int, *atomic.Int64) {
	var calls atomic.Int64
	return func(n int) int {
		calls.Add(1)
		return n * 2
	}, &calls
}

// Sequential calls with a fixed argument compute exactly once; every
// call returns the first result.
func TestMemoize_Idempotent(t *testing.T) {
	t.Parallel()

	fn, calls := countingFn()
	f, err := Memoize(fn, Options[int]{})
	if err != nil {
		t.Fatal(err)
	}

	first := f.Call(21)
	for i := 0; i < 5; i++ {
		if got := f.Call(21); got != first {
			t.Fatalf("call %d: got %d, want %d", i, got, first)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("wrapped function ran %d times, want 1", got)
	}
}

// A zero-argument function maps every call to one fixed key.
func TestMemoize_ZeroArg(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	f, err := Memoize0(func() string {
		calls.Add(1)
		return "computed"
	}, Options[string]{})
	if err != nil {
		t.Fatal(err)
	}

	if f.Call() != "computed" || f.Call() != "computed" {
		t.Fatal("unexpected result")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("zero-arg function ran %d times, want 1", got)
	}

	if !f.Delete() {
		t.Fatal("Delete must report the entry existed")
	}
	f.Call()
	if got := calls.Load(); got != 2 {
		t.Fatalf("after Delete function ran %d times, want 2", got)
	}
}

// Distinct-but-equal composite arguments share one entry; unequal ones
// miss independently. Map insertion order must not matter.
func TestMemoize_StructuralKeys(t *testing.T) {
	t.Parallel()

	type query struct {
		ID   int
		Tags map[string]string
	}

	var calls atomic.Int64
	f, err := Memoize(func(q query) int {
		calls.Add(1)
		return q.ID
	}, Options[int]{})
	if err != nil {
		t.Fatal(err)
	}

	a := map[string]string{}
	a["x"] = "1"
	a["y"] = "2"
	b := map[string]string{}
	b["y"] = "2"
	b["x"] = "1"

	f.Call(query{ID: 1, Tags: a})
	f.Call(query{ID: 1, Tags: b}) // structurally equal: hit
	if got := calls.Load(); got != 1 {
		t.Fatalf("equal arguments ran %d times, want 1", got)
	}

	f.Call(query{ID: 2, Tags: a}) // different ID: independent miss
	if got := calls.Load(); got != 2 {
		t.Fatalf("distinct arguments ran %d times, want 2", got)
	}
}

// With maxSize=3, inserting 1,2,3,4 evicts key 1; 2 and 3 stay hits and
// the eviction counter grows by exactly one.
func TestMemoize_LRUEviction(t *testing.T) {
	t.Parallel()

	fn, calls := countingFn()
	f, err := Memoize(fn, Options[int]{Strategy: StrategyLRU, MaxSize: 3})
	if err != nil {
		t.Fatal(err)
	}

	for _, k := range []int{1, 2, 3, 4} {
		f.Call(k)
	}
	f.Call(2)
	f.Call(3)
	if got := calls.Load(); got != 4 {
		t.Fatalf("2 and 3 must be hits; function ran %d times, want 4", got)
	}

	s := f.Stats()
	if s.Evictions != 1 {
		t.Fatalf("evictions = %d, want 1", s.Evictions)
	}
	if s.Size != 3 {
		t.Fatalf("size = %d, want 3", s.Size)
	}

	f.Call(1) // evicted: recomputes
	if got := calls.Load(); got != 5 {
		t.Fatalf("key 1 must recompute; function ran %d times, want 5", got)
	}
}

// Re-accessing a key promotes it and prevents its eviction when the
// next distinct key arrives.
func TestMemoize_LRURecency(t *testing.T) {
	t.Parallel()

	fn, calls := countingFn()
	f, err := Memoize(fn, Options[int]{Strategy: StrategyLRU, MaxSize: 3})
	if err != nil {
		t.Fatal(err)
	}

	for _, k := range []int{1, 2, 3} {
		f.Call(k)
	}
	f.Call(1) // promote 1 to MRU
	f.Call(4) // evicts 2, the current LRU
	f.Call(1) // still cached
	if got := calls.Load(); got != 4 {
		t.Fatalf("promoted key must survive; function ran %d times, want 4", got)
	}
	f.Call(2) // evicted: recomputes
	if got := calls.Load(); got != 5 {
		t.Fatalf("key 2 must recompute; function ran %d times, want 5", got)
	}
}

// TTL expiry with a fake clock: fresh within ttl, recomputed after,
// expiry counted as an eviction.
func TestMemoize_TTLExpiry(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	fn, calls := countingFn()
	f, err := Memoize(fn, Options[int]{
		Strategy: StrategyTTL,
		TTL:      time.Second,
		Clock:    clk,
	})
	if err != nil {
		t.Fatal(err)
	}

	f.Call(7) // t=0: miss
	clk.add(500 * time.Millisecond)
	f.Call(7) // t=500ms: hit
	if got := calls.Load(); got != 1 {
		t.Fatalf("fresh entry recomputed; function ran %d times, want 1", got)
	}

	clk.add(600 * time.Millisecond)
	f.Call(7) // t=1100ms: expired, recomputes
	if got := calls.Load(); got != 2 {
		t.Fatalf("expired entry must recompute; function ran %d times, want 2", got)
	}
	if s := f.Stats(); s.Evictions != 1 {
		t.Fatalf("evictions = %d, want 1", s.Evictions)
	}
}

// When TTL and MaxSize are combined, capacity overflow evicts the
// oldest-inserted entry, independent of expiry.
func TestMemoize_TTLWithCapacity(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	fn, calls := countingFn()
	f, err := Memoize(fn, Options[int]{
		Strategy: StrategyTTL,
		TTL:      time.Minute,
		MaxSize:  2,
		Clock:    clk,
	})
	if err != nil {
		t.Fatal(err)
	}

	f.Call(1)
	clk.add(time.Millisecond)
	f.Call(2)
	clk.add(time.Millisecond)
	f.Call(3) // overflow: evicts 1 (oldest-inserted)

	f.Call(2)
	f.Call(3)
	if got := calls.Load(); got != 3 {
		t.Fatalf("2 and 3 must be hits; function ran %d times, want 3", got)
	}
	f.Call(1)
	if got := calls.Load(); got != 4 {
		t.Fatalf("oldest entry must have been evicted; ran %d times, want 4", got)
	}
	if s := f.Stats(); s.Evictions != 2 {
		// evicting 1 on overflow, then 2 when 1 was re-inserted
		t.Fatalf("evictions = %d, want 2", s.Evictions)
	}
}

// Stats accounting: k distinct misses, h repeated hits; ResetStats
// zeroes the counters while Size keeps reflecting the live store.
func TestMemoize_Stats(t *testing.T) {
	t.Parallel()

	fn, _ := countingFn()
	f, err := Memoize(fn, Options[int]{})
	if err != nil {
		t.Fatal(err)
	}

	for _, k := range []int{1, 2, 3} {
		f.Call(k)
	}
	f.Call(1)
	f.Call(2)

	s := f.Stats()
	if s.Misses != 3 || s.Hits != 2 {
		t.Fatalf("stats = %+v, want hits=2 misses=3", s)
	}
	if s.Size != 3 {
		t.Fatalf("size = %d, want 3", s.Size)
	}

	f.ResetStats()
	s = f.Stats()
	if s.Hits != 0 || s.Misses != 0 || s.Evictions != 0 {
		t.Fatalf("counters not zeroed: %+v", s)
	}
	if s.Size != 3 {
		t.Fatalf("reset must not touch size; got %d, want 3", s.Size)
	}
}

// Invalid strategy options fail at the constructor, not on first call.
func TestMemoize_ConfigValidation(t *testing.T) {
	t.Parallel()

	fn, _ := countingFn()

	if _, err := Memoize(fn, Options[int]{Strategy: StrategyLRU}); !errors.Is(err, ErrMaxSizeRequired) {
		t.Fatalf("lru without maxSize: err = %v, want ErrMaxSizeRequired", err)
	}
	if _, err := Memoize(fn, Options[int]{Strategy: StrategyTTL}); !errors.Is(err, ErrTTLRequired) {
		t.Fatalf("ttl without ttl: err = %v, want ErrTTLRequired", err)
	}
	if _, err := Memoize(fn, Options[int]{Strategy: "lfu"}); err == nil {
		t.Fatal("unknown strategy must fail")
	}

	var ce ConfigError
	_, err := Memoize(fn, Options[int]{Strategy: StrategyLRU})
	if !errors.As(err, &ce) {
		t.Fatalf("err %v must be a ConfigError", err)
	}
}

// Delete removes only the targeted entry; Clear empties everything.
func TestMemoize_DeleteAndClear(t *testing.T) {
	t.Parallel()

	fn, calls := countingFn()
	f, err := Memoize(fn, Options[int]{})
	if err != nil {
		t.Fatal(err)
	}

	f.Call(1)
	f.Call(2)

	if !f.Delete(1) {
		t.Fatal("Delete(1) must report the entry existed")
	}
	if f.Delete(1) {
		t.Fatal("second Delete(1) must report absence")
	}

	f.Call(2) // unaffected: hit
	if got := calls.Load(); got != 2 {
		t.Fatalf("untargeted entry recomputed; ran %d times, want 2", got)
	}
	f.Call(1) // recomputes
	if got := calls.Load(); got != 3 {
		t.Fatalf("deleted entry must recompute; ran %d times, want 3", got)
	}

	f.Clear()
	if s := f.Stats(); s.Size != 0 {
		t.Fatalf("size after Clear = %d, want 0", s.Size)
	}
	f.Call(1)
	f.Call(2)
	if got := calls.Load(); got != 5 {
		t.Fatalf("after Clear every call recomputes; ran %d times, want 5", got)
	}
}

// OnHit and OnMiss observe the resolved key and, for hits, the value.
func TestMemoize_Callbacks(t *testing.T) {
	t.Parallel()

	var hitKeys, missKeys []string
	var hitVals []int

	fn, _ := countingFn()
	f, err := Memoize(fn, Options[int]{
		OnHit: func(key string, v int) {
			hitKeys = append(hitKeys, key)
			hitVals = append(hitVals, v)
		},
		OnMiss: func(key string) { missKeys = append(missKeys, key) },
	})
	if err != nil {
		t.Fatal(err)
	}

	f.Call(3)
	f.Call(3)

	if len(missKeys) != 1 || len(hitKeys) != 1 {
		t.Fatalf("callbacks: %d misses, %d hits; want 1 and 1", len(missKeys), len(hitKeys))
	}
	if missKeys[0] != hitKeys[0] {
		t.Fatalf("hit and miss keys differ: %q vs %q", hitKeys[0], missKeys[0])
	}
	if hitVals[0] != 6 {
		t.Fatalf("OnHit value = %d, want 6", hitVals[0])
	}
}

// A caller-supplied KeyFunc fully replaces the default resolver.
func TestMemoize_KeyFuncOverride(t *testing.T) {
	t.Parallel()

	fn, calls := countingFn()
	f, err := Memoize(fn, Options[int]{
		// Collapse every argument list to one key.
		KeyFunc: func([]any) string { return "all" },
	})
	if err != nil {
		t.Fatal(err)
	}

	f.Call(1)
	f.Call(2)
	f.Call(3)
	if got := calls.Load(); got != 1 {
		t.Fatalf("collapsed key must compute once; ran %d times", got)
	}
	if !f.DeleteKey("all") {
		t.Fatal("DeleteKey must find the resolver's key")
	}
}

// Zero values are valid cached results; presence is the existence
// check, never truthiness.
func TestMemoize_ZeroValueResult(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	f, err := Memoize(func(string) *int {
		calls.Add(1)
		return nil
	}, Options[*int]{})
	if err != nil {
		t.Fatal(err)
	}

	if f.Call("k") != nil || f.Call("k") != nil {
		t.Fatal("unexpected non-nil result")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("nil result recomputed; ran %d times, want 1", got)
	}
}

// Two-argument wrapper keys on both arguments.
func TestMemoize2(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	f, err := Memoize2(func(a, b int) int {
		calls.Add(1)
		return a + b
	}, Options[int]{})
	if err != nil {
		t.Fatal(err)
	}

	if f.Call(1, 2) != 3 || f.Call(1, 2) != 3 {
		t.Fatal("unexpected sum")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("ran %d times, want 1", got)
	}

	f.Call(2, 1) // argument order is part of the key
	if got := calls.Load(); got != 2 {
		t.Fatalf("swapped arguments must miss; ran %d times, want 2", got)
	}
	if !f.Delete(1, 2) {
		t.Fatal("Delete(1,2) must report the entry existed")
	}
}

// Independently created wrappers never share cache state.
func TestMemoize_IsolatedWrappers(t *testing.T) {
	t.Parallel()

	fn, calls := countingFn()
	f1, err := Memoize(fn, Options[int]{})
	if err != nil {
		t.Fatal(err)
	}
	f2, err := Memoize(fn, Options[int]{})
	if err != nil {
		t.Fatal(err)
	}

	f1.Call(9)
	f2.Call(9)
	if got := calls.Load(); got != 2 {
		t.Fatalf("wrappers shared state; ran %d times, want 2", got)
	}
}
