package memo

import (
	"fmt"
	"time"

	"github.com/gomemo/memofn/store"
)

// Strategy selects the retention/eviction policy of the backing store.
type Strategy string

const (
	// StrategyMap — unbounded map, no eviction. The default.
	StrategyMap Strategy = "map"
	// StrategyLRU — size-bounded, least-recently-used eviction.
	// Requires Options.MaxSize.
	StrategyLRU Strategy = "lru"
	// StrategyTTL — time-bounded with lazy expiry, optional MaxSize.
	// Requires Options.TTL.
	StrategyTTL Strategy = "ttl"
)

// ConfigError reports an invalid Options combination. It is returned by
// the Memoize constructors, never deferred to the first call; the call
// site must fix its configuration, no retry is meaningful.
type ConfigError string

func (e ConfigError) Error() string { return "memo: " + string(e) }

var (
	// ErrMaxSizeRequired — StrategyLRU without a positive MaxSize.
	ErrMaxSizeRequired = ConfigError("maxSize is required for LRU cache strategy")
	// ErrTTLRequired — StrategyTTL without a positive TTL.
	ErrTTLRequired = ConfigError("ttl is required for TTL cache strategy")
)

// Clock overrides the time source of a TTL store (tests).
type Clock = store.Clock

// Options configures a memoized wrapper. The zero value is valid and
// selects an unbounded map store with the default key resolver.
type Options[V any] struct {
	// Strategy picks the store variant. Empty means StrategyMap.
	Strategy Strategy

	// MaxSize bounds the entry count. Required (positive) for
	// StrategyLRU; optional for StrategyTTL; ignored for StrategyMap.
	MaxSize int

	// TTL is the entry lifetime. Required (positive) for StrategyTTL.
	TTL time.Duration

	// KeyFunc replaces the default key resolver. It receives the raw
	// argument list of each call and must be deterministic: equal
	// argument lists must produce equal keys.
	KeyFunc func(args []any) string

	// OnHit is invoked on every cache hit with the key and the cached
	// value. Keep it lightweight; it runs on the call path.
	OnHit func(key string, v V)

	// OnMiss is invoked on every cache miss before the wrapped
	// function runs.
	OnMiss func(key string)

	// Metrics receives hit/miss/evict/size signals.
	// Nil means NoopMetrics; plug metrics/prom to export.
	Metrics Metrics

	// Clock overrides the TTL time source. Nil means wall time.
	Clock Clock
}

// validate checks the strategy/parameter combination.
func (o Options[V]) validate() error {
	switch o.Strategy {
	case "", StrategyMap:
		return nil
	case StrategyLRU:
		if o.MaxSize <= 0 {
			return ErrMaxSizeRequired
		}
		return nil
	case StrategyTTL:
		if o.TTL <= 0 {
			return ErrTTLRequired
		}
		return nil
	default:
		return ConfigError(fmt.Sprintf("unknown cache strategy %q", o.Strategy))
	}
}

// newStore builds the validated store variant. onEvict feeds the
// metrics sink.
func (o Options[V]) newStore(onEvict store.EvictFunc) (store.Store[V], error) {
	switch o.Strategy {
	case StrategyLRU:
		return store.NewLRU[V](o.MaxSize, onEvict)
	case StrategyTTL:
		return store.NewTTL[V](o.TTL, o.MaxSize, o.Clock, onEvict)
	default:
		return store.NewMap[V](), nil
	}
}
