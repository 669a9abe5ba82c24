package memo

import "github.com/gomemo/memofn/store"

// EvictReason explains why an entry left the store.
type EvictReason = store.EvictReason

const (
	// EvictCapacity — removed to satisfy a MaxSize bound.
	EvictCapacity = store.EvictCapacity
	// EvictExpired — aged out by TTL.
	EvictExpired = store.EvictExpired
)

// Metrics exposes wrapper-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
// It is safe for concurrent use and intended as the default when
// no observability backend is configured.
type NoopMetrics struct{}

func (NoopMetrics) Hit()              {}
func (NoopMetrics) Miss()             {}
func (NoopMetrics) Evict(EvictReason) {}
func (NoopMetrics) Size(int)          {}

// Ensure NoopMetrics implements the Metrics interface at compile time.
var _ Metrics = NoopMetrics{}
