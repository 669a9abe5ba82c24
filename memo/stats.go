package memo

// Stats is a point-in-time snapshot of a wrapper's counters.
//
// Hits, Misses, and Evictions are monotonic and reset only by
// ResetStats. Size always reflects the live entry count of the store
// and is unaffected by a reset.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions uint64
	Size      int
}
