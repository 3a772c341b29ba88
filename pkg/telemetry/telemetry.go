// Package telemetry tracks per-operation counters and latency accumulators
// for the search engine's six operation kinds (sync/async x
// search/similar/explain).
package telemetry

import (
	"sync/atomic"
	"time"
)

// Kind identifies one of the six tracked operation kinds.
type Kind int

const (
	SyncSearch Kind = iota
	AsyncSearch
	SyncSimilar
	AsyncSimilar
	SyncExplain
	AsyncExplain
	kindCount
)

func (k Kind) String() string {
	switch k {
	case SyncSearch:
		return "search"
	case AsyncSearch:
		return "search_async"
	case SyncSimilar:
		return "similar"
	case AsyncSimilar:
		return "similar_async"
	case SyncExplain:
		return "explain"
	case AsyncExplain:
		return "explain_async"
	default:
		return "unknown"
	}
}

type counters struct {
	success       uint64
	cancelled     uint64
	failure       uint64
	latencyNs     uint64
	returnedItems uint64
}

// Telemetry is a single mutex-free (atomic-counter) recorder for all six
// operation kinds plus a cache-hit counter, safe for concurrent use from
// any number of query goroutines.
type Telemetry struct {
	kinds     [kindCount]counters
	cacheHits uint64
	startedAt atomic.Int64 // unix nanos
}

// New returns a telemetry recorder stamped with the given start time; the
// caller supplies "now" so the start stamp is deterministic under test.
func New(now time.Time) *Telemetry {
	t := &Telemetry{}
	t.startedAt.Store(now.UnixNano())
	return t
}

// RecordSuccess records a successful operation of kind k that returned
// returnedItems results and took latency to complete.
func (t *Telemetry) RecordSuccess(k Kind, latency time.Duration, returnedItems int) {
	c := &t.kinds[k]
	atomic.AddUint64(&c.success, 1)
	atomic.AddUint64(&c.latencyNs, uint64(latency.Nanoseconds()))
	atomic.AddUint64(&c.returnedItems, uint64(returnedItems))
}

// RecordCancelled records a cancelled operation of kind k.
func (t *Telemetry) RecordCancelled(k Kind, latency time.Duration) {
	c := &t.kinds[k]
	atomic.AddUint64(&c.cancelled, 1)
	atomic.AddUint64(&c.latencyNs, uint64(latency.Nanoseconds()))
}

// RecordFailure records a failed operation of kind k.
func (t *Telemetry) RecordFailure(k Kind, latency time.Duration) {
	c := &t.kinds[k]
	atomic.AddUint64(&c.failure, 1)
	atomic.AddUint64(&c.latencyNs, uint64(latency.Nanoseconds()))
}

// RecordCacheHit increments the global cache-hit counter.
func (t *Telemetry) RecordCacheHit() {
	atomic.AddUint64(&t.cacheHits, 1)
}

// KindSnapshot is the reported state of one operation kind.
type KindSnapshot struct {
	Success          uint64
	Cancelled        uint64
	Failure          uint64
	MeanLatencyMs    float64
	ReturnedItems    uint64
}

// Snapshot is the full reported telemetry state.
type Snapshot struct {
	StartedAt time.Time
	CacheHits uint64
	Kinds     map[string]KindSnapshot
}

// Snapshot reports current counts and mean latencies (nanoseconds
// converted to milliseconds).
func (t *Telemetry) Snapshot() Snapshot {
	out := Snapshot{
		StartedAt: time.Unix(0, t.startedAt.Load()),
		CacheHits: atomic.LoadUint64(&t.cacheHits),
		Kinds:     make(map[string]KindSnapshot, kindCount),
	}
	for i := Kind(0); i < kindCount; i++ {
		c := &t.kinds[i]
		success := atomic.LoadUint64(&c.success)
		cancelled := atomic.LoadUint64(&c.cancelled)
		failure := atomic.LoadUint64(&c.failure)
		latencyNs := atomic.LoadUint64(&c.latencyNs)
		total := success + cancelled + failure
		mean := 0.0
		if total > 0 {
			mean = float64(latencyNs) / float64(total) / 1e6
		}
		out.Kinds[i.String()] = KindSnapshot{
			Success:       success,
			Cancelled:     cancelled,
			Failure:       failure,
			MeanLatencyMs: mean,
			ReturnedItems: atomic.LoadUint64(&c.returnedItems),
		}
	}
	return out
}

// Reset zeros all counters and re-stamps the start time.
func (t *Telemetry) Reset(now time.Time) {
	for i := range t.kinds {
		t.kinds[i] = counters{}
	}
	atomic.StoreUint64(&t.cacheHits, 0)
	t.startedAt.Store(now.UnixNano())
}
