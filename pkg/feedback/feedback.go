// Package feedback collects click-through events and aggregates them into
// training samples for the similarity weight tuner.
package feedback

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"hangul-fuzzy-search/pkg/choseong"
	"hangul-fuzzy-search/pkg/tuning"
)

// Outcome classifies what the user did after issuing a query.
type Outcome int

const (
	Unknown Outcome = iota
	AcceptedSuggestion
	ClickedResult
	NoSuggestion
)

// Event is one feedback observation.
type Event struct {
	ID           string
	Query        string
	SelectedKey  string // empty means no selection
	Timestamp    time.Time
	Outcome      Outcome
	Locale       string // empty means unspecified
}

// Store is an append-only ring of feedback events bounded by a maximum
// count and a TTL, both monotonic soft caps enforced after every append.
// All mutators serialize under one mutex; reads take a consistent
// snapshot copy.
type Store struct {
	mu                sync.Mutex
	events            []Event
	maxEvents         int
	ttl               time.Duration
	droppedByTTL      int
	droppedByCapacity int
}

// NewStore returns an empty store bounded by maxEvents and ttl. Both are
// coerced to sane minimums (maxEvents >= 1, ttl >= 0, 0 meaning
// "never expires").
func NewStore(maxEvents int, ttl time.Duration) *Store {
	if maxEvents <= 0 {
		maxEvents = 1
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Store{maxEvents: maxEvents, ttl: ttl}
}

// Record appends one event, stamping it with an ID if absent, then
// enforces TTL (dropping entries older than now-ttl) and then capacity
// (trimming from the oldest end).
func (s *Store) Record(e Event, now time.Time) {
	s.RecordAll([]Event{e}, now)
}

// RecordAll appends a batch of events under a single lock acquisition.
func (s *Store) RecordAll(events []Event, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range events {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		s.events = append(s.events, e)
	}
	s.enforceTTLLocked(now)
	s.enforceCapacityLocked()
}

func (s *Store) enforceTTLLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	cutoff := now.Add(-s.ttl)
	kept := s.events[:0:0]
	for _, e := range s.events {
		if e.Timestamp.Before(cutoff) {
			s.droppedByTTL++
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
}

func (s *Store) enforceCapacityLocked() {
	if len(s.events) <= s.maxEvents {
		return
	}
	overflow := len(s.events) - s.maxEvents
	s.droppedByCapacity += overflow
	s.events = append([]Event(nil), s.events[overflow:]...)
}

// Snapshot returns a consistent copy of the currently retained events plus
// drop counters.
type Snapshot struct {
	Events            []Event
	DroppedByTTL      int
	DroppedByCapacity int
}

// Snapshot takes a consistent read of the store's current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Events:            append([]Event(nil), s.events...),
		DroppedByTTL:      s.droppedByTTL,
		DroppedByCapacity: s.droppedByCapacity,
	}
}

// pairKey identifies one (normalized query, raw selected key) pair. The
// selected key is kept raw, matching ranking.Source.RawKey, the value
// tuning.EvaluateWithOptions compares Sample.ExpectedKey against.
type pairKey struct {
	query       string
	selectedKey string
}

type pairAgg struct {
	count    int
	lastSeen time.Time
}

// TrainingSamples aggregates (query, selectedKey) pairs from events with a
// non-empty selection, keeps pairs occurring at least minOccurrences
// times, sorts by count desc then recency desc, and caps at maxSamples.
func (s *Store) TrainingSamples(minOccurrences, maxSamples int) []tuning.Sample {
	if minOccurrences < 1 {
		minOccurrences = 1
	}
	snap := s.Snapshot()

	agg := make(map[pairKey]*pairAgg)
	for _, e := range snap.Events {
		if e.SelectedKey == "" {
			continue
		}
		k := pairKey{
			query:       choseong.NormalizedSearchToken(e.Query),
			selectedKey: e.SelectedKey,
		}
		a, ok := agg[k]
		if !ok {
			a = &pairAgg{}
			agg[k] = a
		}
		a.count++
		if e.Timestamp.After(a.lastSeen) {
			a.lastSeen = e.Timestamp
		}
	}

	type row struct {
		key pairKey
		agg pairAgg
	}
	rows := make([]row, 0, len(agg))
	for k, a := range agg {
		if a.count < minOccurrences {
			continue
		}
		rows = append(rows, row{key: k, agg: *a})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].agg.count != rows[j].agg.count {
			return rows[i].agg.count > rows[j].agg.count
		}
		return rows[i].agg.lastSeen.After(rows[j].agg.lastSeen)
	})

	if maxSamples > 0 && len(rows) > maxSamples {
		rows = rows[:maxSamples]
	}

	out := make([]tuning.Sample, len(rows))
	for i, r := range rows {
		out[i] = tuning.Sample{Query: r.key.query, ExpectedKey: r.key.selectedKey}
	}
	return out
}
