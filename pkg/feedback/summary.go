package feedback

import (
	"encoding/json"
	"sort"
	"time"

	"hangul-fuzzy-search/pkg/choseong"
)

// TopPair is one aggregated (query, selectedKey) pair in a Summary.
type TopPair struct {
	Count       int       `json:"count"`
	LastSeen    time.Time `json:"lastSeen"`
	Query       string    `json:"query"`
	SelectedKey string    `json:"selectedKey"`
}

// Summary is the reporting view over the feedback store: totals plus the
// most frequent (query, selectedKey) pairs.
type Summary struct {
	DroppedByCapacity int       `json:"droppedByCapacity"`
	DroppedByTTL      int       `json:"droppedByTTL"`
	GeneratedAt       time.Time `json:"generatedAt"`
	TopPairs          []TopPair `json:"topPairs"`
	TotalEvents       int       `json:"totalEvents"`
	UniqueQueries     int       `json:"uniqueQueries"`
}

// Summary reports the current state of the store: event totals, unique
// normalized queries seen, TTL/capacity drop counters, and the topN most
// frequent selected (query, key) pairs.
func (s *Store) Summary(topN int, now time.Time) Summary {
	snap := s.Snapshot()

	agg := make(map[pairKey]*pairAgg)
	queries := make(map[string]struct{})
	for _, e := range snap.Events {
		q := choseong.NormalizedSearchToken(e.Query)
		queries[q] = struct{}{}
		if e.SelectedKey == "" {
			continue
		}
		k := pairKey{query: q, selectedKey: e.SelectedKey}
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

	pairs := make([]TopPair, 0, len(agg))
	for k, a := range agg {
		pairs = append(pairs, TopPair{Query: k.query, SelectedKey: k.selectedKey, Count: a.count, LastSeen: a.lastSeen})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		return pairs[i].LastSeen.After(pairs[j].LastSeen)
	})
	if topN > 0 && len(pairs) > topN {
		pairs = pairs[:topN]
	}

	return Summary{
		GeneratedAt:       now,
		TotalEvents:       len(snap.Events),
		UniqueQueries:     len(queries),
		DroppedByTTL:      snap.DroppedByTTL,
		DroppedByCapacity: snap.DroppedByCapacity,
		TopPairs:          pairs,
	}
}

// SummaryJSON renders Summary as pretty-printed, key-sorted UTF-8 JSON
// with ISO-8601 timestamps. Summary and TopPair declare their fields in
// JSON key order, which is what keeps the encoded keys sorted.
func (s *Store) SummaryJSON(topN int, now time.Time) ([]byte, error) {
	return json.MarshalIndent(s.Summary(topN, now), "", "  ")
}
