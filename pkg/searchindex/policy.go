// Package searchindex holds the immutable indexed collection, its three
// interchangeable indexing strategies, the query pipeline (exact/prefix/
// contains), the concurrent-safe LRU query cache, lazy materialization,
// and cancellable asynchronous execution.
package searchindex

import "hangul-fuzzy-search/pkg/choseong"

// StrategyKind selects how an Index precomputes (or doesn't) its choseong
// key vector.
type StrategyKind int

const (
	// Precompute builds the full choseong vector at construction time.
	Precompute StrategyKind = iota
	// LazyCache defers building the choseong vector until first demand.
	LazyCache
	// Ngram builds the choseong vector plus an inverted k-gram index.
	Ngram
)

// CacheKind selects the query-result cache an Index uses.
type CacheKind int

const (
	NoCache CacheKind = iota
	LruCache
)

// WarmupKind selects whether a LazyCache index starts building its
// choseong vector in the background immediately after construction.
type WarmupKind int

const (
	NoWarmup WarmupKind = iota
	BackgroundWarmup
)

// Strategy configures an Index's indexing strategy. NgramK is only
// meaningful when Kind == Ngram and is clamped to {2, 3}.
type Strategy struct {
	Kind   StrategyKind
	NgramK int
}

// SearchPolicy configures an Index at construction time.
type SearchPolicy struct {
	ChoseongOptions  choseong.Options
	IndexStrategy    Strategy
	Cache            CacheKind
	CacheCapacity    int
	LazyWarmup       WarmupKind
	MaxQueryLength   int // 0 means unbounded
	MaxCandidateScan int // 0 means unbounded
}

// DefaultPolicy returns a Precompute strategy with an LRU query cache and
// no query-length/candidate-scan bound.
func DefaultPolicy() SearchPolicy {
	return SearchPolicy{
		ChoseongOptions: choseong.DefaultOptions(),
		IndexStrategy:   Strategy{Kind: Precompute},
		Cache:           LruCache,
		CacheCapacity:   256,
	}
}

func (s Strategy) clampedNgramK() int {
	if s.NgramK < 2 || s.NgramK > 3 {
		return 2
	}
	return s.NgramK
}

// Mode is a query matching mode.
type Mode int

const (
	Contains Mode = iota
	Prefix
	Exact
)

func (m Mode) String() string {
	switch m {
	case Contains:
		return "contains"
	case Prefix:
		return "prefix"
	case Exact:
		return "exact"
	default:
		return "unknown"
	}
}

func (m Mode) matches(key, query string) bool {
	switch m {
	case Exact:
		return key == query
	case Prefix:
		return len(key) >= len(query) && key[:len(query)] == query
	default: // Contains
		return containsSubstring(key, query)
	}
}

func containsSubstring(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	hr, nr := []rune(haystack), []rune(needle)
	if len(nr) > len(hr) {
		return false
	}
	for i := 0; i+len(nr) <= len(hr); i++ {
		match := true
		for j := range nr {
			if hr[i+j] != nr[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
