package searchindex

import (
	"sort"
	"time"

	"hangul-fuzzy-search/pkg/cache"
	"hangul-fuzzy-search/pkg/choseong"
	"hangul-fuzzy-search/pkg/materializer"
	"hangul-fuzzy-search/pkg/telemetry"
)

// Index is an immutable collection of items of type T, keyed by a string
// the caller extracts once at construction. Everything but the query
// cache, the lazy materializer, and telemetry is read-only thereafter.
type Index[T any] struct {
	items          []T
	rawKeys        []string
	normalizedKeys []string

	policy SearchPolicy

	choseongVec []string // precomputed/ngram strategies only; always nil under LazyCache, whose vector lives in the materializer
	postings    map[string][]int

	materializer *materializer.Materializer[[]string]
	queryCache   *cache.Cache[string, []int]
	telemetry    *telemetry.Telemetry
}

// New constructs an Index from items, a key projection applied once per
// item, and a SearchPolicy. Construction never fails.
func New[T any](items []T, keyFn func(T) string, policy SearchPolicy, now time.Time) *Index[T] {
	n := len(items)
	raw := make([]string, n)
	normalized := make([]string, n)
	for i, it := range items {
		k := keyFn(it)
		raw[i] = k
		normalized[i] = choseong.NormalizedSearchToken(k)
	}

	idx := &Index[T]{
		items:          items,
		rawKeys:        raw,
		normalizedKeys: normalized,
		policy:         policy,
		telemetry:      telemetry.New(now),
	}

	buildChoseong := func() []string {
		out := make([]string, n)
		for i, k := range normalized {
			out[i] = choseong.Extract(k, policy.ChoseongOptions)
		}
		return out
	}

	switch policy.IndexStrategy.Kind {
	case Precompute:
		idx.choseongVec = buildChoseong()
	case Ngram:
		idx.choseongVec = buildChoseong()
		idx.postings = buildPostings(idx.choseongVec, policy.IndexStrategy.clampedNgramK())
	case LazyCache:
		idx.materializer = materializer.New(buildChoseong)
		if policy.LazyWarmup == BackgroundWarmup {
			idx.materializer.StartBackgroundBuild()
		}
	}

	if policy.Cache == LruCache {
		capacity := policy.CacheCapacity
		if capacity <= 0 {
			capacity = 256
		}
		idx.queryCache = cache.New[string, []int](capacity)
	}

	return idx
}

func buildPostings(choseongVec []string, k int) map[string][]int {
	postings := make(map[string][]int)
	for i, key := range choseongVec {
		r := []rune(key)
		if len(r) < k {
			continue
		}
		seen := make(map[string]struct{})
		for start := 0; start+k <= len(r); start++ {
			g := string(r[start : start+k])
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			postings[g] = append(postings[g], i)
		}
	}
	for g := range postings {
		sort.Ints(postings[g])
	}
	return postings
}

// Count returns the number of indexed items.
func (idx *Index[T]) Count() int { return len(idx.items) }

// Telemetry returns the index's telemetry recorder.
func (idx *Index[T]) Telemetry() *telemetry.Telemetry { return idx.telemetry }

// RawKey implements ranking.Source.
func (idx *Index[T]) RawKey(i int) string { return idx.rawKeys[i] }

// NormalizedKey implements ranking.Source.
func (idx *Index[T]) NormalizedKey(i int) string { return idx.normalizedKeys[i] }

// ChoseongKey implements ranking.Source, building the lazy vector on
// demand (blocking) if necessary.
func (idx *Index[T]) ChoseongKey(i int) string {
	return idx.choseongKeyVector()[i]
}

func (idx *Index[T]) choseongKeyVector() []string {
	if idx.choseongVec != nil {
		return idx.choseongVec
	}
	return idx.materializer.GetOrBuild()
}

// allIndices returns 0..Count()-1.
func (idx *Index[T]) allIndices() []int {
	out := make([]int, len(idx.items))
	for i := range out {
		out[i] = i
	}
	return out
}

// CandidateIndices implements ranking.Source: Precompute/LazyCache return
// every index; Ngram intersects postings for each distinct k-gram of
// choseongVariant.
func (idx *Index[T]) CandidateIndices(normalizedVariant, choseongVariant string) []int {
	if idx.policy.IndexStrategy.Kind != Ngram {
		return idx.allIndices()
	}
	k := idx.policy.IndexStrategy.clampedNgramK()
	r := []rune(choseongVariant)
	if len(r) < k {
		return idx.allIndices()
	}
	grams := make([]string, 0, len(r)-k+1)
	seen := make(map[string]struct{})
	for start := 0; start+k <= len(r); start++ {
		g := string(r[start : start+k])
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		grams = append(grams, g)
	}
	var result []int
	for i, g := range grams {
		list, ok := idx.postings[g]
		if !ok {
			return nil
		}
		if i == 0 {
			result = append([]int(nil), list...)
			continue
		}
		result = intersectSorted(result, list)
		if len(result) == 0 {
			return nil
		}
	}
	return result
}

func intersectSorted(a, b []int) []int {
	out := make([]int, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
