package searchindex

import (
	"context"
	"strings"
	"time"

	"hangul-fuzzy-search/pkg/choseong"
	"hangul-fuzzy-search/pkg/telemetry"
)

// boundedChoseongQuery truncates q to MaxQueryLength characters (if set)
// then projects it to choseong; it never fails.
func (idx *Index[T]) boundedChoseongQuery(q string) string {
	normalized := choseong.NormalizedSearchToken(q)
	if idx.policy.MaxQueryLength > 0 {
		r := []rune(normalized)
		if len(r) > idx.policy.MaxQueryLength {
			normalized = string(r[:idx.policy.MaxQueryLength])
		}
	}
	return choseong.Extract(normalized, idx.policy.ChoseongOptions)
}

func (idx *Index[T]) cacheKey(mode Mode, normalizedQuery string) string {
	var b strings.Builder
	b.WriteString(mode.String())
	b.WriteByte('|')
	b.WriteString(normalizedQuery)
	return b.String()
}

// Search performs a synchronous contains/prefix/exact query against the
// choseong projection of every key. It never fails: an empty or oversize
// query degrades to truncation/empty results rather than an error.
func (idx *Index[T]) Search(query string, mode Mode) []T {
	start := time.Now()
	indices := idx.search(query, mode)
	idx.telemetry.RecordSuccess(telemetry.SyncSearch, time.Since(start), len(indices))
	return idx.materialize(indices)
}

// SearchContext is the cancellable counterpart of Search. Cancellation is
// polled every 16 candidates scanned and at each phase boundary, and never
// leaks a partial result into the query cache or the lazy materializer.
func (idx *Index[T]) SearchContext(ctx context.Context, query string, mode Mode) ([]T, error) {
	start := time.Now()
	if ctxDone(ctx) {
		idx.telemetry.RecordCancelled(telemetry.AsyncSearch, time.Since(start))
		return nil, ctx.Err()
	}

	choseongQuery := idx.boundedChoseongQuery(query)
	if choseongQuery == "" {
		idx.telemetry.RecordSuccess(telemetry.AsyncSearch, time.Since(start), 0)
		return nil, nil
	}

	if ctxDone(ctx) {
		idx.telemetry.RecordCancelled(telemetry.AsyncSearch, time.Since(start))
		return nil, ctx.Err()
	}

	key := idx.cacheKey(mode, choseongQuery)
	if idx.queryCache != nil {
		if cached, ok := idx.queryCache.Get(key); ok {
			idx.telemetry.RecordCacheHit()
			idx.telemetry.RecordSuccess(telemetry.AsyncSearch, time.Since(start), len(cached))
			return idx.materialize(cached), nil
		}
	}

	candidates := idx.boundedCandidates(choseongQuery)

	choseongKeys, ok := idx.choseongKeysForScan(ctx, candidates)
	if !ok {
		idx.telemetry.RecordCancelled(telemetry.AsyncSearch, time.Since(start))
		return nil, ctx.Err()
	}

	matched := make([]int, 0, len(candidates))
	for i, c := range candidates {
		if i%16 == 0 && ctxDone(ctx) {
			idx.telemetry.RecordCancelled(telemetry.AsyncSearch, time.Since(start))
			return nil, ctx.Err()
		}
		if mode.matches(choseongKeys[c], choseongQuery) {
			matched = append(matched, c)
		}
	}

	if idx.queryCache != nil {
		idx.queryCache.Set(key, matched)
	}
	idx.telemetry.RecordSuccess(telemetry.AsyncSearch, time.Since(start), len(matched))
	return idx.materialize(matched), nil
}

func (idx *Index[T]) search(query string, mode Mode) []int {
	choseongQuery := idx.boundedChoseongQuery(query)
	if choseongQuery == "" {
		return nil
	}

	key := idx.cacheKey(mode, choseongQuery)
	if idx.queryCache != nil {
		if cached, ok := idx.queryCache.Get(key); ok {
			idx.telemetry.RecordCacheHit()
			return cached
		}
	}

	candidates := idx.boundedCandidates(choseongQuery)
	choseongKeys := idx.choseongKeyVector()

	matched := make([]int, 0, len(candidates))
	for _, c := range candidates {
		if mode.matches(choseongKeys[c], choseongQuery) {
			matched = append(matched, c)
		}
	}

	if idx.queryCache != nil {
		idx.queryCache.Set(key, matched)
	}
	return matched
}

// boundedCandidates computes the candidate set for a choseong-projected
// query (via the configured strategy) and applies MaxCandidateScan.
func (idx *Index[T]) boundedCandidates(choseongQuery string) []int {
	var candidates []int
	if idx.policy.IndexStrategy.Kind == Ngram {
		candidates = idx.CandidateIndices("", choseongQuery)
	} else {
		candidates = idx.allIndices()
	}
	if idx.policy.MaxCandidateScan > 0 && len(candidates) > idx.policy.MaxCandidateScan {
		candidates = candidates[:idx.policy.MaxCandidateScan]
	}
	return candidates
}

// choseongKeysForScan resolves the choseong key vector for the async path:
// if the LazyCache strategy hasn't finished a background build, it builds
// progressively over just the candidate subset, polling ctx every 16
// entries, and commits the full vector via StoreBuiltValueIfNeeded only if
// it ends up covering every item (i.e. the candidate subset was the whole
// collection).
func (idx *Index[T]) choseongKeysForScan(ctx context.Context, candidates []int) ([]string, bool) {
	if idx.choseongVec != nil {
		return idx.choseongVec, true
	}
	if ready, ok := idx.materializer.ReadyValue(); ok {
		return ready, true
	}

	partial := make([]string, len(idx.items))
	for i, c := range candidates {
		if i%16 == 0 && ctxDone(ctx) {
			return nil, false
		}
		partial[c] = choseong.Extract(idx.normalizedKeys[c], idx.policy.ChoseongOptions)
	}
	if len(candidates) == len(idx.items) {
		idx.materializer.StoreBuiltValueIfNeeded(partial)
	}
	return partial, true
}

func (idx *Index[T]) materialize(indices []int) []T {
	out := make([]T, len(indices))
	for i, idxPos := range indices {
		out[i] = idx.items[idxPos]
	}
	return out
}

func ctxDone(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
