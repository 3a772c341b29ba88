package ranking

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"hangul-fuzzy-search/pkg/choseong"
	"hangul-fuzzy-search/pkg/similarity"
)

// parallelAdmissionFactor is the "candidates >= 256*workers" admission
// threshold from spec §5.
const parallelAdmissionFactor = 256

// scoreCheckpoint is the scoring-batch cancellation checkpoint interval
// from spec §5 ("between scoring batches every 32 entries").
const scoreCheckpoint = 32

type aggregate struct {
	breakdown similarity.Breakdown
	variant   string
}

// Rank runs the full searchSimilar pipeline synchronously (not
// cancellable) and may score candidates in parallel across a worker pool
// when the candidate count justifies it.
func Rank(src Source, query string, opts Options) []ScoredIndex {
	results, _ := rank(context.Background(), src, query, opts, false)
	return results
}

// RankContext runs the pipeline cooperatively cancellable: it polls ctx
// before each variant, before candidate scanning, and between scoring
// batches. It returns ctx.Err() (non-nil) if cancelled before completion.
func RankContext(ctx context.Context, src Source, query string, opts Options) ([]ScoredIndex, error) {
	results, cancelled := rank(ctx, src, query, opts, true)
	if cancelled {
		return nil, ctx.Err()
	}
	return results, nil
}

func rank(ctx context.Context, src Source, query string, opts Options, cancellable bool) ([]ScoredIndex, bool) {
	opts = opts.sanitized()

	if cancellable && ctxDone(ctx) {
		return nil, true
	}

	variants := GenerateVariants(query, opts.IncludeLayoutVariants)
	best := make(map[int]aggregate)
	gate := opts.MinimumScore

	trimCeiling := opts.Limit * TrimMultiplier
	if trimCeiling < 256 {
		trimCeiling = 256
	}

	for _, variant := range variants {
		if cancellable && ctxDone(ctx) {
			return nil, true
		}

		variantChoseong := choseong.Extract(variant, opts.ChoseongOptions)
		base := src.CandidateIndices(variant, variantChoseong)

		target := opts.CandidateLimitPerVariant
		if t := opts.Limit * 10; t > target {
			target = t
		}

		var candidates []int
		var strongSet map[int]bool
		if len(base) > target {
			candidates, strongSet = prefilter(src, base, variant, variantChoseong, target, opts.Limit)
		} else {
			candidates = base
			strongSet = nil
		}

		coarseCutoff := gate * 0.6
		if coarseCutoff < 0.05 {
			coarseCutoff = 0.05
		}

		scored, cancelled := scoreCandidates(ctx, src, candidates, strongSet, variant, variantChoseong, opts, gate, coarseCutoff, cancellable)
		if cancelled {
			return nil, true
		}

		for _, s := range scored {
			existing, ok := best[s.Index]
			if !ok || s.Breakdown.Total > existing.breakdown.Total {
				best[s.Index] = aggregate{breakdown: s.Breakdown, variant: variant}
			}
		}

		if len(best) > trimCeiling {
			best = trimBest(best, opts.Limit*TrimMultiplier)
		}
		if newGate, ok := kthHighest(best, opts.Limit); ok && newGate > gate {
			gate = newGate
		}
	}

	out := make([]ScoredIndex, 0, len(best))
	for idx, agg := range best {
		out = append(out, ScoredIndex{Index: idx, Breakdown: agg.breakdown, Variant: agg.variant})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Breakdown.Total != out[j].Breakdown.Total {
			return out[i].Breakdown.Total > out[j].Breakdown.Total
		}
		return out[i].Index < out[j].Index
	})
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, false
}

// Explain re-ranks query and recomputes full Detail for every surviving
// result, for explainSimilar.
func Explain(src Source, query string, opts Options) []ExplainedIndex {
	scored := Rank(src, query, opts)
	return explainScored(src, scored, opts)
}

// ExplainContext is the cancellable counterpart of Explain.
func ExplainContext(ctx context.Context, src Source, query string, opts Options) ([]ExplainedIndex, error) {
	scored, err := RankContext(ctx, src, query, opts)
	if err != nil {
		return nil, err
	}
	return explainScored(src, scored, opts), nil
}

func explainScored(src Source, scored []ScoredIndex, opts Options) []ExplainedIndex {
	out := make([]ExplainedIndex, 0, len(scored))
	for _, s := range scored {
		variantChoseong := choseong.Extract(s.Variant, opts.ChoseongOptions)
		_, detail := similarity.Explain(s.Variant, src.NormalizedKey(s.Index), variantChoseong, src.ChoseongKey(s.Index), opts.Weights, opts.NgramSize)
		out = append(out, ExplainedIndex{ScoredIndex: s, Detail: detail})
	}
	return out
}

func trimBest(best map[int]aggregate, keep int) map[int]aggregate {
	type kv struct {
		idx int
		agg aggregate
	}
	all := make([]kv, 0, len(best))
	for idx, agg := range best {
		all = append(all, kv{idx, agg})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].agg.breakdown.Total != all[j].agg.breakdown.Total {
			return all[i].agg.breakdown.Total > all[j].agg.breakdown.Total
		}
		return all[i].idx < all[j].idx
	})
	if keep > len(all) {
		keep = len(all)
	}
	out := make(map[int]aggregate, keep)
	for _, e := range all[:keep] {
		out[e.idx] = e.agg
	}
	return out
}

func kthHighest(best map[int]aggregate, k int) (float64, bool) {
	if k <= 0 || len(best) < k {
		return 0, false
	}
	totals := make([]float64, 0, len(best))
	for _, agg := range best {
		totals = append(totals, agg.breakdown.Total)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(totals)))
	return totals[k-1], true
}

func ctxDone(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func scoreCandidates(ctx context.Context, src Source, candidates []int, strongSet map[int]bool, query, queryChoseong string, opts Options, gate, coarseCutoff float64, cancellable bool) ([]ScoredIndex, bool) {
	workers := runtime.GOMAXPROCS(0)
	if !cancellable && len(candidates) >= parallelAdmissionFactor*workers && workers > 1 {
		return scoreParallel(src, candidates, strongSet, query, queryChoseong, opts, gate, coarseCutoff, workers), false
	}
	return scoreSerial(ctx, src, candidates, strongSet, query, queryChoseong, opts, gate, coarseCutoff, cancellable)
}

func scoreOne(src Source, idx int, strongSet map[int]bool, query, queryChoseong string, opts Options, gate, coarseCutoff float64) (ScoredIndex, bool) {
	if strongSet != nil && !strongSet[idx] {
		rawKey := src.NormalizedKey(idx)
		ck := src.ChoseongKey(idx)
		if similarity.CoarseSimilarity(query, queryChoseong, rawKey, ck) < coarseCutoff {
			return ScoredIndex{}, false
		}
	}
	breakdown, _ := similarity.Explain(query, src.NormalizedKey(idx), queryChoseong, src.ChoseongKey(idx), opts.Weights, opts.NgramSize)
	if breakdown.Total < opts.MinimumScore || breakdown.Total < gate {
		return ScoredIndex{}, false
	}
	return ScoredIndex{Index: idx, Breakdown: breakdown}, true
}

func scoreSerial(ctx context.Context, src Source, candidates []int, strongSet map[int]bool, query, queryChoseong string, opts Options, gate, coarseCutoff float64, cancellable bool) ([]ScoredIndex, bool) {
	out := make([]ScoredIndex, 0, len(candidates))
	for i, idx := range candidates {
		if cancellable && i%scoreCheckpoint == 0 && ctxDone(ctx) {
			return nil, true
		}
		if s, ok := scoreOne(src, idx, strongSet, query, queryChoseong, opts, gate, coarseCutoff); ok {
			out = append(out, s)
		}
	}
	return out, false
}

func scoreParallel(src Source, candidates []int, strongSet map[int]bool, query, queryChoseong string, opts Options, gate, coarseCutoff float64, workers int) []ScoredIndex {
	chunk := (len(candidates) + workers - 1) / workers
	var mu sync.Mutex
	var out []ScoredIndex
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= len(candidates) {
			break
		}
		end := start + chunk
		if end > len(candidates) {
			end = len(candidates)
		}
		wg.Add(1)
		go func(slice []int) {
			defer wg.Done()
			local := make([]ScoredIndex, 0, len(slice))
			for _, idx := range slice {
				if s, ok := scoreOne(src, idx, strongSet, query, queryChoseong, opts, gate, coarseCutoff); ok {
					local = append(local, s)
				}
			}
			mu.Lock()
			out = append(out, local...)
			mu.Unlock()
		}(candidates[start:end])
	}
	wg.Wait()
	return out
}
