// Package tuning evaluates and searches similarity weight vectors against
// labeled (query, expectedKey) samples, used by the feedback-driven nightly
// retuning pipeline.
package tuning

import (
	"sort"

	"hangul-fuzzy-search/pkg/choseong"
	"hangul-fuzzy-search/pkg/ranking"
	"hangul-fuzzy-search/pkg/similarity"
)

// Sample is one labeled training example: a query and the raw key of the
// item a real user selected for it.
type Sample struct {
	Query       string
	ExpectedKey string
}

// Metrics summarizes ranking quality over a sample set.
type Metrics struct {
	Top1    float64
	Top3    float64
	MRR     float64
	HitRate float64
}

// Options configures both evaluation and candidate generation.
type Options struct {
	BaseWeights              similarity.Weights
	Limit                    int
	NgramSize                int
	CandidateLimitPerVariant int
	IncludeLayoutVariants    bool
	MinimumScore             float64
	MaxCandidates            int
	LeaderboardSize          int
	Seed                     uint64
}

// DefaultOptions returns conventional tuning defaults.
func DefaultOptions() Options {
	return Options{
		BaseWeights:              similarity.DefaultWeights(),
		Limit:                    10,
		NgramSize:                similarity.DefaultNgramSize,
		CandidateLimitPerVariant: 200,
		IncludeLayoutVariants:    true,
		MaxCandidates:            64,
		LeaderboardSize:          5,
		Seed:                     1,
	}
}

func (o Options) rankingOptions(w similarity.Weights) ranking.Options {
	return ranking.Options{
		Limit:                    o.Limit,
		Weights:                  w,
		NgramSize:                o.NgramSize,
		CandidateLimitPerVariant: o.CandidateLimitPerVariant,
		IncludeLayoutVariants:    o.IncludeLayoutVariants,
		MinimumScore:             o.MinimumScore,
		ChoseongOptions:          choseong.DefaultOptions(),
	}
}

// Evaluate ranks every sample with w and reports top1/top3/mrr/hitRate.
func Evaluate(src ranking.Source, samples []Sample, w similarity.Weights) Metrics {
	return EvaluateWithOptions(src, samples, w, DefaultOptions())
}

// EvaluateWithOptions is Evaluate with full ranking option control.
func EvaluateWithOptions(src ranking.Source, samples []Sample, w similarity.Weights, opts Options) Metrics {
	if len(samples) == 0 {
		return Metrics{}
	}
	ro := opts.rankingOptions(w)

	var top1, top3, mrr, hit float64
	for _, s := range samples {
		results := ranking.Rank(src, s.Query, ro)
		rank := -1
		for i, r := range results {
			if src.RawKey(r.Index) == s.ExpectedKey {
				rank = i
				break
			}
		}
		if rank < 0 {
			continue
		}
		hit++
		mrr += 1.0 / float64(rank+1)
		if rank == 0 {
			top1++
		}
		if rank < 3 {
			top3++
		}
	}
	n := float64(len(samples))
	return Metrics{
		Top1:    top1 / n,
		Top3:    top3 / n,
		MRR:     mrr / n,
		HitRate: hit / n,
	}
}

func objective(m Metrics) float64 {
	return 0.5*m.MRR + 0.35*m.Top1 + 0.15*m.Top3
}

// LeaderboardEntry is one scored candidate weight vector.
type LeaderboardEntry struct {
	Weights similarity.Weights
	Metrics Metrics
}

// Result is the outcome of TuneWeights.
type Result struct {
	BaselineMetrics Metrics
	BestWeights     similarity.Weights
	BestMetrics     Metrics
	Leaderboard     []LeaderboardEntry
}

// TuneWeights evaluates a baseline, generates up to opts.MaxCandidates
// weight-vector variations of opts.BaseWeights, evaluates each, and
// returns the best by objective = 0.5*mrr + 0.35*top1 + 0.15*top3.
func TuneWeights(src ranking.Source, samples []Sample, opts Options) Result {
	baseline := EvaluateWithOptions(src, samples, opts.BaseWeights, opts)

	candidates := generateCandidates(opts)

	entries := make([]LeaderboardEntry, 0, len(candidates))
	for _, w := range candidates {
		m := EvaluateWithOptions(src, samples, w, opts)
		entries = append(entries, LeaderboardEntry{Weights: w, Metrics: m})
	}

	sort.Slice(entries, func(i, j int) bool {
		oi, oj := objective(entries[i].Metrics), objective(entries[j].Metrics)
		if oi != oj {
			return oi > oj
		}
		if entries[i].Metrics.MRR != entries[j].Metrics.MRR {
			return entries[i].Metrics.MRR > entries[j].Metrics.MRR
		}
		if entries[i].Metrics.Top1 != entries[j].Metrics.Top1 {
			return entries[i].Metrics.Top1 > entries[j].Metrics.Top1
		}
		return entries[i].Metrics.Top3 > entries[j].Metrics.Top3
	})

	leaderboardSize := opts.LeaderboardSize
	if leaderboardSize <= 0 || leaderboardSize > len(entries) {
		leaderboardSize = len(entries)
	}

	result := Result{BaselineMetrics: baseline, Leaderboard: entries[:leaderboardSize]}
	if len(entries) > 0 {
		result.BestWeights = entries[0].Weights
		result.BestMetrics = entries[0].Metrics
	} else {
		result.BestWeights = opts.BaseWeights
		result.BestMetrics = baseline
	}
	return result
}

var coreFactors = []float64{0.65, 0.8, 1.0, 1.2, 1.35}
var bonusFactors = []float64{0.5, 0.8, 1.0, 1.2, 1.5}

func generateCandidates(opts Options) []similarity.Weights {
	base := opts.BaseWeights.Clamp()
	seen := make(map[[6]int64]struct{})
	out := make([]similarity.Weights, 0, opts.MaxCandidates)

	add := func(w similarity.Weights) bool {
		w = w.Clamp()
		fp := w.Fingerprint()
		if _, ok := seen[fp]; ok {
			return false
		}
		seen[fp] = struct{}{}
		out = append(out, w)
		return len(out) >= opts.MaxCandidates
	}

	if add(base) {
		return out
	}

	type coreField struct {
		get func(similarity.Weights) float64
		set func(*similarity.Weights, float64)
	}
	coreFields := []coreField{
		{func(w similarity.Weights) float64 { return w.EditDistance }, func(w *similarity.Weights, v float64) { w.EditDistance = v }},
		{func(w similarity.Weights) float64 { return w.Jaccard }, func(w *similarity.Weights, v float64) { w.Jaccard = v }},
		{func(w similarity.Weights) float64 { return w.Keyboard }, func(w *similarity.Weights, v float64) { w.Keyboard = v }},
		{func(w similarity.Weights) float64 { return w.Jamo }, func(w *similarity.Weights, v float64) { w.Jamo = v }},
	}

	for _, factor := range coreFactors {
		for _, f := range coreFields {
			w := base
			f.set(&w, f.get(base)*factor)
			if add(w) {
				return out
			}
		}
		w := base
		w.EditDistance *= factor
		w.Jaccard *= factor
		w.Keyboard *= factor
		w.Jamo *= factor
		if add(w) {
			return out
		}
	}

	bonusFields := []coreField{
		{func(w similarity.Weights) float64 { return w.Exact }, func(w *similarity.Weights, v float64) { w.Exact = v }},
		{func(w similarity.Weights) float64 { return w.Prefix }, func(w *similarity.Weights, v float64) { w.Prefix = v }},
	}
	for _, factor := range bonusFactors {
		for _, f := range bonusFields {
			w := base
			f.set(&w, f.get(base)*factor)
			if add(w) {
				return out
			}
		}
		w := base
		w.Exact *= factor
		w.Prefix *= factor
		if add(w) {
			return out
		}
	}

	rng := newLCG(opts.Seed)
	for len(out) < opts.MaxCandidates {
		w := base
		w.EditDistance *= 0.5 + rng.float64()*1.0
		w.Jaccard *= 0.5 + rng.float64()*1.0
		w.Keyboard *= 0.5 + rng.float64()*1.0
		w.Jamo *= 0.5 + rng.float64()*1.0
		w.Exact *= 0.2 + rng.float64()*1.8
		w.Prefix *= 0.2 + rng.float64()*1.8
		if add(w) {
			break
		}
		if rng.exhausted() {
			break
		}
	}
	return out
}

// lcg is a deterministic 64-bit linear congruential generator (PCG
// multiplier/increment), used so weight-tuning candidate generation is
// bytewise-reproducible for a fixed seed.
type lcg struct {
	state uint64
	calls int
}

func newLCG(seed uint64) *lcg {
	if seed == 0 {
		seed = 0x9E3779B97F4A7C15
	}
	return &lcg{state: seed}
}

func (g *lcg) next() uint64 {
	g.state = g.state*6364136223846793005 + 1442695040888963407
	g.calls++
	return g.state
}

func (g *lcg) float64() float64 {
	return float64(g.next()>>11) / float64(1<<53)
}

// exhausted guards against an unreasonably long random search when every
// draw keeps colliding with an already-seen fingerprint.
func (g *lcg) exhausted() bool {
	return g.calls > 100000
}
