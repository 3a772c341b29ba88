package ranking

import (
	"hangul-fuzzy-search/pkg/choseong"
	"hangul-fuzzy-search/pkg/similarity"
)

// TrimMultiplier resolves spec's open question between a per-variant trim
// target of limit*6 and an outer-loop target of limit*4: this repo uses a
// single constant, limit*6, both for the trim threshold and for the number
// of entries kept after a trim (recommended value per spec §9). The
// per-variant candidate target is a separate limit*10.
const TrimMultiplier = 6

// Options configures one searchSimilar/explainSimilar call.
type Options struct {
	Limit                    int
	Weights                  similarity.Weights
	NgramSize                int
	CandidateLimitPerVariant int
	IncludeLayoutVariants    bool
	MinimumScore             float64
	ChoseongOptions          choseong.Options
}

// DefaultOptions returns conventional ranking defaults.
func DefaultOptions() Options {
	return Options{
		Limit:                    10,
		Weights:                  similarity.DefaultWeights(),
		NgramSize:                similarity.DefaultNgramSize,
		CandidateLimitPerVariant: 200,
		IncludeLayoutVariants:    true,
		MinimumScore:             0,
		ChoseongOptions:          choseong.DefaultOptions(),
	}
}

func (o Options) sanitized() Options {
	if o.Limit <= 0 {
		o.Limit = 10
	}
	if o.CandidateLimitPerVariant <= 0 {
		o.CandidateLimitPerVariant = 200
	}
	if o.NgramSize < 2 || o.NgramSize > 3 {
		o.NgramSize = similarity.DefaultNgramSize
	}
	if o.MinimumScore < 0 {
		o.MinimumScore = 0
	}
	return o
}

// ScoredIndex is one ranked result: the source position, its winning
// breakdown, and the query variant that produced it.
type ScoredIndex struct {
	Index     int
	Breakdown similarity.Breakdown
	Variant   string
}

// ExplainedIndex is a ScoredIndex with the full scoring detail attached,
// recomputed for the winning variant.
type ExplainedIndex struct {
	ScoredIndex
	Detail similarity.Detail
}
