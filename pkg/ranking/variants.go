package ranking

import (
	"hangul-fuzzy-search/pkg/choseong"
	"hangul-fuzzy-search/pkg/layout"
)

// GenerateVariants returns the query rewrites the pipeline scores against,
// in declared order: the normalized query first, then (if
// includeLayoutVariants) its QWERTY->Hangul and Hangul->QWERTY rewrites,
// deduplicated preserving first-seen order.
func GenerateVariants(query string, includeLayoutVariants bool) []string {
	normalized := choseong.NormalizedSearchToken(query)

	candidates := make([]string, 0, 3)
	candidates = append(candidates, normalized)
	if includeLayoutVariants {
		candidates = append(candidates,
			choseong.NormalizedSearchToken(layout.ToHangul(normalized)),
			choseong.NormalizedSearchToken(layout.ToQwerty(normalized)),
		)
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
