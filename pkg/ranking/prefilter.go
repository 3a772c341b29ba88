package ranking

import (
	"sort"
	"strings"

	"hangul-fuzzy-search/pkg/similarity"
)

type prefilterEntry struct {
	index  int
	coarse float64
}

// prefilter classifies base into "strong" (structural match) and "coarse"
// (positive heuristic score) candidates and returns up to target indices:
// all strong first (sorted by key length asc, then index asc), then
// coarse top-up (sorted by coarse score desc, then index asc). If neither
// set has entries, it falls back to the first `limit` of base.
func prefilter(src Source, base []int, variant, variantChoseong string, target, limit int) ([]int, map[int]bool) {
	strongSet := make(map[int]bool)
	var strong []prefilterEntry
	var coarse []prefilterEntry

	for _, idx := range base {
		raw := src.NormalizedKey(idx)
		ck := src.ChoseongKey(idx)
		if isStrongMatch(variant, variantChoseong, raw, ck) {
			strong = append(strong, prefilterEntry{index: idx})
			strongSet[idx] = true
			continue
		}
		score := similarity.CoarseSimilarity(variant, variantChoseong, raw, ck)
		if score > 0 {
			coarse = append(coarse, prefilterEntry{index: idx, coarse: score})
		}
	}

	if len(strong) == 0 && len(coarse) == 0 {
		n := limit
		if n > len(base) {
			n = len(base)
		}
		out := make([]int, n)
		copy(out, base[:n])
		return out, strongSet
	}

	sort.Slice(strong, func(i, j int) bool {
		li, lj := len(src.NormalizedKey(strong[i].index)), len(src.NormalizedKey(strong[j].index))
		if li != lj {
			return li < lj
		}
		return strong[i].index < strong[j].index
	})
	sort.Slice(coarse, func(i, j int) bool {
		if coarse[i].coarse != coarse[j].coarse {
			return coarse[i].coarse > coarse[j].coarse
		}
		return coarse[i].index < coarse[j].index
	})

	out := make([]int, 0, target)
	for _, e := range strong {
		if len(out) >= target {
			break
		}
		out = append(out, e.index)
	}
	for _, e := range coarse {
		if len(out) >= target {
			break
		}
		out = append(out, e.index)
	}
	return out, strongSet
}

// isStrongMatch reports whether the normalized query variant structurally
// matches a candidate's raw or choseong key (equals, prefix, or contains).
func isStrongMatch(variant, variantChoseong, rawKey, choseongKey string) bool {
	if variant == "" {
		return false
	}
	if rawKey == variant || strings.HasPrefix(rawKey, variant) || strings.Contains(rawKey, variant) {
		return true
	}
	if variantChoseong != "" && choseongKey != "" {
		if choseongKey == variantChoseong || strings.HasPrefix(choseongKey, variantChoseong) || strings.Contains(choseongKey, variantChoseong) {
			return true
		}
	}
	return false
}
