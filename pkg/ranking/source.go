// Package ranking implements the candidate-prefilter -> parallel-score ->
// top-K aggregation pipeline that powers searchSimilar/explainSimilar,
// independent of the concrete item type the caller's index stores.
package ranking

// Source is the minimal read-only view over an indexed collection the
// ranking pipeline needs. A concrete *searchindex.Index[T] implements this
// without ever exposing T to the ranking package, which only ever deals in
// integer positions.
type Source interface {
	// Count returns the number of indexed items.
	Count() int
	// RawKey returns the original (non-normalized) key at position i.
	RawKey(i int) string
	// NormalizedKey returns the canonical-composed, case-folded key at
	// position i.
	NormalizedKey(i int) string
	// ChoseongKey returns the choseong projection of the key at position
	// i, materializing it on demand if the index's strategy is lazy.
	ChoseongKey(i int) string
	// CandidateIndices returns the base candidate set for a query variant
	// already normalized/choseong-projected by the caller. Precompute and
	// LazyCache strategies return every index (0..Count()-1); Ngram
	// strategies intersect postings.
	CandidateIndices(normalizedVariant, choseongVariant string) []int
}
