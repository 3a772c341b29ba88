package ranking_test

import (
	"context"
	"testing"

	"hangul-fuzzy-search/pkg/choseong"
	"hangul-fuzzy-search/pkg/ranking"
)

type fakeSource struct {
	raw        []string
	normalized []string
	choseongV  []string
}

func newFakeSource(keys []string) *fakeSource {
	s := &fakeSource{raw: keys, normalized: make([]string, len(keys)), choseongV: make([]string, len(keys))}
	for i, k := range keys {
		s.normalized[i] = choseong.NormalizedSearchToken(k)
		s.choseongV[i] = choseong.Extract(s.normalized[i], choseong.DefaultOptions())
	}
	return s
}

func (s *fakeSource) Count() int                   { return len(s.raw) }
func (s *fakeSource) RawKey(i int) string           { return s.raw[i] }
func (s *fakeSource) NormalizedKey(i int) string    { return s.normalized[i] }
func (s *fakeSource) ChoseongKey(i int) string      { return s.choseongV[i] }
func (s *fakeSource) CandidateIndices(_, _ string) []int {
	out := make([]int, len(s.raw))
	for i := range out {
		out[i] = i
	}
	return out
}

func TestRankOrdersByTotalDescendingThenIndex(t *testing.T) {
	src := newFakeSource([]string{"검색", "검사", "개발", "결제"})
	opts := ranking.DefaultOptions()
	opts.Limit = 10

	results := ranking.Rank(src, "검삭", opts)
	for i := 1; i < len(results); i++ {
		if results[i-1].Breakdown.Total < results[i].Breakdown.Total {
			t.Fatalf("results not sorted by descending total: %+v", results)
		}
	}
}

func TestRankRespectsLimit(t *testing.T) {
	src := newFakeSource([]string{"검색", "검사", "개발", "결제", "검진", "검토", "검출"})
	opts := ranking.DefaultOptions()
	opts.Limit = 2
	results := ranking.Rank(src, "검", opts)
	if len(results) > 2 {
		t.Errorf("Rank returned %d results, want <= 2", len(results))
	}
}

func TestRankContextCancellationReturnsError(t *testing.T) {
	src := newFakeSource([]string{"검색", "검사"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ranking.RankContext(ctx, src, "검색", ranking.DefaultOptions())
	if err == nil {
		t.Error("RankContext with a pre-cancelled context should return an error")
	}
}

func TestRankIsDeterministic(t *testing.T) {
	src := newFakeSource([]string{"검색", "검사", "개발", "결제", "검진"})
	opts := ranking.DefaultOptions()

	first := ranking.Rank(src, "검삭", opts)
	for i := 0; i < 10; i++ {
		again := ranking.Rank(src, "검삭", opts)
		if len(again) != len(first) {
			t.Fatalf("run %d: length mismatch", i)
		}
		for j := range first {
			if again[j].Index != first[j].Index || again[j].Breakdown.Total != first[j].Breakdown.Total {
				t.Errorf("run %d: entry %d differs: %+v vs %+v", i, j, again[j], first[j])
			}
		}
	}
}

func TestExplainRecomputesDetailForWinningVariant(t *testing.T) {
	src := newFakeSource([]string{"검색", "검사"})
	explained := ranking.Explain(src, "검삭", ranking.DefaultOptions())
	if len(explained) == 0 {
		t.Fatal("Explain returned no results")
	}
	for _, e := range explained {
		if len(e.Detail.QueryJamo) == 0 && len(e.Detail.TargetJamo) == 0 {
			t.Errorf("Detail missing jamo decomposition for %+v", e)
		}
	}
}

func TestMinimumScoreFiltersWeakMatches(t *testing.T) {
	src := newFakeSource([]string{"검색", "완전히다른단어"})
	opts := ranking.DefaultOptions()
	opts.MinimumScore = 0.99
	results := ranking.Rank(src, "검색", opts)
	for _, r := range results {
		if r.Breakdown.Total < opts.MinimumScore {
			t.Errorf("result %+v scored below MinimumScore %v", r, opts.MinimumScore)
		}
	}
}
