package similarity_test

import (
	"testing"

	"hangul-fuzzy-search/pkg/choseong"
	"hangul-fuzzy-search/pkg/similarity"
)

func projectChoseong(s string) string {
	return choseong.Extract(choseong.NormalizedSearchToken(s), choseong.DefaultOptions())
}

func TestExplainExactMatchScoresOne(t *testing.T) {
	w := similarity.DefaultWeights()
	b, _ := similarity.Explain("검색", "검색", projectChoseong("검색"), projectChoseong("검색"), w, 2)
	if b.ExactBonus != w.Exact {
		t.Errorf("ExactBonus = %v, want %v", b.ExactBonus, w.Exact)
	}
	if b.PrefixBonus != 0 {
		t.Errorf("PrefixBonus = %v, want 0 (exact already matched)", b.PrefixBonus)
	}
	if b.Total != 1.0 {
		t.Errorf("Total = %v, want 1.0 for identical strings", b.Total)
	}
}

func TestExplainPrefixMatchGetsBonusWithoutExact(t *testing.T) {
	w := similarity.DefaultWeights()
	b, _ := similarity.Explain("검", "검색", projectChoseong("검"), projectChoseong("검색"), w, 2)
	if b.ExactBonus != 0 {
		t.Errorf("ExactBonus = %v, want 0", b.ExactBonus)
	}
	if b.PrefixBonus != w.Prefix {
		t.Errorf("PrefixBonus = %v, want %v", b.PrefixBonus, w.Prefix)
	}
}

func TestExplainTotalIsClippedAndConsistent(t *testing.T) {
	w := similarity.DefaultWeights()
	pairs := [][2]string{
		{"검색", "검삭"},
		{"프론트엔드", "백엔드"},
		{"search", "season"},
		{"", "검색"},
		{"검색", ""},
	}
	for _, p := range pairs {
		b, _ := similarity.Explain(p[0], p[1], projectChoseong(p[0]), projectChoseong(p[1]), w, 2)
		if b.Total < 0 || b.Total > 1 {
			t.Errorf("Explain(%q,%q).Total = %v, out of [0,1]", p[0], p[1], b.Total)
		}
		want := clamp01(b.WeightedCore + b.ExactBonus + b.PrefixBonus)
		if b.Total != want {
			t.Errorf("Explain(%q,%q).Total = %v, want clip(weightedCore+bonuses) = %v", p[0], p[1], b.Total, want)
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func TestExplainTyposScoreHighButBelowExact(t *testing.T) {
	w := similarity.DefaultWeights()
	exact, _ := similarity.Explain("검색", "검색", projectChoseong("검색"), projectChoseong("검색"), w, 2)
	typo, _ := similarity.Explain("검삭", "검색", projectChoseong("검삭"), projectChoseong("검색"), w, 2)
	if typo.Total >= exact.Total {
		t.Errorf("typo score %v should be lower than exact score %v", typo.Total, exact.Total)
	}
	if typo.Total <= 0.4 {
		t.Errorf("typo score %v should still be reasonably high for a single jamo slip", typo.Total)
	}
}

func TestCoarseSimilarityZeroWithNoOverlap(t *testing.T) {
	got := similarity.CoarseSimilarity("abc", "ㅁㅁㅁ", "xyz", "ㅂㅂㅂ")
	if got != 0 {
		t.Errorf("CoarseSimilarity with no overlap = %v, want 0", got)
	}
}

func TestCoarseSimilarityPositiveWithSharedCharacters(t *testing.T) {
	qc := projectChoseong("검색")
	kc := projectChoseong("검사")
	got := similarity.CoarseSimilarity("검색", qc, "검사", kc)
	if got <= 0 {
		t.Errorf("CoarseSimilarity(검색,검사) = %v, want > 0", got)
	}
}

func TestWeightsClampEnforcesDomain(t *testing.T) {
	w := similarity.Weights{EditDistance: 10, Jaccard: -5, Keyboard: 0.8, Jamo: 1, Exact: 5, Prefix: -1}
	clamped := w.Clamp()
	if clamped.EditDistance != 2.0 {
		t.Errorf("EditDistance clamped = %v, want 2.0", clamped.EditDistance)
	}
	if clamped.Jaccard != 0.01 {
		t.Errorf("Jaccard clamped = %v, want 0.01", clamped.Jaccard)
	}
	if clamped.Exact != 0.5 {
		t.Errorf("Exact clamped = %v, want 0.5", clamped.Exact)
	}
	if clamped.Prefix != 0 {
		t.Errorf("Prefix clamped = %v, want 0", clamped.Prefix)
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	w := similarity.DefaultWeights()
	if w.Fingerprint() != w.Fingerprint() {
		t.Error("Fingerprint should be deterministic for the same weights")
	}
	other := w
	other.Exact += 0.001
	if w.Fingerprint() == other.Fingerprint() {
		t.Error("Fingerprint should differ when a weight changes by more than 4 decimal places")
	}
}
