package choseong_test

import (
	"testing"

	"hangul-fuzzy-search/pkg/choseong"
	"hangul-fuzzy-search/pkg/hangul"
)

func TestExtractSingleSyllableIsInitialConsonant(t *testing.T) {
	for s := rune(hangul.SyllableBase); s <= hangul.SyllableLast; s += 97 {
		l, _, _, ok := hangul.Decompose(s)
		if !ok {
			t.Fatalf("Decompose(%U) reported not ok", s)
		}
		got := choseong.Extract(string(s), choseong.DefaultOptions())
		want := string(hangul.Initials[l])
		if got != want {
			t.Errorf("Extract(%q) = %q, want %q", string(s), got, want)
		}
	}
}

func TestExtractWhitespaceKeep(t *testing.T) {
	opts := choseong.Options{PreserveNonHangul: true, WhitespacePolicy: choseong.WhitespaceKeep}
	got := choseong.Extract("프론트 엔드  입니다", opts)
	want := "ㅍㄹㅌ ㅇㄷ  ㅇㄴㄷ"
	if got != want {
		t.Errorf("Extract(keep) = %q, want %q", got, want)
	}
}

func TestExtractWhitespaceNormalize(t *testing.T) {
	opts := choseong.Options{PreserveNonHangul: true, WhitespacePolicy: choseong.WhitespaceNormalize}
	got := choseong.Extract("프론트 엔드  입니다", opts)
	want := "ㅍㄹㅌ ㅇㄷ ㅇㄴㄷ"
	if got != want {
		t.Errorf("Extract(normalize) = %q, want %q", got, want)
	}
	if got != "" && got[0] == ' ' {
		t.Error("normalized output must not have a leading space")
	}
}

func TestExtractWhitespaceRemove(t *testing.T) {
	opts := choseong.Options{PreserveNonHangul: true, WhitespacePolicy: choseong.WhitespaceRemove}
	got := choseong.Extract("프론트 엔드  입니다", opts)
	want := "ㅍㄹㅌㅇㄷㅇㄴㄷ"
	if got != want {
		t.Errorf("Extract(remove) = %q, want %q", got, want)
	}
}

func TestExtractCompatibilityJamoPassesThrough(t *testing.T) {
	got := choseong.Extract("ㅍㄹㅌ", choseong.DefaultOptions())
	if got != "ㅍㄹㅌ" {
		t.Errorf("Extract(ㅍㄹㅌ) = %q, want ㅍㄹㅌ", got)
	}
}

func TestExtractCompatibilityVowelFollowsPreserveOption(t *testing.T) {
	preserve := choseong.Options{PreserveNonHangul: true, WhitespacePolicy: choseong.WhitespaceNormalize}
	drop := choseong.Options{PreserveNonHangul: false, WhitespacePolicy: choseong.WhitespaceNormalize}

	// U+314F (ㅏ) is a compatibility vowel, not a compatibility consonant:
	// it is not pass-through jamo and must instead obey PreserveNonHangul
	// the same as any other non-Hangul code point.
	if got := choseong.Extract("ㄱㅏ", preserve); got != "ㄱㅏ" {
		t.Errorf("Extract(preserve) = %q, want ㄱㅏ", got)
	}
	if got := choseong.Extract("ㄱㅏ", drop); got != "ㄱ" {
		t.Errorf("Extract(drop) = %q, want ㄱ (compatibility vowel dropped)", got)
	}
}

func TestExtractNonHangulPreserveOption(t *testing.T) {
	preserve := choseong.Options{PreserveNonHangul: true, WhitespacePolicy: choseong.WhitespaceNormalize}
	drop := choseong.Options{PreserveNonHangul: false, WhitespacePolicy: choseong.WhitespaceNormalize}

	if got := choseong.Extract("검색123", preserve); got != "ㄱㅅ123" {
		t.Errorf("Extract(preserve) = %q, want ㄱㅅ123", got)
	}
	if got := choseong.Extract("검색123", drop); got != "ㄱㅅ" {
		t.Errorf("Extract(drop) = %q, want ㄱㅅ", got)
	}
}

func TestNormalizedSearchTokenCaseFoldsAndComposes(t *testing.T) {
	if got := choseong.NormalizedSearchToken("SEARCH"); got != "search" {
		t.Errorf("NormalizedSearchToken(SEARCH) = %q, want search", got)
	}
	// Decomposed (NFD) form of 가 (U+1100 U+1161) should canonical-compose
	// to the same normalized token as the precomposed form.
	decomposed := "가"
	if got, want := choseong.NormalizedSearchToken(decomposed), choseong.NormalizedSearchToken("가"); got != want {
		t.Errorf("NormalizedSearchToken(NFD) = %q, want %q (NFC form)", got, want)
	}
}
