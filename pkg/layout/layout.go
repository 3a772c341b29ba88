// Package layout converts between Korean jamo and the Latin keys a 2-set
// Korean keyboard maps them to, and scores keyboard-proximity substitution
// cost for the similarity scorer.
package layout

import (
	"strings"
	"unicode"

	"hangul-fuzzy-search/pkg/hangul"
)

// jamoToKey and keyToJamo are the two-set Korean keyboard tables: every
// base (non-compound) jamo has exactly one Latin key, and shifted keys
// produce the tense consonants.
var jamoToKey = map[rune]rune{
	'ㅂ': 'q', 'ㅈ': 'w', 'ㄷ': 'e', 'ㄱ': 'r', 'ㅅ': 't',
	'ㅛ': 'y', 'ㅕ': 'u', 'ㅑ': 'i', 'ㅐ': 'o', 'ㅔ': 'p',
	'ㅁ': 'a', 'ㄴ': 's', 'ㅇ': 'd', 'ㄹ': 'f', 'ㅎ': 'g',
	'ㅗ': 'h', 'ㅓ': 'j', 'ㅏ': 'k', 'ㅣ': 'l',
	'ㅋ': 'z', 'ㅌ': 'x', 'ㅊ': 'c', 'ㅍ': 'v', 'ㅠ': 'b', 'ㅜ': 'n', 'ㅡ': 'm',
	'ㅃ': 'Q', 'ㅉ': 'W', 'ㄸ': 'E', 'ㄲ': 'R', 'ㅆ': 'T', 'ㅒ': 'O', 'ㅖ': 'P',
}

var keyToJamo = invertKeys(jamoToKey)

func invertKeys(m map[rune]rune) map[rune]rune {
	out := make(map[rune]rune, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// ToHangul converts a string typed on a QWERTY layout into the Hangul it
// would assemble to on a 2-set Korean keyboard. Latin letters not in the
// table and other non-jamo runes pass through unchanged; compatibility
// jamo already present in s are assembled together with the mapped ones.
func ToHangul(s string) string {
	a := hangul.NewAssembler()
	for _, r := range s {
		if jamo, ok := keyToJamo[r]; ok {
			a.Feed(jamo)
			continue
		}
		a.Feed(r)
	}
	return a.String()
}

// ToQwerty converts a Hangul string into the QWERTY keystrokes that would
// produce it on a 2-set Korean keyboard. Non-Hangul runes pass through
// unchanged.
func ToQwerty(s string) string {
	var b strings.Builder
	for _, jamo := range hangul.Disassemble(s) {
		if key, ok := jamoToKey[jamo]; ok {
			b.WriteRune(key)
			continue
		}
		b.WriteRune(jamo)
	}
	return b.String()
}

// keyboardRows is the fixed 3-row QWERTY geometry with per-row horizontal
// offsets, used to compute Manhattan keyboard distance.
var keyboardRows = []struct {
	keys   string
	offset float64
}{
	{"qwertyuiop", 0.0},
	{"asdfghjkl", 0.2},
	{"zxcvbnm", 0.6},
}

type point struct{ x, y float64 }

var keyPosition = buildKeyPositions()

func buildKeyPositions() map[rune]point {
	out := make(map[rune]point)
	for row, r := range keyboardRows {
		for col, k := range r.keys {
			out[k] = point{x: r.offset + float64(col), y: float64(row)}
		}
	}
	return out
}

// HasKey reports whether r (lowercased) has a position on the keyboard.
func HasKey(r rune) bool {
	_, ok := keyPosition[unicode.ToLower(r)]
	return ok
}

// SubstitutionCost returns the keyboard-proximity substitution cost between
// two Latin keys per spec §4.3: 0 identical, 0.35 within Manhattan distance
// 1, 0.65 within 2, else 1.0. Keys not on the table cost 1.0 unless equal.
func SubstitutionCost(a, b rune) float64 {
	a, b = unicode.ToLower(a), unicode.ToLower(b)
	if a == b {
		return 0
	}
	pa, okA := keyPosition[a]
	pb, okB := keyPosition[b]
	if !okA || !okB {
		return 1.0
	}
	dist := manhattan(pa, pb)
	switch {
	case dist <= 1:
		return 0.35
	case dist <= 2:
		return 0.65
	default:
		return 1.0
	}
}

func manhattan(a, b point) float64 {
	dx := a.x - b.x
	if dx < 0 {
		dx = -dx
	}
	dy := a.y - b.y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
