// Package hangul implements the arithmetic Unicode codec between precomposed
// Hangul syllables and their (initial, medial, final) jamo index triples,
// plus the static jamo tables and compound-vowel/compound-final maps the
// rest of the search engine builds on.
package hangul

const (
	// SyllableBase is the first code point of the modern Hangul syllable
	// block.
	SyllableBase = 0xAC00
	// SyllableLast is the last code point of the modern Hangul syllable
	// block.
	SyllableLast = 0xD7A3

	initialCount = 19
	medialCount  = 21
	finalCount   = 28
)

// Initials holds the 19 leading consonants (choseong) in index order.
var Initials = [initialCount]rune{
	'ㄱ', 'ㄲ', 'ㄴ', 'ㄷ', 'ㄸ', 'ㄹ', 'ㅁ', 'ㅂ', 'ㅃ', 'ㅅ',
	'ㅆ', 'ㅇ', 'ㅈ', 'ㅉ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

// Medials holds the 21 vowels (jungseong) in index order.
var Medials = [medialCount]rune{
	'ㅏ', 'ㅐ', 'ㅑ', 'ㅒ', 'ㅓ', 'ㅔ', 'ㅕ', 'ㅖ', 'ㅗ', 'ㅘ',
	'ㅙ', 'ㅚ', 'ㅛ', 'ㅜ', 'ㅝ', 'ㅞ', 'ㅟ', 'ㅠ', 'ㅡ', 'ㅢ', 'ㅣ',
}

// Finals holds the 28 trailing consonants (jongseong) in index order;
// index 0 is "no final".
var Finals = [finalCount]rune{
	0, 'ㄱ', 'ㄲ', 'ㄳ', 'ㄴ', 'ㄵ', 'ㄶ', 'ㄷ', 'ㄹ', 'ㄺ',
	'ㄻ', 'ㄼ', 'ㄽ', 'ㄾ', 'ㄿ', 'ㅀ', 'ㅁ', 'ㅂ', 'ㅄ', 'ㅅ',
	'ㅆ', 'ㅇ', 'ㅈ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

// CompoundVowel decomposes a compound medial vowel into its two parts.
// Declared only for the seven vowels that are actually compounds (e.g. ㅘ).
var CompoundVowel = map[rune][2]rune{
	'ㅘ': {'ㅗ', 'ㅏ'},
	'ㅙ': {'ㅗ', 'ㅐ'},
	'ㅚ': {'ㅗ', 'ㅣ'},
	'ㅝ': {'ㅜ', 'ㅓ'},
	'ㅞ': {'ㅜ', 'ㅔ'},
	'ㅟ': {'ㅜ', 'ㅣ'},
	'ㅢ': {'ㅡ', 'ㅣ'},
}

// CompoundFinal decomposes a compound trailing consonant into its two parts
// (e.g. ㄳ = ㄱ + ㅅ).
var CompoundFinal = map[rune][2]rune{
	'ㄳ': {'ㄱ', 'ㅅ'},
	'ㄵ': {'ㄴ', 'ㅈ'},
	'ㄶ': {'ㄴ', 'ㅎ'},
	'ㄺ': {'ㄹ', 'ㄱ'},
	'ㄻ': {'ㄹ', 'ㅁ'},
	'ㄼ': {'ㄹ', 'ㅂ'},
	'ㄽ': {'ㄹ', 'ㅅ'},
	'ㄾ': {'ㄹ', 'ㅌ'},
	'ㄿ': {'ㄹ', 'ㅍ'},
	'ㅀ': {'ㄹ', 'ㅎ'},
	'ㅄ': {'ㅂ', 'ㅅ'},
}

var (
	composeVowel = invert2(CompoundVowel)
	composeFinal = invert2(CompoundFinal)

	initialIndex = indexOf(Initials[:])
	medialIndex  = indexOf(Medials[:])
	finalIndex   = indexOf(Finals[:])
)

func invert2(m map[rune][2]rune) map[[2]rune]rune {
	out := make(map[[2]rune]rune, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func indexOf(table []rune) map[rune]int {
	out := make(map[rune]int, len(table))
	for i, r := range table {
		out[r] = i
	}
	return out
}

// Decompose splits a precomposed modern Hangul syllable into its (L, V, T)
// index triple. ok is false if s is outside [SyllableBase, SyllableLast].
func Decompose(s rune) (l, v, t int, ok bool) {
	if s < SyllableBase || s > SyllableLast {
		return 0, 0, 0, false
	}
	offset := int(s) - SyllableBase
	t = offset % finalCount
	offset /= finalCount
	v = offset % medialCount
	l = offset / medialCount
	return l, v, t, true
}

// Compose joins an (L, V, T) index triple into its precomposed modern
// Hangul syllable. ok is false if any index is out of its declared range.
func Compose(l, v, t int) (s rune, ok bool) {
	if l < 0 || l >= initialCount || v < 0 || v >= medialCount || t < 0 || t >= finalCount {
		return 0, false
	}
	return rune(SyllableBase + (l*medialCount+v)*finalCount + t), true
}

// InitialIndex returns the table index of an initial jamo rune, or -1.
func InitialIndex(r rune) int {
	if i, ok := initialIndex[r]; ok {
		return i
	}
	return -1
}

// MedialIndex returns the table index of a medial jamo rune, or -1.
func MedialIndex(r rune) int {
	if i, ok := medialIndex[r]; ok {
		return i
	}
	return -1
}

// FinalIndex returns the table index of a final jamo rune (0 for none), or -1.
func FinalIndex(r rune) int {
	if i, ok := finalIndex[r]; ok {
		return i
	}
	return -1
}

// IsHangulSyllable reports whether r is a precomposed modern Hangul syllable.
func IsHangulSyllable(r rune) bool {
	return r >= SyllableBase && r <= SyllableLast
}

// IsCompatibilityJamo reports whether r lies in the Hangul Compatibility
// Jamo block (U+3130-U+318F), the stand-alone consonant/vowel letters used
// outside composed syllables.
func IsCompatibilityJamo(r rune) bool {
	return r >= 0x3130 && r <= 0x318F
}

// IsCompatibilityConsonant reports whether r is a stand-alone compatibility
// consonant (U+3131-U+314E), the narrower subrange of IsCompatibilityJamo
// that excludes the compatibility vowels (U+314F-U+3163).
func IsCompatibilityConsonant(r rune) bool {
	return r >= 0x3131 && r <= 0x314E
}

// DecomposeVowel splits a medial jamo into its component parts. If r is not
// a declared compound vowel, ok is false and the caller should treat r as
// atomic.
func DecomposeVowel(r rune) (first, second rune, ok bool) {
	parts, ok := CompoundVowel[r]
	if !ok {
		return 0, 0, false
	}
	return parts[0], parts[1], true
}

// ComposeVowel joins two vowel jamo into their compound form, if declared.
func ComposeVowel(first, second rune) (rune, bool) {
	r, ok := composeVowel[[2]rune{first, second}]
	return r, ok
}

// DecomposeFinalConsonant splits a trailing consonant into its component
// parts. If r is not a declared compound final, ok is false.
func DecomposeFinalConsonant(r rune) (first, second rune, ok bool) {
	parts, ok := CompoundFinal[r]
	if !ok {
		return 0, 0, false
	}
	return parts[0], parts[1], true
}

// ComposeFinalConsonant joins two consonant jamo into their compound final
// form, if declared.
func ComposeFinalConsonant(first, second rune) (rune, bool) {
	r, ok := composeFinal[[2]rune{first, second}]
	return r, ok
}

// DisassembleFully decomposes a rune all the way to atomic jamo: a Hangul
// syllable yields its L/V/T jamo with compound V/T further split into their
// two parts; a standalone compatibility jamo yields itself, further split
// if it is itself a declared compound; anything else yields nothing.
func DisassembleFully(r rune) []rune {
	if l, v, t, ok := Decompose(r); ok {
		out := make([]rune, 0, 4)
		out = append(out, Initials[l])
		if a, b, isCompound := DecomposeVowel(Medials[v]); isCompound {
			out = append(out, a, b)
		} else {
			out = append(out, Medials[v])
		}
		if t != 0 {
			if a, b, isCompound := DecomposeFinalConsonant(Finals[t]); isCompound {
				out = append(out, a, b)
			} else {
				out = append(out, Finals[t])
			}
		}
		return out
	}
	if IsCompatibilityJamo(r) {
		if a, b, ok := DecomposeVowel(r); ok {
			return []rune{a, b}
		}
		if a, b, ok := DecomposeFinalConsonant(r); ok {
			return []rune{a, b}
		}
		return []rune{r}
	}
	return nil
}
