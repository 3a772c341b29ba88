package hangul

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidComponents is returned by AssembleStrict when the input
// contains a rune that is neither a recognized initial consonant nor a
// medial vowel jamo (compound final consonants such as ㄳ are rejected too) — the strict-mode syllable builder refuses to
// silently pass unrecognized tokens through the way Assemble does.
var ErrInvalidComponents = errors.New("hangul: invalid jamo components")

// Assembler is a streaming state machine that folds a sequence of atomic
// jamo (plus arbitrary pass-through runes) back into composed Hangul
// syllables, merging compound vowels and compound finals as they complete.
//
// It mirrors the lead/medial/tail buffering idiom of a classic Jamo
// composer: at most one syllable is ever buffered at a time, and a new
// incoming jamo either extends the buffer, merges with it, or forces a
// flush of the completed syllable first.
type Assembler struct {
	lead, medial, tail rune
	out                strings.Builder
}

// NewAssembler returns an empty assembler ready to accept jamo.
func NewAssembler() *Assembler {
	return &Assembler{}
}

func isConsonant(r rune) bool { return InitialIndex(r) >= 0 }
func isMedialJamo(r rune) bool { return MedialIndex(r) >= 0 }

// Feed consumes one rune of input. Non-jamo runes flush any buffered
// syllable and are copied through verbatim.
func (a *Assembler) Feed(r rune) {
	switch {
	case isMedialJamo(r):
		a.feedMedial(r)
	case isConsonant(r):
		a.feedConsonant(r)
	default:
		a.flush()
		a.out.WriteRune(r)
	}
}

func (a *Assembler) feedMedial(r rune) {
	switch {
	case a.medial == 0 && a.tail == 0:
		// Either starting the medial slot of the current syllable, or (if
		// no lead is buffered either) a standalone vowel.
		a.medial = r
	case a.tail != 0:
		// A vowel arrives while a tentative tail consonant is buffered:
		// that consonant actually begins the next syllable. Of a merged
		// compound tail, only its second consonant moves on.
		carried := a.tail
		a.tail = 0
		if first, second, ok := DecomposeFinalConsonant(carried); ok {
			a.tail = first
			carried = second
		}
		a.flush()
		a.lead = carried
		a.medial = r
	default:
		if merged, ok := ComposeVowel(a.medial, r); ok {
			a.medial = merged
		} else {
			a.flush()
			a.medial = r
		}
	}
}

func (a *Assembler) feedConsonant(r rune) {
	switch {
	case a.lead == 0 && a.medial == 0 && a.tail == 0:
		a.lead = r
	case a.medial != 0 && a.tail == 0 && FinalIndex(r) > 0:
		// Tentative tail; may later be reclaimed by feedMedial if a vowel
		// follows, or merged into a compound final below.
		a.tail = r
	case a.tail != 0:
		if merged, ok := ComposeFinalConsonant(a.tail, r); ok {
			a.tail = merged
		} else {
			a.flush()
			a.lead = r
		}
	default:
		a.flush()
		a.lead = r
	}
}

// flush writes any buffered partial/complete syllable to the output and
// resets the buffer.
func (a *Assembler) flush() {
	if a.lead == 0 && a.medial == 0 && a.tail == 0 {
		return
	}
	if a.medial == 0 {
		// No vowel ever arrived: emit the bare consonant(s) untouched.
		if a.lead != 0 {
			a.out.WriteRune(a.lead)
		}
		if a.tail != 0 {
			a.out.WriteRune(a.tail)
		}
		a.lead, a.medial, a.tail = 0, 0, 0
		return
	}
	lead := a.lead
	if lead == 0 {
		lead = 'ㅇ'
	}
	li, vi := InitialIndex(lead), MedialIndex(a.medial)
	ti := 0
	if a.tail != 0 {
		ti = FinalIndex(a.tail)
		if ti < 0 {
			ti = 0
		}
	}
	if s, ok := Compose(li, vi, ti); ok {
		a.out.WriteRune(s)
	} else {
		a.out.WriteRune(lead)
		a.out.WriteRune(a.medial)
		if a.tail != 0 {
			a.out.WriteRune(a.tail)
		}
	}
	a.lead, a.medial, a.tail = 0, 0, 0
}

// String finalizes the assembler (flushing any buffered partial syllable)
// and returns the composed output. The assembler is not reusable after
// this call.
func (a *Assembler) String() string {
	a.flush()
	return a.out.String()
}

// Assemble folds a full rune slice of jamo (and pass-through runes) into
// composed Hangul syllables in one call.
func Assemble(jamos []rune) string {
	a := NewAssembler()
	for _, r := range jamos {
		a.Feed(r)
	}
	return a.String()
}

// AssembleStrict is Assemble's validating counterpart: every input rune
// must be a recognized initial consonant or medial vowel jamo — the only
// tokens Feed itself knows how to fold into a syllable. It returns
// ErrInvalidComponents on the first unrecognized token instead of
// Assemble's silent pass-through behavior.
func AssembleStrict(jamos []rune) (string, error) {
	a := NewAssembler()
	for _, r := range jamos {
		if !isConsonant(r) && !isMedialJamo(r) {
			return "", fmt.Errorf("%w: %q", ErrInvalidComponents, r)
		}
		a.Feed(r)
	}
	return a.String(), nil
}

// Disassemble decomposes every rune of s into atomic jamo via
// DisassembleFully, passing through any rune that yields nothing.
func Disassemble(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if parts := DisassembleFully(r); parts != nil {
			out = append(out, parts...)
		} else {
			out = append(out, r)
		}
	}
	return out
}
