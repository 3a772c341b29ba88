// Package choseong projects strings onto their leading-consonant (choseong)
// skeleton and provides the canonical normalization used throughout the
// search engine before any comparison.
package choseong

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"hangul-fuzzy-search/pkg/hangul"
)

// WhitespacePolicy controls how whitespace code points are projected.
type WhitespacePolicy int

const (
	// WhitespaceKeep preserves whitespace runs as-is (subject to
	// PreserveNonHangul for emission).
	WhitespaceKeep WhitespacePolicy = iota
	// WhitespaceNormalize collapses any run of whitespace to a single
	// space, never emitted at the very start of the output.
	WhitespaceNormalize
	// WhitespaceRemove drops all whitespace entirely.
	WhitespaceRemove
)

// Options configures Extract.
type Options struct {
	// PreserveNonHangul controls whether non-Hangul, non-whitespace code
	// points (and, under WhitespaceKeep, whitespace) are copied to the
	// output.
	PreserveNonHangul bool
	WhitespacePolicy  WhitespacePolicy
}

// DefaultOptions returns the conventional choseong projection policy: keep
// non-Hangul text and normalize whitespace.
func DefaultOptions() Options {
	return Options{PreserveNonHangul: true, WhitespacePolicy: WhitespaceNormalize}
}

var caseFolder = cases.Fold()

// Extract maps s to its choseong (leading-consonant) projection under opts.
func Extract(s string, opts Options) string {
	var b strings.Builder
	prevWasSpace := false

	emitSpace := func() {
		switch opts.WhitespacePolicy {
		case WhitespaceKeep:
			if opts.PreserveNonHangul {
				b.WriteRune(' ')
			}
			prevWasSpace = true
		case WhitespaceNormalize:
			if b.Len() > 0 && !prevWasSpace {
				b.WriteRune(' ')
			}
			prevWasSpace = true
		case WhitespaceRemove:
			// drop
		}
	}

	for _, r := range s {
		if unicode.IsSpace(r) {
			emitSpace()
			continue
		}
		if l, _, _, ok := hangul.Decompose(r); ok {
			b.WriteRune(hangul.Initials[l])
			prevWasSpace = false
			continue
		}
		if hangul.IsCompatibilityConsonant(r) {
			b.WriteRune(r)
			prevWasSpace = false
			continue
		}
		if opts.PreserveNonHangul {
			b.WriteRune(r)
		}
		prevWasSpace = false
	}

	out := b.String()
	if opts.WhitespacePolicy == WhitespaceNormalize {
		out = strings.TrimSuffix(out, " ")
	}
	return out
}

// NormalizedSearchToken canonicalizes s for matching: NFC composition
// followed by Unicode case folding. All search/ranking comparisons run on
// this normalized form, never on raw input.
func NormalizedSearchToken(s string) string {
	composed := norm.NFC.String(s)
	return caseFolder.String(composed)
}
