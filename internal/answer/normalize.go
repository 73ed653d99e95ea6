// Package answer decides whether a free-text answer to a riddle is correct.
//
// Decisions run in two stages: a local heuristic (Match) over normalized
// strings, then an optional language-model Verifier consulted only when the
// heuristic misses. Checker wires the two together.
package answer

import (
	"strings"
	"unicode"
)

var fillerWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "my": {}, "your": {}, "our": {},
}

// Normalize canonicalizes an answer for comparison: lowercase, punctuation
// stripped, standalone filler words removed, whitespace collapsed.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, text)

	// Only word runes and whitespace are left, so whitespace-separated fields
	// are exactly the word-boundary tokens.
	fields := strings.Fields(text)
	kept := fields[:0]
	for _, f := range fields {
		if _, filler := fillerWords[f]; filler {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
