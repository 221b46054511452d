// Package pipeline implements the four-stage scoring and ranking pipeline:
// region filter, commercial-intent classifier, metric normalizer, and ranker.
// Every stage is a pure function over its input; malformed data degrades to
// zero values or record exclusion, never an error.
package pipeline

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// foldText lowercases text with Turkish casing rules. Plain ToLower maps
// U+0130 (İ) to "i" plus a combining dot and never produces dotless ı, so
// keywords like "İNDİRİM" and "indirim" would not collide under naive folding.
func foldText(s string) string {
	if s == "" {
		return ""
	}
	// cases.Caser carries internal state, so build one per call rather than
	// sharing across goroutines.
	return cases.Lower(language.Turkish).String(s)
}

// countOccurrences counts substring occurrences of keyword in text. Both
// arguments must already be case-folded. With boundary set, an occurrence
// only counts when not flanked by letters or digits; the default substring
// semantics deliberately match inside longer words.
func countOccurrences(text, keyword string, boundary bool) int {
	if keyword == "" || text == "" {
		return 0
	}
	if !boundary {
		return strings.Count(text, keyword)
	}

	count := 0
	for start := 0; ; {
		idx := strings.Index(text[start:], keyword)
		if idx < 0 {
			break
		}
		abs := start + idx
		if isBoundary(text, abs, len(keyword)) {
			count++
		}
		start = abs + len(keyword)
	}
	return count
}

// isBoundary reports whether the match at [idx, idx+n) is not embedded in a
// longer alphanumeric run.
func isBoundary(text string, idx, n int) bool {
	if idx > 0 {
		if before := lastRune(text[:idx]); unicode.IsLetter(before) || unicode.IsDigit(before) {
			return false
		}
	}
	if idx+n < len(text) {
		if after := firstRune(text[idx+n:]); unicode.IsLetter(after) || unicode.IsDigit(after) {
			return false
		}
	}
	return true
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}
