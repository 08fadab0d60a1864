// Package signal holds the keyword presence test shared by the classifiers
// and the rubric scorer.
package signal

import (
	"strings"
	"unicode/utf8"
)

// Present reports whether any keyword occurs in text, ignoring case.
// Keywords are expected in lower case. Diacritics are not folded, so accented
// and unaccented spellings must both be listed where both are meant.
func Present(text string, keywords ...string) bool {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// All reports whether every keyword occurs in text, ignoring case.
func All(text string, keywords ...string) bool {
	if len(keywords) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if !strings.Contains(lower, k) {
			return false
		}
	}
	return true
}

// WellFormed reports whether s, once trimmed, is longer than minLen characters.
func WellFormed(s string, minLen int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) > minLen
}
