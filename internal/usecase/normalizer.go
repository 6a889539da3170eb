package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex pattern for performance
var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)

// Tokenize normalizes a string into a set of lowercase tokens. It
// lower-cases the input, strips every character that is not a lowercase
// letter, digit, or whitespace, then splits on whitespace runs. Duplicates
// collapse; empty input yields an empty set. Never fails.
func Tokenize(text string) map[string]struct{} {
	cleaned := nonAlphanumericRegex.ReplaceAllString(strings.ToLower(text), "")

	tokens := make(map[string]struct{})
	for _, word := range strings.Fields(cleaned) {
		tokens[word] = struct{}{}
	}
	return tokens
}

// Jaccard computes |intersection| / |union| of two token sets. An empty
// union yields 0 rather than dividing by zero.
func Jaccard(a, b map[string]struct{}) float64 {
	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
