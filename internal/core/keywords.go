package core

import (
	"strings"
	"unicode"
)

// stopwords are tokens too common to carry matching signal. Keep the list
// small: over-filtering hurts recall more than noise hurts ranking.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "from": true, "are": true, "was": true, "will": true,
	"have": true, "has": true, "not": true, "but": true, "all": true,
	"can": true, "should": true, "when": true, "then": true, "into": true,
	"each": true,
	"http": true, "https": true, "www": true, "com": true,
	"task": true, "tasks": true, "plan": true, "todo": true,
}

const minTokenLen = 3

// ExtractKeywords turns plan text into a set of normalized search tokens.
// Tokens are lower-cased, split on any non-letter/digit rune (which strips
// markdown punctuation), filtered of stopwords and short fragments, and
// deduplicated. Empty or punctuation-only input yields an empty set.
func ExtractKeywords(text string) map[string]bool {
	tokens := make(map[string]bool)
	if text == "" {
		return tokens
	}

	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, f := range fields {
		if len([]rune(f)) < minTokenLen {
			continue
		}
		if stopwords[f] {
			continue
		}
		tokens[f] = true
	}

	return tokens
}

// overlap counts how many of the candidate's keywords appear in the plan
// token set. Scoring uses set overlap only; token order never matters.
func overlap(keywords, planTokens map[string]bool) int {
	n := 0
	for k := range keywords {
		if planTokens[k] {
			n++
		}
	}
	return n
}
