package chunker

import (
	"strings"

	"prospectus/internal/domain"
	"prospectus/internal/vocab"
)

// DetectTag labels text with the first topic whose keywords it contains.
func DetectTag(text string) domain.Tag {
	lower := strings.ToLower(text)
	for _, rule := range vocab.TagRules {
		if containsAny(lower, rule.Keywords) {
			return rule.Tag
		}
	}
	return domain.TagGeneral
}

// IntrinsicScore rates how likely a chunk is to answer prospectus questions.
func IntrinsicScore(text string) float64 {
	lower := strings.ToLower(text)
	var score float64
	for _, wt := range vocab.IntrinsicTerms {
		if containsAny(lower, wt.Terms) {
			score += wt.Weight
		}
	}
	n := runeLen(text)
	if n > 1000 {
		score += 3
	}
	if n > 2000 {
		score += 2
	}
	if n < 200 {
		score -= 5
	}
	return score
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
