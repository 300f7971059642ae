package composer

import (
	"regexp"
	"strings"

	"prospectus/internal/vocab"
)

const answerableOverlap = 0.3

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

type verdict int

const (
	undecided verdict = iota
	onTopic
	offTopic
)

// keywordVerdict checks the question against the topic word lists.
// Prospectus topics win over off-topic words, so "food science fees" stays
// on topic while "best food nearby" does not.
func keywordVerdict(question string) verdict {
	tokens := tokenRe.FindAllString(strings.ToLower(question), -1)
	for _, kw := range vocab.AnswerableKeywords {
		for _, tok := range tokens {
			if strings.HasPrefix(tok, kw) {
				return onTopic
			}
		}
	}
	for _, kw := range vocab.UnanswerableKeywords {
		for _, tok := range tokens {
			if tok == kw || tok == kw+"s" {
				return offTopic
			}
		}
	}
	return undecided
}

// OffTopic reports whether the question names a subject a prospectus never
// covers and none that it does.
func OffTopic(question string) bool { return keywordVerdict(question) == offTopic }

// Answerable reports whether a prospectus could plausibly answer question
// given the retrieved context.
func Answerable(question, context string) bool {
	switch keywordVerdict(question) {
	case onTopic:
		return true
	case offTopic:
		return false
	}

	ctx := strings.ToLower(context)
	var words, hits int
	for _, w := range strings.Fields(strings.ToLower(question)) {
		w = strings.Trim(w, "?!.,;:\"'")
		if len(w) <= 3 {
			continue
		}
		words++
		if strings.Contains(ctx, w) {
			hits++
		}
	}
	if words == 0 {
		return false
	}
	return float64(hits)/float64(words) >= answerableOverlap
}
