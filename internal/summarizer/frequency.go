// Package summarizer builds extractive summaries without a remote model.
package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"prospectus/internal/vocab"
)

// Focus selects the topic a summary leans towards.
type Focus string

const (
	FocusOverview  Focus = "overview"
	FocusPrograms  Focus = "programs"
	FocusFees      Focus = "fees"
	FocusAdmission Focus = "admission"
)

const (
	defaultSentences = 5
	minSentenceChars = 20
	summaryWeight    = 2
	focusWeight      = 3
)

var sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

// FrequencySummarizer ranks sentences by normalized word frequency plus
// fixed weights for prospectus topic words.
type FrequencySummarizer struct {
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewFrequencySummarizer creates a frequency-based sentence ranker summarizer.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    vocab.Stopwords,
	}
}

// Summarize returns an overview summary of at most maxSentences sentences.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	return s.Focused(text, FocusOverview, maxSentences, 0), nil
}

// Focused returns the best maxSentences sentences for focus in document
// order. A positive maxChars truncates the result with "...".
func (s *FrequencySummarizer) Focused(text string, focus Focus, maxSentences, maxChars int) string {
	if maxSentences <= 0 {
		maxSentences = defaultSentences
	}
	var sentences []string
	for _, sent := range sentenceRe.FindAllString(text, -1) {
		if utf8.RuneCountInString(strings.TrimSpace(sent)) > minSentenceChars {
			sentences = append(sentences, strings.TrimSpace(sent))
		}
	}
	if len(sentences) == 0 {
		return clip(strings.TrimSpace(text), maxChars)
	}

	freq := s.frequencies(sentences)
	focusTerms := vocab.FocusTerms[string(focus)]

	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(sentences))
	for i, sent := range sentences {
		toks := s.tokens(sent)
		score := 0.0
		for _, tok := range toks {
			score += freq[tok]
		}
		if l := float64(len(toks)); l > 0 {
			score /= math.Sqrt(l)
		}
		lower := strings.ToLower(sent)
		score += summaryWeight * float64(countPresent(lower, vocab.SummaryTerms))
		score += focusWeight * float64(countPresent(lower, focusTerms))
		scores[i] = pair{i, score}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}

	selected := make([]int, maxSentences)
	for i := range selected {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	out := make([]string, len(selected))
	for i, idx := range selected {
		out[i] = sentences[idx]
	}
	return clip(strings.Join(out, " "), maxChars)
}

func (s *FrequencySummarizer) frequencies(sentences []string) map[string]float64 {
	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range s.tokens(sent) {
			if _, ok := s.stopwords[tok]; ok {
				continue
			}
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		maxF = math.Max(maxF, v)
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}
	return freq
}

func (s *FrequencySummarizer) tokens(text string) []string {
	return s.tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func countPresent(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(text, t) {
			n++
		}
	}
	return n
}

func clip(s string, maxChars int) string {
	if maxChars <= 3 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	r := []rune(s)
	return string(r[:maxChars-3]) + "..."
}
