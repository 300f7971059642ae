package composer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	basicWeight     = 0.6
	relevanceWeight = 0.4
	qualityPass     = 0.6

	relevantLabel     = "relevant and helpful"
	defaultRelevance  = 0.5
	offLabelRelevance = 0.3
)

var relevanceLabels = []string{relevantLabel, "partially relevant", "not relevant"}

// Quality is the score an answer earned at the quality gate.
type Quality struct {
	Score     float64 `json:"score"`
	Basic     float64 `json:"basic"`
	Relevance float64 `json:"relevance"`
}

// Good reports whether the answer may be returned as is.
func (q Quality) Good() bool { return q.Score > qualityPass }

// basicQuality is the share of local checks the answer passes.
func basicQuality(answer string) float64 {
	lower := strings.ToLower(answer)
	n := utf8.RuneCountInString(answer)
	checks := []bool{
		utf8.RuneCountInString(strings.TrimSpace(answer)) > 10,
		n >= 20 && n <= 2000,
		!strings.Contains(lower, "sorry, i don't have information"),
		!strings.Contains(lower, "error") && !strings.Contains(lower, "failed"),
	}
	passed := 0
	for _, ok := range checks {
		if ok {
			passed++
		}
	}
	return float64(passed) / float64(len(checks))
}

func (c *Composer) assess(ctx context.Context, question, answer string) Quality {
	relevance := defaultRelevance
	prompt := fmt.Sprintf("Question: %q\nAnswer: %q\nIs this answer relevant and helpful for the question?", question, answer)
	res, err := c.inf.Classify(ctx, prompt, relevanceLabels)
	if err != nil {
		c.log.Debug("relevance scoring failed, using default", zap.Error(err))
	} else if label, score, ok := res.Top(); ok {
		if label == relevantLabel {
			relevance = score
		} else {
			relevance = offLabelRelevance
		}
	}
	basic := basicQuality(answer)
	return Quality{
		Score:     basic*basicWeight + relevance*relevanceWeight,
		Basic:     basic,
		Relevance: relevance,
	}
}
