// Package composer turns ranked chunks into an answer. Strategies are tried
// in a fixed order and each either produces text or steps aside; remote
// model failures are absorbed by the local strategies further down.
package composer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"prospectus/internal/domain"
	"prospectus/internal/i18n"
	"prospectus/internal/inference"
)

// Strategy names the way an answer was produced.
type Strategy string

const (
	StrategyExtraction   Strategy = "extraction"
	StrategyDefinition   Strategy = "definition"
	StrategyKeySentences Strategy = "key-sentences"
	StrategyConversation Strategy = "conversation"
	StrategyQA           Strategy = "qa"
	StrategyRecovered    Strategy = "extraction-fallback"
	StrategyGenerated    Strategy = "generated"
	StrategyExcerpt      Strategy = "excerpt"
	StrategyNotCovered   Strategy = "not-covered"
	StrategyNone         Strategy = "none"
)

const (
	historyTurns     = 3
	definitionWindow = 1500
	qaWindow         = 2000
	fallbackWindow   = 1500
	excerptChunks    = 2
	excerptChars     = 400
)

// Request is one question with its ranked context.
type Request struct {
	Question string
	History  []domain.Exchange
	Results  []domain.SearchResult
	Language i18n.Language
}

// Answer is the composed reply with the metadata of how it was built.
type Answer struct {
	Text         string       `json:"text"`
	Strategy     Strategy     `json:"strategy"`
	QuestionType QuestionType `json:"questionType"`
	Intent       Intent       `json:"intent"`
	Quality      *Quality     `json:"quality,omitempty"`
	NotCovered   bool         `json:"notCovered"`
}

// Composer builds answers with an optional remote model.
type Composer struct {
	inf domain.Inference
	log *zap.Logger
}

// New returns a composer. A nil inf behaves as an unconfigured provider.
func New(inf domain.Inference, log *zap.Logger) *Composer {
	if inf == nil {
		inf = inference.Unavailable{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Composer{inf: inf, log: log}
}

type job struct {
	Request
	qtype   QuestionType
	intent  Intent
	context string
	list    bool
}

type strategy struct {
	name Strategy
	run  func(ctx context.Context, j *job) (string, bool)
}

// Compose answers req. It never fails: when every strategy steps aside the
// reply is a raw excerpt or a stock message.
func (c *Composer) Compose(ctx context.Context, req Request) Answer {
	if req.Language == "" {
		req.Language = i18n.English
	}
	j := &job{Request: req, qtype: DetectQuestionType(req.Question)}
	if len(req.Results) == 0 {
		return Answer{
			Text:         i18n.Text(req.Language, i18n.NoRelevant, nil),
			Strategy:     StrategyNone,
			QuestionType: j.qtype,
			Intent:       defaultIntent,
		}
	}
	j.intent = c.classifyIntent(ctx, req.Question)
	j.list = j.qtype == TypeList || IsListQuestion(req.Question) || j.intent.Label == IntentList
	texts := make([]string, len(req.Results))
	for i, r := range req.Results {
		texts[i] = r.Chunk.Text
	}
	j.context = strings.Join(texts, "\n\n")

	log := c.log.With(zap.String("question_type", string(j.qtype)), zap.String("intent", j.intent.Label))
	ans := Answer{QuestionType: j.qtype, Intent: j.intent}

	text, used, ok := c.first(ctx, j, c.primary())
	if ok {
		q := c.assess(ctx, req.Question, text)
		log.Debug("answer assessed", zap.String("strategy", string(used)), zap.Float64("quality", q.Score))
		if q.Good() {
			ans.Text, ans.Strategy, ans.Quality = text, used, &q
			return ans
		}
	}

	if !Answerable(req.Question, j.context) {
		log.Info("question not covered by retrieved content")
		ans.Text = i18n.Text(req.Language, i18n.NotAnswerable, map[string]string{"question": req.Question})
		ans.Strategy = StrategyNotCovered
		ans.NotCovered = true
		return ans
	}

	fallbacks := c.fallbacks()
	if used == StrategyExtraction {
		fallbacks = fallbacks[1:]
	}
	if text, used, ok = c.first(ctx, j, fallbacks); ok {
		ans.Text, ans.Strategy = text, used
		return ans
	}
	ans.Text, ans.Strategy = i18n.Text(req.Language, i18n.Unprocessable, nil), StrategyNone
	return ans
}

func (c *Composer) first(ctx context.Context, j *job, chain []strategy) (string, Strategy, bool) {
	for _, s := range chain {
		if text, ok := s.run(ctx, j); ok && strings.TrimSpace(text) != "" {
			return text, s.name, true
		}
	}
	return "", StrategyNone, false
}

func (c *Composer) primary() []strategy {
	return []strategy{
		{StrategyExtraction, c.listAnswer},
		{StrategyDefinition, c.definition},
		{StrategyKeySentences, c.keySentences},
		{StrategyConversation, c.conversation},
		{StrategyQA, c.questionAnswer},
	}
}

func (c *Composer) fallbacks() []strategy {
	return []strategy{
		{StrategyRecovered, c.recovered},
		{StrategyGenerated, c.generated},
		{StrategyExcerpt, excerpt},
	}
}

func (c *Composer) listAnswer(_ context.Context, j *job) (string, bool) {
	if !j.list {
		return "", false
	}
	return extract(j.Question, j.context).render(j.Language)
}

func (j *job) wantsDefinition() bool {
	return j.qtype == TypeDefinition || j.intent.Label == IntentDefinition
}

func (c *Composer) definition(ctx context.Context, j *job) (string, bool) {
	if !j.wantsDefinition() {
		return "", false
	}
	prompt := fmt.Sprintf("Provide a clear definition and explanation for: %q\n\nBased on this content: %s",
		j.Question, truncate(j.context, definitionWindow))
	out, err := c.inf.Summarize(ctx, prompt, domain.GenerateOptions{MaxLength: 200, MinLength: 50})
	if err != nil {
		c.log.Debug("definition summary failed", zap.Error(err))
		return "", false
	}
	return out, true
}

func (c *Composer) keySentences(_ context.Context, j *job) (string, bool) {
	if !j.wantsDefinition() {
		return "", false
	}
	return extraction{topic: topicKeyInfo, items: KeySentences(j.context, j.Question)}.render(j.Language)
}

func (c *Composer) conversation(ctx context.Context, j *job) (string, bool) {
	if len(j.History) == 0 {
		return "", false
	}
	recent := j.History
	if len(recent) > historyTurns {
		recent = recent[len(recent)-historyTurns:]
	}
	turns := make([]string, len(recent))
	for i, h := range recent {
		turns[i] = "Q: " + h.Question + "\nA: " + h.Answer
	}
	input := "Previous conversation:\n" + strings.Join(turns, "\n\n") +
		"\n\nCurrent context:\n" + j.context +
		"\n\nHuman: " + j.Question + "\nAssistant:"
	out, err := c.inf.Converse(ctx, input, domain.GenerateOptions{MaxLength: 300, Temperature: 0.7})
	if err != nil {
		c.log.Debug("conversational answer failed", zap.Error(err))
		return "", false
	}
	return out, true
}

func (c *Composer) questionAnswer(ctx context.Context, j *job) (string, bool) {
	out, err := c.inf.AnswerQuestion(ctx, j.Question, truncate(j.context, qaWindow))
	if err != nil {
		c.log.Debug("question answering failed", zap.Error(err))
		return "", false
	}
	return out, true
}

// recovered keeps only extractions that found items; stock replies are
// worse than the fallbacks after it.
func (c *Composer) recovered(_ context.Context, j *job) (string, bool) {
	e := extract(j.Question, j.context)
	if len(e.items) == 0 {
		return "", false
	}
	return e.render(j.Language)
}

func (c *Composer) generated(ctx context.Context, j *job) (string, bool) {
	prompt := fmt.Sprintf("Answer this question based on the provided content: %q\n\nContent: %s",
		j.Question, truncate(j.context, fallbackWindow))
	out, err := c.inf.Generate(ctx, prompt, domain.GenerateOptions{MaxLength: 200, Temperature: 0.5})
	if err != nil {
		c.log.Debug("fallback generation failed", zap.Error(err))
		return "", false
	}
	return out, true
}

func excerpt(_ context.Context, j *job) (string, bool) {
	n := min(len(j.Results), excerptChunks)
	parts := make([]string, 0, n)
	for _, r := range j.Results[:n] {
		t := truncate(r.Chunk.Text, excerptChars)
		if t != r.Chunk.Text {
			t += "..."
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, "\n\n"), n > 0
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
