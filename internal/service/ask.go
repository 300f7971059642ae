package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"prospectus/internal/composer"
	"prospectus/internal/domain"
	"prospectus/internal/i18n"
)

// Outcome classifies how a question was handled.
type Outcome string

const (
	OutcomeAnswered   Outcome = "answered"
	OutcomeQuick      Outcome = "quick"
	OutcomeCommand    Outcome = "command"
	OutcomeNoRelevant Outcome = "no-relevant"
	OutcomeNotCovered Outcome = "not-covered"
)

// Query is one question with the prior conversation.
type Query struct {
	Question string
	History  []domain.Exchange
}

// Reply is the answer to a Query and how it was reached.
type Reply struct {
	Question        string
	Answer          string
	Outcome         Outcome
	Strategy        composer.Strategy
	QuestionType    composer.QuestionType
	Intent          composer.Intent
	Results         []domain.SearchResult
	Language        i18n.Language
	LanguageChanged bool
	Elapsed         time.Duration
}

// Found reports whether the reply is grounded in prospectus content.
func (r Reply) Found() bool { return r.Outcome == OutcomeAnswered }

// Ask answers q. It fails only on input errors: an empty question returns
// domain.ErrEmptyQuestion and an empty chunk set domain.ErrNoContent.
func (a *Assistant) Ask(ctx context.Context, q Query) (Reply, error) {
	start := a.now()
	question := strings.TrimSpace(q.Question)
	if question == "" {
		a.metrics.Question("empty")
		return Reply{}, domain.ErrEmptyQuestion
	}
	reply := Reply{Question: question, Language: a.Language()}
	done := func(r Reply) (Reply, error) {
		r.Elapsed = a.now().Sub(start)
		a.metrics.Question(string(r.Outcome))
		if r.Strategy != "" {
			a.metrics.Answer(string(r.Strategy))
		}
		return r, nil
	}

	switch i18n.DetectCommand(question) {
	case i18n.CommandSwahili:
		return done(a.switchLanguage(reply, i18n.Swahili))
	case i18n.CommandEnglish:
		return done(a.switchLanguage(reply, i18n.English))
	case i18n.CommandHelp:
		reply.Answer = i18n.Text(reply.Language, i18n.LanguageHelp, nil)
		reply.Outcome = OutcomeCommand
		return done(reply)
	}
	if text, ok := i18n.QuickResponse(question); ok {
		reply.Answer = text
		reply.Outcome = OutcomeQuick
		return done(reply)
	}

	snap := a.storage.Snapshot()
	if snap.Len() == 0 {
		a.metrics.Question("no-content")
		return Reply{}, domain.ErrNoContent
	}

	log := a.log.With(zap.Uint64("generation", snap.Generation))
	if composer.OffTopic(question) {
		log.Info("question outside prospectus topics", zap.String("question", question))
		reply.Answer = i18n.Text(reply.Language, i18n.NotAnswerable, map[string]string{"question": question})
		reply.Outcome = OutcomeNotCovered
		reply.Strategy = composer.StrategyNotCovered
		return done(reply)
	}

	results := a.ranker.Rank(ctx, question, snap, a.opts.RankMode)
	if len(results) == 0 {
		reply.Answer = i18n.Text(reply.Language, i18n.NoRelevant, nil)
		reply.Outcome = OutcomeNoRelevant
		return done(reply)
	}

	ans := a.composer.Compose(ctx, composer.Request{
		Question: question,
		History:  q.History,
		Results:  results,
		Language: reply.Language,
	})
	reply.Answer = ans.Text
	reply.Strategy = ans.Strategy
	reply.QuestionType = ans.QuestionType
	reply.Intent = ans.Intent
	reply.Results = results
	reply.Outcome = OutcomeAnswered
	if ans.NotCovered {
		reply.Outcome = OutcomeNotCovered
	}
	log.Debug("question answered",
		zap.String("strategy", string(ans.Strategy)),
		zap.String("question_type", string(ans.QuestionType)),
		zap.Int("chunks", len(results)),
	)
	return done(reply)
}

func (a *Assistant) switchLanguage(reply Reply, lang i18n.Language) Reply {
	a.SetLanguage(lang)
	reply.Language = lang
	reply.Answer = i18n.Text(lang, i18n.LanguageChanged, nil)
	reply.Outcome = OutcomeCommand
	reply.LanguageChanged = true
	return reply
}
