package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"prospectus/internal/domain"
	"prospectus/internal/i18n"
	"prospectus/internal/ranker"
	"prospectus/internal/summarizer"
)

// SummaryType selects what a summary covers.
type SummaryType string

const (
	SummaryFull      SummaryType = "full"
	SummarySection   SummaryType = "section"
	SummaryOverview  SummaryType = "overview"
	SummaryPrograms  SummaryType = "programs"
	SummaryFees      SummaryType = "fees"
	SummaryAdmission SummaryType = "admission"
)

// ParseSummaryType maps a request value to a type; unknown values give full.
func ParseSummaryType(s string) SummaryType {
	switch t := SummaryType(strings.ToLower(strings.TrimSpace(s))); t {
	case SummarySection, SummaryOverview, SummaryPrograms, SummaryFees, SummaryAdmission:
		return t
	}
	return SummaryFull
}

// Summary is a generated or extracted digest of the live set.
type Summary struct {
	Type       SummaryType
	Text       string
	Chunks     int
	Extractive bool
}

const (
	fullSampleSize   = 8
	typedInputChars  = 2000
	sectionFallback  = 200
	fullSummaryChars = 500
)

type typedSummary struct {
	prompt    string
	maxLength int
	minLength int
	focus     summarizer.Focus
}

var typedSummaries = map[SummaryType]typedSummary{
	SummaryOverview: {
		prompt:    "Provide a comprehensive overview summary of this educational institution document:\n\n",
		maxLength: 500, minLength: 100, focus: summarizer.FocusOverview,
	},
	SummaryPrograms: {
		prompt:    "Summarize the academic programs and courses offered by this institution:\n\n",
		maxLength: 400, minLength: 80, focus: summarizer.FocusPrograms,
	},
	SummaryFees: {
		prompt:    "Summarize the fees, costs, and financial information from this document:\n\n",
		maxLength: 300, minLength: 60, focus: summarizer.FocusFees,
	},
	SummaryAdmission: {
		prompt:    "Summarize the admission requirements and application process:\n\n",
		maxLength: 350, minLength: 70, focus: summarizer.FocusAdmission,
	},
}

// priorityTags lead the input of typed summaries.
var priorityTags = map[domain.Tag]bool{
	domain.TagPrograms:   true,
	domain.TagFees:       true,
	domain.TagAdmissions: true,
	domain.TagAbout:      true,
}

// Summarize digests the live set. Remote model failures fall back to an
// extractive summary, so only input errors are returned.
func (a *Assistant) Summarize(ctx context.Context, typ SummaryType, section string) (Summary, error) {
	snap := a.storage.Snapshot()
	if snap.Len() == 0 {
		return Summary{}, domain.ErrNoContent
	}
	switch typ {
	case SummarySection:
		if strings.TrimSpace(section) == "" {
			return Summary{}, eris.Wrap(domain.ErrEmptyQuestion, "section topic is required")
		}
		return a.sectionSummary(ctx, section, snap.Chunks), nil
	case SummaryOverview, SummaryPrograms, SummaryFees, SummaryAdmission:
		return a.typedSummary(ctx, typ, snap.Chunks), nil
	}
	return a.fullSummary(ctx, snap.Chunks), nil
}

// sample picks up to eight evenly spaced chunks.
func sample(chunks []domain.Chunk) []domain.Chunk {
	step := max(1, len(chunks)/fullSampleSize)
	var out []domain.Chunk
	for i := 0; i < len(chunks) && len(out) < fullSampleSize; i += step {
		out = append(out, chunks[i])
	}
	return out
}

func (a *Assistant) fullSummary(ctx context.Context, chunks []domain.Chunk) Summary {
	picked := sample(chunks)
	parts := make([]string, len(picked))
	for i, c := range picked {
		parts[i] = fmt.Sprintf("Page %d: %s", c.Page, c.Text)
	}
	input := strings.Join(parts, "\n\n")
	out := Summary{Type: SummaryFull, Chunks: len(chunks)}

	text, err := a.inf.Summarize(ctx, "University Prospectus Summary Request: "+input,
		domain.GenerateOptions{MaxLength: fullSummaryChars, MinLength: 100})
	if err == nil && strings.TrimSpace(text) != "" {
		out.Text = text
		return out
	}
	a.log.Debug("full summary falling back to extraction", zap.Error(err))
	texts := make([]string, len(picked))
	for i, c := range picked {
		texts[i] = c.Text
	}
	out.Text = a.summarizer.Focused(strings.Join(texts, "\n\n"), summarizer.FocusOverview, a.opts.SummarySentences, fullSummaryChars)
	out.Extractive = true
	return out
}

func (a *Assistant) sectionSummary(ctx context.Context, topic string, chunks []domain.Chunk) Summary {
	out := Summary{Type: SummarySection, Chunks: len(chunks)}
	results := a.ranker.Rank(ctx, topic, a.storage.Snapshot(), ranker.ModeSimple)
	if len(results) == 0 {
		out.Text = i18n.Text(a.Language(), i18n.NoRelevant, nil)
		out.Extractive = true
		return out
	}
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Chunk.Text
	}
	prompt := fmt.Sprintf("Summarize the %q section of this university prospectus for prospective students:\n\n%s",
		topic, strings.Join(texts, "\n\n"))
	text, err := a.inf.Summarize(ctx, prompt, domain.GenerateOptions{MaxLength: 400, MinLength: 80})
	if err == nil && strings.TrimSpace(text) != "" {
		out.Text = text
		return out
	}
	a.log.Debug("section summary falling back to excerpts", zap.String("section", topic), zap.Error(err))
	for i, t := range texts {
		texts[i] = clip(t, sectionFallback)
	}
	out.Text = fmt.Sprintf("Here's what I found about %s:\n\n%s", topic, strings.Join(texts, "\n\n"))
	out.Extractive = true
	return out
}

func (a *Assistant) typedSummary(ctx context.Context, typ SummaryType, chunks []domain.Chunk) Summary {
	ts := typedSummaries[typ]
	var first, rest []string
	for _, c := range chunks {
		if priorityTags[c.Tag] {
			first = append(first, c.Text)
		} else {
			rest = append(rest, c.Text)
		}
	}
	input := truncateRunes(strings.Join(append(first, rest...), "\n\n"), typedInputChars)
	out := Summary{Type: typ, Chunks: len(chunks)}

	text, err := a.inf.Summarize(ctx, ts.prompt+input,
		domain.GenerateOptions{MaxLength: ts.maxLength, MinLength: min(ts.minLength, ts.maxLength/2)})
	if err == nil && strings.TrimSpace(text) != "" {
		out.Text = text
		return out
	}
	a.log.Debug("typed summary falling back to extraction", zap.String("type", string(typ)), zap.Error(err))
	out.Text = a.summarizer.Focused(input, ts.focus, a.opts.SummarySentences, ts.maxLength)
	out.Extractive = true
	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// clip truncates s to n runes and marks the cut with "...".
func clip(s string, n int) string {
	if t := truncateRunes(s, n); t != s {
		return t + "..."
	}
	return s
}
