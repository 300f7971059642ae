// Package inference holds provider-independent helpers for remote text models.
package inference

import (
	"context"

	"prospectus/internal/domain"
)

// Unavailable is the provider used when no remote model is configured.
// Every call fails so callers take their local fallbacks.
type Unavailable struct{}

func (Unavailable) Name() string { return "none" }

func (Unavailable) Summarize(context.Context, string, domain.GenerateOptions) (string, error) {
	return "", domain.ErrInferenceUnavailable
}

func (Unavailable) Generate(context.Context, string, domain.GenerateOptions) (string, error) {
	return "", domain.ErrInferenceUnavailable
}

func (Unavailable) Converse(context.Context, string, domain.GenerateOptions) (string, error) {
	return "", domain.ErrInferenceUnavailable
}

func (Unavailable) AnswerQuestion(context.Context, string, string) (string, error) {
	return "", domain.ErrInferenceUnavailable
}

func (Unavailable) Classify(context.Context, string, []string) (domain.Classification, error) {
	return domain.Classification{}, domain.ErrInferenceUnavailable
}
