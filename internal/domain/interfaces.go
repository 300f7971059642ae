package domain

import "context"

// Embedder converts free text into a numeric vector representation.
// Implementations without a vector source return ErrEmbeddingDisabled.
type Embedder interface {
	Name() string
	Available() bool
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Classification is the ranked label output of a zero-shot classifier.
type Classification struct {
	Labels []string
	Scores []float64
}

// Top returns the best label and its score, or false when empty.
func (c Classification) Top() (string, float64, bool) {
	if len(c.Labels) == 0 || len(c.Scores) == 0 {
		return "", 0, false
	}
	return c.Labels[0], c.Scores[0], true
}

// GenerateOptions tunes a text generation or summarization call.
type GenerateOptions struct {
	MaxLength   int
	MinLength   int
	Temperature float64
}

// Inference is the external text model collaborator. Every call may fail;
// callers degrade to local strategies instead of surfacing errors.
type Inference interface {
	Name() string
	Summarize(ctx context.Context, text string, opts GenerateOptions) (string, error)
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	Converse(ctx context.Context, input string, opts GenerateOptions) (string, error)
	AnswerQuestion(ctx context.Context, question, passage string) (string, error)
	Classify(ctx context.Context, text string, labels []string) (Classification, error)
}

// ChunkSource supplies a complete chunk set from an external store.
type ChunkSource interface {
	LoadChunks(ctx context.Context) ([]Chunk, error)
}
