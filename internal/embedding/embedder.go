// Package embedding provides the optional vector source used by hybrid ranking.
package embedding

import (
	"context"
	"math"

	"prospectus/internal/domain"
)

// Disabled is the embedder used when no vector source is configured.
// Ranking then relies on lexical scores alone.
type Disabled struct{}

func (Disabled) Name() string    { return "none" }
func (Disabled) Available() bool { return false }

func (Disabled) Embed(context.Context, string) ([]float64, error) {
	return nil, domain.ErrEmbeddingDisabled
}

// Cosine returns the cosine similarity of a and b, or 0 when undefined.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
