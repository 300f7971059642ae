// Package ranker scores chunks against a question.
package ranker

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"prospectus/internal/domain"
	"prospectus/internal/embedding"
	"prospectus/internal/store"
	"prospectus/internal/vocab"
)

// Mode selects the scoring recipe.
type Mode string

const (
	// ModeEnhanced blends semantic similarity with weighted lexical overlap.
	ModeEnhanced Mode = "enhanced"
	// ModeSimple uses keyword overlap and topic boosts only.
	ModeSimple Mode = "simple"
)

const (
	semanticWeight    = 0.7
	lexicalWeight     = 0.3
	enhancedThreshold = 0.1
	enhancedTopN      = 5
	simpleTopN        = 3
	embedConcurrency  = 8
)

var wordRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Ranker orders chunks by relevance to a question.
type Ranker struct {
	vectors *embedding.Cache
	log     *zap.Logger
}

// New returns a ranker. vectors may be nil, in which case only lexical
// scoring is used.
func New(vectors *embedding.Cache, log *zap.Logger) *Ranker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ranker{vectors: vectors, log: log}
}

// Rank returns the top chunks of snap for question, best first. Ties keep
// document order. The result is empty when nothing passes the threshold.
func (r *Ranker) Rank(ctx context.Context, question string, snap *store.Snapshot, mode Mode) []domain.SearchResult {
	if snap.Len() == 0 || strings.TrimSpace(question) == "" {
		return nil
	}
	if mode == ModeSimple {
		return r.simple(question, snap.Chunks)
	}
	return r.enhanced(ctx, question, snap)
}

func (r *Ranker) enhanced(ctx context.Context, question string, snap *store.Snapshot) []domain.SearchResult {
	q := strings.ToLower(strings.TrimSpace(question))
	terms := Terms(question)

	results := make([]domain.SearchResult, len(snap.Chunks))
	for i, c := range snap.Chunks {
		results[i] = domain.SearchResult{Chunk: c, Lexical: enhancedLexical(q, terms, c.Text)}
		results[i].Score = results[i].Lexical
	}

	if qvec, ok := r.queryVector(ctx, question); ok {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(embedConcurrency)
		for i := range results {
			g.Go(func() error {
				c := results[i].Chunk
				vec, err := r.vectors.Vector(gctx, fmt.Sprintf("%d/%s", snap.Generation, c.ID), c.Text)
				if err != nil {
					r.log.Debug("chunk embedding unavailable", zap.String("chunk_id", c.ID), zap.Error(err))
					return nil
				}
				sim := embedding.Cosine(qvec, vec)
				results[i].Semantic = sim
				results[i].HasVector = true
				results[i].Score = semanticWeight*sim + lexicalWeight*results[i].Lexical
				return nil
			})
		}
		_ = g.Wait()
	}

	return top(results, enhancedThreshold, enhancedTopN)
}

func (r *Ranker) queryVector(ctx context.Context, question string) ([]float64, bool) {
	if r.vectors == nil || !r.vectors.Available() {
		return nil, false
	}
	v, err := r.vectors.Vector(ctx, "query/"+question, question)
	if err != nil {
		r.log.Warn("question embedding failed, using lexical scores", zap.Error(err))
		return nil, false
	}
	return v, true
}

func (r *Ranker) simple(question string, chunks []domain.Chunk) []domain.SearchResult {
	q := strings.ToLower(strings.TrimSpace(question))
	terms := Terms(question)
	results := make([]domain.SearchResult, len(chunks))
	for i, c := range chunks {
		text := strings.ToLower(c.Text)
		var score float64
		for _, t := range terms {
			score += float64(strings.Count(text, t))
		}
		if strings.Contains(text, q) {
			score += 10
		}
		score += topicBoost(q, text, vocab.SimpleTopicBoosts, 5)
		results[i] = domain.SearchResult{Chunk: c, Score: score, Lexical: score}
	}
	return top(results, 0, simpleTopN)
}

// enhancedLexical weights term frequency, whole-question matches and topic
// synonyms, normalized by chunk length in thousands of characters.
func enhancedLexical(q string, terms []string, chunkText string) float64 {
	text := strings.ToLower(chunkText)
	var score float64
	if strings.Contains(text, q) {
		score += 10
	}
	for _, t := range terms {
		score += 2 * float64(strings.Count(text, t))
	}
	score += topicBoost(q, text, vocab.EnhancedTopicBoosts, 3)
	norm := float64(utf8.RuneCountInString(chunkText)) / 1000
	if norm < 1 {
		norm = 1
	}
	return score / norm
}

func topicBoost(q, text string, boosts []vocab.TopicBoost, weight float64) float64 {
	var score float64
	for _, b := range boosts {
		if !strings.Contains(q, b.Anchor) {
			continue
		}
		for _, syn := range b.Synonyms {
			if strings.Contains(text, syn) {
				score += weight
			}
		}
	}
	return score
}

// Terms returns the distinct lower-case question words longer than two
// characters that are not stopwords.
func Terms(question string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, w := range wordRe.FindAllString(strings.ToLower(question), -1) {
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		if _, stop := vocab.Stopwords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

func top(results []domain.SearchResult, threshold float64, n int) []domain.SearchResult {
	kept := results[:0:0]
	for _, r := range results {
		if r.Score > threshold {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
	if len(kept) > n {
		kept = kept[:n]
	}
	return kept
}
