package embedding

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/singleflight"

	"prospectus/internal/domain"
)

// Cache memoizes embeddings by key. Concurrent requests for the same key
// share one upstream call and failures are never cached.
type Cache struct {
	embedder domain.Embedder
	vectors  *lru.Cache[string, []float64]
	group    singleflight.Group
}

func NewCache(embedder domain.Embedder, size int) (*Cache, error) {
	if size <= 0 {
		size = 4096
	}
	vectors, err := lru.New[string, []float64](size)
	if err != nil {
		return nil, eris.Wrap(err, "embedding: create cache")
	}
	return &Cache{embedder: embedder, vectors: vectors}, nil
}

// Available reports whether the underlying embedder can produce vectors.
func (c *Cache) Available() bool {
	return c.embedder != nil && c.embedder.Available()
}

// Vector returns the embedding of text, computing it at most once per key.
func (c *Cache) Vector(ctx context.Context, key, text string) ([]float64, error) {
	if !c.Available() {
		return nil, domain.ErrEmbeddingDisabled
	}
	if v, ok := c.vectors.Get(key); ok {
		return v, nil
	}
	out, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.vectors.Get(key); ok {
			return v, nil
		}
		v, err := c.embedder.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		c.vectors.Add(key, v)
		return v, nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "embedding: %s", c.embedder.Name())
	}
	return out.([]float64), nil
}

// Len returns the number of cached vectors.
func (c *Cache) Len() int {
	return c.vectors.Len()
}

// Purge drops every cached vector.
func (c *Cache) Purge() {
	c.vectors.Purge()
}
