package embedding

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospectus/internal/domain"
)

type countingEmbedder struct {
	calls atomic.Int32
	fail  atomic.Bool
	delay time.Duration
}

func (e *countingEmbedder) Name() string    { return "counting" }
func (e *countingEmbedder) Available() bool { return true }

func (e *countingEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	e.calls.Add(1)
	time.Sleep(e.delay)
	if e.fail.Load() {
		return nil, errors.New("boom")
	}
	return []float64{float64(len(text)), 1}, nil
}

func TestCache_MemoizesByKey(t *testing.T) {
	emb := &countingEmbedder{}
	c, err := NewCache(emb, 16)
	require.NoError(t, err)

	v1, err := c.Vector(context.Background(), "chunk-1", "abc")
	require.NoError(t, err)
	v2, err := c.Vector(context.Background(), "chunk-1", "abc")
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, int32(1), emb.calls.Load())
	assert.Equal(t, 1, c.Len())
}

func TestCache_ConcurrentCallersShareOneEmbed(t *testing.T) {
	emb := &countingEmbedder{delay: 20 * time.Millisecond}
	c, err := NewCache(emb, 16)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Vector(context.Background(), "same", "text")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), emb.calls.Load())
}

func TestCache_FailuresAreNotCached(t *testing.T) {
	emb := &countingEmbedder{}
	emb.fail.Store(true)
	c, err := NewCache(emb, 16)
	require.NoError(t, err)

	_, err = c.Vector(context.Background(), "k", "text")
	require.Error(t, err)

	emb.fail.Store(false)
	v, err := c.Vector(context.Background(), "k", "text")
	require.NoError(t, err)
	assert.NotEmpty(t, v)
	assert.Equal(t, int32(2), emb.calls.Load())
}

func TestCache_Disabled(t *testing.T) {
	c, err := NewCache(Disabled{}, 0)
	require.NoError(t, err)
	assert.False(t, c.Available())

	_, err = c.Vector(context.Background(), "k", "text")
	assert.ErrorIs(t, err, domain.ErrEmbeddingDisabled)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Zero(t, Cosine([]float64{1}, []float64{1, 2}))
	assert.Zero(t, Cosine([]float64{0, 0}, []float64{1, 2}))
}
