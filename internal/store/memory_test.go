package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospectus/internal/domain"
)

func chunkSet(prefix string, n int) []domain.Chunk {
	out := make([]domain.Chunk, n)
	for i := range out {
		out[i] = domain.Chunk{ID: fmt.Sprintf("%s-%d", prefix, i), Text: prefix}
	}
	return out
}

func TestStorage_ReplaceAndSnapshot(t *testing.T) {
	s := NewStorage()
	assert.Nil(t, s.Snapshot())
	assert.Equal(t, 0, s.Snapshot().Len())

	in := chunkSet("a", 3)
	snap := s.Replace(in, "upload")
	in[0].Text = "mutated"

	got := s.Snapshot()
	require.NotNil(t, got)
	assert.Same(t, snap, got)
	assert.Equal(t, "a", got.Chunks[0].Text)
	assert.Equal(t, uint64(1), got.Generation)
	assert.Equal(t, "upload", got.Source)

	s.Replace(chunkSet("b", 2), "sync")
	assert.Equal(t, uint64(2), s.Snapshot().Generation)
	assert.Equal(t, "a", snap.Chunks[0].Text, "old snapshot unchanged")

	s.Clear()
	assert.Nil(t, s.Snapshot())
}

func TestStorage_ReadersSeeCompleteSets(t *testing.T) {
	s := NewStorage()
	s.Replace(chunkSet("a", 50), "a")

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := s.Snapshot()
				first := snap.Chunks[0].Text
				for _, c := range snap.Chunks {
					if c.Text != first {
						t.Errorf("mixed snapshot: %s and %s", first, c.Text)
						return
					}
				}
				want := 50
				if first == "b" {
					want = 70
				}
				if len(snap.Chunks) != want {
					t.Errorf("partial snapshot: %d chunks", len(snap.Chunks))
					return
				}
			}
		}()
	}
	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			s.Replace(chunkSet("b", 70), "b")
		} else {
			s.Replace(chunkSet("a", 50), "a")
		}
	}
	close(stop)
	wg.Wait()
}
