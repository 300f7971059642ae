package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospectus/internal/domain"
)

func TestPipeline_ChunkSizeInvariant(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 40; i++ {
		fmt.Fprintf(&b, "%d\nCHAPTER %d Programs and fees\n", i, i)
		for p := 0; p < 6; p++ {
			b.WriteString(filler(7 + p))
			b.WriteString("\n\n")
		}
		b.WriteString(strings.Repeat("Bachelor of Civil Engineering runs for four years. ", 90))
		b.WriteString("\n\nPROSPECTUS\n\n\n\n")
	}
	doc := domain.Document{Filename: "big.pdf", Text: b.String(), TotalPages: 300}

	p := NewPipeline(DefaultOptions())
	chunks, report := p.Process(doc)
	require.NotEmpty(t, chunks)
	assert.Equal(t, StrategyHeading, report.Strategy)
	assert.LessOrEqual(t, len(chunks), 200)

	seen := map[string]bool{}
	for _, c := range chunks {
		assert.LessOrEqual(t, runeLen(c.Text), 3000)
		assert.GreaterOrEqual(t, runeLen(strings.TrimSpace(c.Text)), 100)
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
		assert.GreaterOrEqual(t, c.Page, 1)
		assert.LessOrEqual(t, c.Page, 300)
	}
}

func TestPipeline_EmptyDocument(t *testing.T) {
	chunks, report := NewPipeline(DefaultOptions()).Process(domain.Document{Filename: "x", Text: " \n\n "})
	assert.Empty(t, chunks)
	assert.Zero(t, report.Kept)
}

func TestPipeline_DropsJunkOnlyDocument(t *testing.T) {
	chunks, _ := NewPipeline(DefaultOptions()).Process(domain.Document{Filename: "x", Text: "PROSPECTUS\n\n12\n\nPage 3"})
	assert.Empty(t, chunks)
}
