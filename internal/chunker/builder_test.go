package chunker

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospectus/internal/domain"
)

func TestBuild_SingleChunkSegment(t *testing.T) {
	b := NewBuilder(2000, 1500, 100)
	doc := domain.Document{Filename: "guide.pdf", TotalPages: 1}
	segs := []Segment{{Title: "FEES", Text: "FEES\n\n" + filler(3), Strategy: StrategyContentMarker}}

	chunks := b.Build(doc, segs, 10, time.Unix(0, 0))
	require.Len(t, chunks, 1)
	assert.Equal(t, "guide.pdf_section_0", chunks[0].ID)
	assert.Equal(t, "FEES", chunks[0].SectionTitle)
	assert.Equal(t, domain.TagFees, chunks[0].Tag)
	assert.Equal(t, domain.StatusApproved, chunks[0].Status)
	assert.Equal(t, 1, chunks[0].Page)
}

func TestBuild_SplitsLargeSegments(t *testing.T) {
	b := NewBuilder(2000, 1500, 100)
	var paras []string
	for i := 0; i < 20; i++ {
		paras = append(paras, filler(6))
	}
	doc := domain.Document{Filename: "guide.pdf", TotalPages: 10}
	segs := []Segment{
		{Title: "intro", Text: filler(3), StartLine: 0, Strategy: StrategyHeading},
		{Title: "big", Text: strings.Join(paras, "\n\n"), StartLine: 50, Strategy: StrategyHeading},
	}

	chunks := b.Build(doc, segs, 100, time.Now())
	require.Greater(t, len(chunks), 2)
	assert.Equal(t, "guide.pdf_section_0", chunks[0].ID)
	assert.Equal(t, "guide.pdf_section_1_chunk_0", chunks[1].ID)
	assert.Equal(t, "guide.pdf_section_1_chunk_1", chunks[2].ID)
	for _, c := range chunks {
		assert.LessOrEqual(t, runeLen(c.Text), 2000)
	}
	assert.Equal(t, 6, chunks[1].Page)
}

func TestBuild_ParagraphSegmentsUseFallbackCeiling(t *testing.T) {
	b := NewBuilder(2000, 1500, 100)
	doc := domain.Document{Filename: "notes.txt", TotalPages: 1}
	segs := []Segment{{Text: filler(60), Strategy: StrategyParagraph}}

	chunks := b.Build(doc, segs, 1, time.Now())
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, runeLen(c.Text), 1500)
	}
}

func TestEstimatePage(t *testing.T) {
	tests := []struct {
		line, lines, pages, want int
	}{
		{0, 100, 10, 1},
		{50, 100, 10, 6},
		{99, 100, 10, 10},
		{150, 100, 10, 10},
		{5, 0, 10, 1},
		{5, 100, 0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, estimatePage(tt.line, tt.lines, tt.pages))
	}
}
