package chunker

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filler(n int) string {
	return strings.TrimSpace(strings.Repeat("The campus offers modern laboratories and libraries. ", n))
}

func alnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func joined(segs []Segment) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s.Text
	}
	return strings.Join(parts, "\n")
}

func TestSegment_PageBreak(t *testing.T) {
	s := NewSegmenter(100, 1500)
	text := filler(3) + "\f" + filler(4) + "\f" + filler(5)

	segs, strategy := s.Segment(text, 3)
	require.Len(t, segs, 3)
	assert.Equal(t, StrategyPageBreak, strategy)
	for i, seg := range segs {
		assert.Equal(t, i+1, seg.Page)
	}
	assert.Equal(t, alnum(text), alnum(joined(segs)))
}

func TestSegment_PageBreakMergesShortPages(t *testing.T) {
	s := NewSegmenter(100, 1500)
	text := filler(3) + "\fPage 2\f" + filler(3)

	segs, strategy := s.Segment(text, 3)
	require.Len(t, segs, 2)
	assert.Equal(t, StrategyPageBreak, strategy)
	assert.Equal(t, 2, segs[1].Page)
	assert.Contains(t, segs[1].Text, "Page 2")
	assert.Equal(t, alnum(text), alnum(joined(segs)))
}

func TestSegment_PageBreakNeedsOneLongPage(t *testing.T) {
	s := NewSegmenter(100, 1500)
	_, strategy := s.Segment("short\fpages", 2)
	assert.Equal(t, StrategyParagraph, strategy)
}

func TestSegment_HeadingsOnlyForLargeDocuments(t *testing.T) {
	s := NewSegmenter(100, 1500)
	text := "CHAPTER 1 Introduction\n" + filler(12) + "\nCHAPTER 2 Programs\n" + filler(12) + "\nCHAPTER 3 Fees\n" + filler(12)

	segs, strategy := s.Segment(text, 150)
	assert.Equal(t, StrategyHeading, strategy)
	require.Len(t, segs, 3)
	assert.Equal(t, "CHAPTER 2 Programs", segs[1].Title)
	assert.Equal(t, alnum(text), alnum(joined(segs)))

	_, strategy = s.Segment(text, 20)
	assert.NotEqual(t, StrategyHeading, strategy)
}

func TestSegment_HeadingAbsorbsShortSections(t *testing.T) {
	s := NewSegmenter(100, 1500)
	text := "CHAPTER 1 Preface\nshort\nCHAPTER 2 Programs\n" + filler(12) + "\nCHAPTER 3 Tail\nbrief"

	segs, strategy := s.Segment(text, 150)
	assert.Equal(t, StrategyHeading, strategy)
	require.Len(t, segs, 1)
	assert.Contains(t, segs[0].Text, "Preface")
	assert.Contains(t, segs[0].Text, "brief")
	assert.Equal(t, alnum(text), alnum(joined(segs)))
}

func TestSegment_ContentMarkers(t *testing.T) {
	s := NewSegmenter(100, 1500)
	text := "PROGRAMS OFFERED\n" + filler(5) + "\n\nFEES STRUCTURE\n" + filler(5) + "\n\nCONTACT DETAILS\n" + filler(5)

	segs, strategy := s.Segment(text, 10)
	assert.Equal(t, StrategyContentMarker, strategy)
	require.Len(t, segs, 3)
	assert.Equal(t, "FEES STRUCTURE", segs[1].Title)
	assert.Equal(t, alnum(text), alnum(joined(segs)))
}

func TestSegment_ParagraphFallback(t *testing.T) {
	s := NewSegmenter(100, 1500)
	var paras []string
	for i := 0; i < 12; i++ {
		paras = append(paras, filler(4))
	}
	text := strings.Join(paras, "\n\n")

	segs, strategy := s.Segment(text, 5)
	assert.Equal(t, StrategyParagraph, strategy)
	require.NotEmpty(t, segs)
	for _, seg := range segs {
		assert.LessOrEqual(t, runeLen(seg.Text), 1500)
	}
	assert.Equal(t, alnum(text), alnum(joined(segs)))
}

func TestSegment_Empty(t *testing.T) {
	segs, _ := NewSegmenter(100, 1500).Segment("", 1)
	assert.Empty(t, segs)
}

func TestSentences_Reassemble(t *testing.T) {
	text := "First one. Second?! Third without end"
	assert.Equal(t, text, strings.Join(sentences(text), ""))
	assert.Len(t, sentences(text), 3)
}

func TestSplitWindows_Bounds(t *testing.T) {
	text := strings.Repeat("word ", 1000) + strings.Repeat("x", 700)
	pieces := splitWindows(text, 300)
	require.NotEmpty(t, pieces)
	for _, p := range pieces {
		assert.LessOrEqual(t, runeLen(p), 300)
		assert.NotEmpty(t, p)
	}
	assert.Equal(t, alnum(text), alnum(strings.Join(pieces, "")))
}
