package chunker

import (
	"regexp"
	"strings"

	"prospectus/internal/vocab"
)

// Strategy names the segmentation rule that produced a set of segments.
type Strategy string

const (
	StrategyPageBreak     Strategy = "page-break"
	StrategyHeading       Strategy = "heading"
	StrategyContentMarker Strategy = "content-marker"
	StrategyParagraph     Strategy = "paragraph"
)

const (
	minPageSegment    = 100
	minHeadingSegment = 500
	minMarkerSegment  = 200
)

// Segment is a coarse, titled region of a document.
type Segment struct {
	Title     string
	Text      string
	StartLine int
	// Page is set when the segment boundary is a known page boundary.
	Page     int
	Strategy Strategy
}

type segmentStrategy struct {
	name  Strategy
	split func(text string, totalPages int) ([]Segment, bool)
}

// Segmenter tries an ordered list of strategies and keeps the first that applies.
type Segmenter struct {
	largeDocumentPages int
	paragraphGroup     int
	strategies         []segmentStrategy
}

func NewSegmenter(largeDocumentPages, paragraphGroup int) *Segmenter {
	if largeDocumentPages <= 0 {
		largeDocumentPages = 100
	}
	if paragraphGroup <= 0 {
		paragraphGroup = 1500
	}
	s := &Segmenter{largeDocumentPages: largeDocumentPages, paragraphGroup: paragraphGroup}
	s.strategies = []segmentStrategy{
		{name: StrategyPageBreak, split: s.byPageBreak},
		{name: StrategyHeading, split: s.byHeading},
		{name: StrategyContentMarker, split: s.byContentMarker},
		{name: StrategyParagraph, split: s.byParagraph},
	}
	return s
}

// Segment splits normalized text. Empty text yields no segments.
func (s *Segmenter) Segment(text string, totalPages int) ([]Segment, Strategy) {
	for _, st := range s.strategies {
		if segs, ok := st.split(text, totalPages); ok {
			return segs, st.name
		}
	}
	return nil, StrategyParagraph
}

func (s *Segmenter) byPageBreak(text string, _ int) ([]Segment, bool) {
	if !strings.Contains(text, "\f") {
		return nil, false
	}
	var (
		segs      []Segment
		carry     string
		carryPage int
		carryLine int
		line      int
	)
	for i, piece := range strings.Split(text, "\f") {
		if carry == "" {
			carryPage = i + 1
			carryLine = line
		}
		line += strings.Count(piece, "\n")
		if carry != "" {
			carry += "\n\n"
		}
		carry += piece
		trimmed := strings.TrimSpace(carry)
		if runeLen(trimmed) < minPageSegment {
			continue
		}
		segs = append(segs, Segment{
			Title:     firstLine(trimmed),
			Text:      trimmed,
			StartLine: carryLine,
			Page:      carryPage,
			Strategy:  StrategyPageBreak,
		})
		carry = ""
	}
	if len(segs) == 0 {
		return nil, false
	}
	if rest := strings.TrimSpace(carry); rest != "" {
		last := &segs[len(segs)-1]
		last.Text += "\n\n" + rest
	}
	return segs, true
}

func (s *Segmenter) byHeading(text string, totalPages int) ([]Segment, bool) {
	if totalPages <= s.largeDocumentPages {
		return nil, false
	}
	segs, headings := sectionize(text, vocab.HeadingPatterns, minHeadingSegment, StrategyHeading)
	return segs, headings > 0 && len(segs) > 0
}

func (s *Segmenter) byContentMarker(text string, _ int) ([]Segment, bool) {
	segs, _ := sectionize(text, vocab.ContentMarkers, minMarkerSegment, StrategyContentMarker)
	return segs, len(segs) > 1
}

func (s *Segmenter) byParagraph(text string, _ int) ([]Segment, bool) {
	paras := paragraphs(text)
	if len(paras) == 0 {
		return nil, false
	}
	var (
		segs []Segment
		cur  []string
		size int
	)
	flush := func() {
		if len(cur) == 0 {
			return
		}
		body := strings.Join(cur, "\n\n")
		segs = append(segs, Segment{
			Title:     firstLine(body),
			Text:      body,
			StartLine: lineOf(text, cur[0]),
			Strategy:  StrategyParagraph,
		})
		cur, size = nil, 0
	}
	for _, p := range paras {
		n := runeLen(p)
		if len(cur) > 0 && size+2+n > s.paragraphGroup {
			flush()
		}
		cur = append(cur, p)
		size += n + 2
	}
	flush()
	return segs, true
}

// sectionize walks lines and opens a new section at each matching heading.
// Sections shorter than minLen are absorbed into the section that follows;
// a short tail is absorbed into the last section.
func sectionize(text string, patterns []*regexp.Regexp, minLen int, strategy Strategy) ([]Segment, int) {
	var (
		segs     []Segment
		cur      []string
		title    string
		start    int
		headings int
	)
	emit := func() {
		body := strings.TrimSpace(strings.Join(cur, "\n"))
		t := title
		if t == "" {
			t = firstLine(body)
		}
		segs = append(segs, Segment{Title: t, Text: body, StartLine: start, Strategy: strategy})
		title = ""
	}
	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if matchesAny(patterns, trimmed) {
			headings++
			if runeLen(strings.TrimSpace(strings.Join(cur, "\n"))) > minLen {
				emit()
				cur, start = nil, i
			}
			if len(cur) == 0 {
				start = i
			}
			title = trimmed
		}
		cur = append(cur, line)
	}
	rest := strings.TrimSpace(strings.Join(cur, "\n"))
	switch {
	case runeLen(rest) > minLen:
		emit()
	case rest != "" && len(segs) > 0:
		segs[len(segs)-1].Text += "\n\n" + rest
	case rest != "":
		emit()
	}
	return segs, headings
}

func matchesAny(patterns []*regexp.Regexp, line string) bool {
	if line == "" {
		return false
	}
	for _, re := range patterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	line = strings.TrimSpace(line)
	if runeLen(line) > 80 {
		line = string([]rune(line)[:80])
	}
	return line
}

// lineOf returns the zero-based line where needle first occurs in text.
func lineOf(text, needle string) int {
	idx := strings.Index(text, needle)
	if idx < 0 {
		return 0
	}
	return strings.Count(text[:idx], "\n")
}
