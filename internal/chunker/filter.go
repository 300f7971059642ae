package chunker

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"prospectus/internal/domain"
	"prospectus/internal/vocab"
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Selector drops junk chunks, splits oversize ones and caps the set size.
type Selector struct {
	minLength  int
	maxLength  int
	splitSize  int
	maxChunks  int
	minDensity float64
}

func NewSelector(minLength, maxLength, splitSize, maxChunks int) *Selector {
	if minLength <= 0 {
		minLength = 100
	}
	if maxLength <= 0 {
		maxLength = 3000
	}
	if splitSize <= 0 || splitSize > maxLength {
		splitSize = maxLength / 2
	}
	if maxChunks <= 0 {
		maxChunks = 200
	}
	return &Selector{
		minLength:  minLength,
		maxLength:  maxLength,
		splitSize:  splitSize,
		maxChunks:  maxChunks,
		minDensity: 0.3,
	}
}

// IsJunk reports whether text is too short, boilerplate or mostly symbols.
func (s *Selector) IsJunk(text string) bool {
	text = strings.TrimSpace(text)
	if runeLen(text) < s.minLength {
		return true
	}
	return s.isNoise(text)
}

// isNoise is IsJunk without the length floor.
func (s *Selector) isNoise(text string) bool {
	n := runeLen(text)
	if n == 0 {
		return true
	}
	if digitsOnly.MatchString(text) {
		return true
	}
	for _, re := range vocab.JunkPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	var alnum int
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
	}
	return float64(alnum)/float64(n) < s.minDensity
}

// Select returns the kept chunks in document order.
func (s *Selector) Select(chunks []domain.Chunk) []domain.Chunk {
	var kept []domain.Chunk
	for _, c := range chunks {
		c.Text = strings.TrimSpace(c.Text)
		if runeLen(c.Text) <= s.maxLength {
			if !s.IsJunk(c.Text) {
				kept = append(kept, c)
			}
			continue
		}
		for k, piece := range s.mergeShort(splitWindows(c.Text, s.splitSize)) {
			if s.isNoise(piece) {
				continue
			}
			part := c
			part.ID = fmt.Sprintf("%s_split_%d", c.ID, k)
			part.Text = piece
			part.Tag = DetectTag(piece)
			kept = append(kept, part)
		}
	}
	return s.capped(kept)
}

// mergeShort folds pieces under the minimum length into a neighbour so a
// split never loses text. A short first piece joins the one after it.
func (s *Selector) mergeShort(pieces []string) []string {
	var out []string
	for _, p := range pieces {
		if last := len(out) - 1; last >= 0 &&
			(runeLen(p) < s.minLength || runeLen(out[last]) < s.minLength) &&
			runeLen(out[last])+1+runeLen(p) <= s.maxLength {
			out[last] += " " + p
			continue
		}
		out = append(out, p)
	}
	return out
}

// capped keeps the highest scoring chunks when the set is too large.
// Ties keep the earlier chunk.
func (s *Selector) capped(chunks []domain.Chunk) []domain.Chunk {
	if len(chunks) <= s.maxChunks {
		return chunks
	}
	order := make([]int, len(chunks))
	scores := make([]float64, len(chunks))
	for i, c := range chunks {
		order[i] = i
		scores[i] = IntrinsicScore(c.Text)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	top := order[:s.maxChunks]
	sort.Ints(top)
	out := make([]domain.Chunk, 0, len(top))
	for _, i := range top {
		out = append(out, chunks[i])
	}
	return out
}
