package chunker

import (
	"regexp"
	"strings"

	"prospectus/internal/vocab"
)

var (
	horizontalSpace   = regexp.MustCompile(`[ \t\v\r\x{00a0}]+`)
	leadingPageNumber = regexp.MustCompile(`(?m)(^|\f)(?:\d+ )+`)
	excessBlankLines  = regexp.MustCompile(`\n{3,}`)
)

// Normalizer cleans extracted prospectus text before segmentation.
// Newlines and form feeds survive so later stages can see line and page structure.
type Normalizer struct {
	headers *regexp.Regexp
}

// NewNormalizer builds a normalizer that also strips the given institution
// names when they fill a whole line.
func NewNormalizer(extraHeaders ...string) *Normalizer {
	tokens := make([]string, 0, len(vocab.BoilerplateHeaders)+len(extraHeaders))
	for _, h := range append(append([]string{}, vocab.BoilerplateHeaders...), extraHeaders...) {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		tokens = append(tokens, regexp.QuoteMeta(h))
	}
	return &Normalizer{
		headers: regexp.MustCompile(`(?mi)^(?:` + strings.Join(tokens, "|") + `)$`),
	}
}

// Normalize applies the cleaning rules in a fixed order. Applying it twice
// yields the same text as applying it once.
func (n *Normalizer) Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = horizontalSpace.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Trim(line, " ")
	}
	text = strings.Join(lines, "\n")

	text = leadingPageNumber.ReplaceAllString(text, "$1")
	text = n.headers.ReplaceAllString(text, "")
	text = excessBlankLines.ReplaceAllString(text, "\n\n")
	return strings.Trim(text, " \n")
}
