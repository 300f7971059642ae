package chunker

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// paragraphs splits text on blank lines and drops empty pieces.
func paragraphs(text string) []string {
	var out []string
	for _, p := range paragraphBreak.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// sentences splits text after runs of terminal punctuation followed by
// whitespace. Concatenating the result gives back the input.
func sentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		if !isTerminal(text[i]) {
			continue
		}
		j := i + 1
		for j < len(text) && isTerminal(text[j]) {
			j++
		}
		if j == len(text) || text[j] == ' ' || text[j] == '\n' || text[j] == '\t' || text[j] == '\f' {
			out = append(out, text[start:j])
			start = j
		}
		i = j - 1
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

func isTerminal(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

// splitWindows cuts text into trimmed pieces of at most limit characters,
// preferring sentence ends and falling back to whitespace.
func splitWindows(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if runeLen(text) <= limit {
		return []string{text}
	}

	var (
		out    []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			out = append(out, s)
		}
		cur.Reset()
		curLen = 0
	}
	for _, s := range sentences(text) {
		n := runeLen(s)
		if n > limit {
			flush()
			out = append(out, hardCut(s, limit)...)
			continue
		}
		if curLen+n > limit {
			flush()
		}
		cur.WriteString(s)
		curLen += n
	}
	flush()
	return out
}

// hardCut splits at the last whitespace in the back half of each window,
// or exactly at limit when there is none.
func hardCut(text string, limit int) []string {
	var out []string
	runes := []rune(strings.TrimSpace(text))
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if unicode.IsSpace(runes[i]) {
				cut = i
				break
			}
		}
		if piece := strings.TrimSpace(string(runes[:cut])); piece != "" {
			out = append(out, piece)
		}
		runes = []rune(strings.TrimLeftFunc(string(runes[cut:]), unicode.IsSpace))
	}
	if piece := strings.TrimSpace(string(runes)); piece != "" {
		out = append(out, piece)
	}
	return out
}
