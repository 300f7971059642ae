package composer

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"prospectus/internal/i18n"
	"prospectus/internal/vocab"
)

// topic is the kind of structured answer an enumeration question wants.
type topic int

const (
	topicKeyInfo topic = iota
	topicFees
	topicPrograms
	topicRequirements
	topicContacts
)

func questionTopic(question string) topic {
	q := strings.ToLower(question)
	switch {
	case containsAny(q, "fee", "cost", "tuition") && !strings.Contains(q, "program"):
		return topicFees
	case containsAny(q, "program", "course", "degree"):
		return topicPrograms
	case containsAny(q, "requirement", "admission"):
		return topicRequirements
	case containsAny(q, "contact", "phone", "email"):
		return topicContacts
	}
	return topicKeyInfo
}

// extraction is an itemized answer pulled straight from chunk text.
type extraction struct {
	topic topic
	items []string
}

func extract(question, text string) extraction {
	t := questionTopic(question)
	var items []string
	switch t {
	case topicFees:
		items = Fees(text)
	case topicPrograms:
		items = Programs(text)
	case topicRequirements:
		items = Requirements(text)
	case topicContacts:
		items = Contacts(text)
	default:
		items = KeySentences(text, question)
	}
	return extraction{topic: t, items: items}
}

// render formats the extraction. Without items it returns the topic's
// stock reply when there is one.
func (e extraction) render(lang i18n.Language) (string, bool) {
	if len(e.items) == 0 {
		switch e.topic {
		case topicFees:
			return i18n.Text(lang, i18n.FeesNotFound, nil), true
		case topicPrograms:
			return i18n.Text(lang, i18n.ProgramsMissing, nil), true
		}
		return "", false
	}

	var b strings.Builder
	switch e.topic {
	case topicFees:
		b.WriteString(i18n.Text(lang, i18n.FeesIntro, nil) + "\n\n")
		numbered(&b, lang, e.items)
		b.WriteString("\n\n" + i18n.Text(lang, i18n.FeesNote, nil))
	case topicPrograms:
		b.WriteString(i18n.Text(lang, i18n.ProgramsIntro, nil) + "\n\n")
		numbered(&b, lang, e.items)
		b.WriteString("\n\n" + i18n.Text(lang, i18n.CampusInfo, nil))
	case topicRequirements:
		b.WriteString(i18n.Text(lang, i18n.RequirementsIntro, nil) + "\n\n")
		numbered(&b, lang, e.items)
	case topicContacts:
		b.WriteString(i18n.Text(lang, i18n.ContactIntro, nil) + "\n\n")
		b.WriteString(strings.Join(e.items, "\n"))
	default:
		b.WriteString(i18n.Text(lang, i18n.KeyPointsIntro, nil) + "\n\n")
		b.WriteString(strings.Join(e.items, ". ") + ".")
	}
	return b.String(), true
}

func numbered(b *strings.Builder, lang i18n.Language, items []string) {
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i+1) + ". " + i18n.Localize(lang, it))
	}
}

var titleCaser = cases.Title(language.English)

// Programs lists the recognised programs in text with their levels,
// de-duplicated and sorted.
func Programs(text string) []string {
	set := map[string]struct{}{}
	upper := strings.ToUpper(text)
	for _, name := range vocab.ProgramNames {
		if !strings.Contains(upper, name) {
			continue
		}
		title := titleCaser.String(strings.ToLower(name))
		leveled := false
		for _, lvl := range vocab.ProgramLevels {
			for _, prefix := range lvl.Prefixes {
				if strings.Contains(upper, prefix+name) {
					set[lvl.Name+" in "+title] = struct{}{}
					leveled = true
					break
				}
			}
		}
		if !leveled {
			set[title] = struct{}{}
		}
	}
	for _, m := range vocab.DepartmentPattern.FindAllStringSubmatch(text, -1) {
		dept := strings.TrimSpace(m[1])
		if n := utf8.RuneCountInString(dept); n > 5 && n < 50 {
			set["Programs in "+dept] = struct{}{}
		}
	}
	return sorted(set)
}

var spaceRun = regexp.MustCompile(`\s+`)

// Fees lists fee lines and amounts found in text, de-duplicated and sorted.
func Fees(text string) []string {
	set := map[string]struct{}{}
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if containsAny(lower, vocab.FeeLineTerms...) && containsAny(lower, vocab.FeePeriodTerms...) {
			clean := strings.TrimSpace(strings.TrimLeft(line, "- \t"))
			if n := utf8.RuneCountInString(clean); n > 15 && n < 200 {
				set[clean] = struct{}{}
			}
		}
		for _, re := range vocab.FeeAmountPatterns {
			for _, m := range re.FindAllString(line, -1) {
				if m = strings.TrimSpace(m); len(m) > 5 {
					set[m] = struct{}{}
				}
			}
		}
	}
	for _, re := range vocab.ProgramFeePatterns {
		for _, m := range re.FindAllString(text, -1) {
			clean := strings.TrimSpace(spaceRun.ReplaceAllString(m, " "))
			if n := utf8.RuneCountInString(clean); n > 10 && n < 150 {
				set[clean] = struct{}{}
			}
		}
	}
	return sorted(set)
}

// Requirements lists the qualifying lines that follow a requirements
// or entry heading, in document order.
func Requirements(text string) []string {
	var out []string
	inSection := false
	for _, line := range strings.Split(text, "\n") {
		if containsAny(strings.ToUpper(line), vocab.RequirementHeaders...) {
			inSection = true
			continue
		}
		if !inSection || strings.TrimSpace(line) == "" {
			continue
		}
		if containsAny(line, vocab.RequirementMarkers...) {
			out = append(out, strings.TrimSpace(strings.TrimLeft(line, "- \t")))
		}
	}
	return out
}

// Contacts lists lines carrying an email, phone number or address.
func Contacts(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if containsAny(line, vocab.ContactMarkers...) {
			out = append(out, strings.TrimSpace(strings.TrimLeft(line, "- \t")))
		}
	}
	return out
}

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// KeySentences returns up to five sentences of text that mention a
// question word longer than three characters.
func KeySentences(text, question string) []string {
	var words []string
	for _, w := range strings.Split(strings.ToLower(question), " ") {
		if w = strings.Trim(w, "?!.,;:"); len(w) > 3 {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return nil
	}
	var out []string
	for _, s := range sentenceEnd.Split(text, -1) {
		if len(strings.TrimSpace(s)) <= 20 {
			continue
		}
		if !containsAny(strings.ToLower(s), words...) {
			continue
		}
		out = append(out, strings.TrimSpace(s))
		if len(out) == 5 {
			break
		}
	}
	return out
}

func sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
