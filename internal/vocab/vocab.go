// Package vocab holds the static keyword tables that drive tagging, scoring,
// question classification and structured extraction. Algorithms elsewhere
// read these tables and never embed their own word lists.
package vocab

import (
	"regexp"

	"prospectus/internal/domain"
)

// TagRule maps a topic tag to the keywords that select it.
type TagRule struct {
	Tag      domain.Tag
	Keywords []string
}

// TagRules are evaluated in order; the first rule with a keyword present wins.
var TagRules = []TagRule{
	{Tag: domain.TagPrograms, Keywords: []string{"program", "course", "degree"}},
	{Tag: domain.TagFees, Keywords: []string{"fee", "cost", "tuition"}},
	{Tag: domain.TagAdmissions, Keywords: []string{"admission", "requirement", "entry"}},
	{Tag: domain.TagContact, Keywords: []string{"contact", "phone", "email"}},
	{Tag: domain.TagAbout, Keywords: []string{"about", "university", "institution"}},
}

// WeightedTerms awards Weight once when any of Terms occurs in a chunk.
type WeightedTerms struct {
	Weight float64
	Terms  []string
}

// IntrinsicTerms score a chunk independent of any question.
var IntrinsicTerms = []WeightedTerms{
	{Weight: 10, Terms: []string{"bachelor", "master", "diploma"}},
	{Weight: 8, Terms: []string{"program", "course", "degree"}},
	{Weight: 7, Terms: []string{"fee", "cost", "tuition"}},
	{Weight: 7, Terms: []string{"admission", "requirement", "entry"}},
	{Weight: 6, Terms: []string{"contact", "phone", "email"}},
	{Weight: 5, Terms: []string{"duration:", "requirements:", "career:"}},
}

// TopicBoost adds weight for each synonym present when the question mentions Anchor.
type TopicBoost struct {
	Anchor   string
	Synonyms []string
}

// EnhancedTopicBoosts are used by the hybrid ranker (+3 per synonym).
var EnhancedTopicBoosts = []TopicBoost{
	{Anchor: "program", Synonyms: []string{"bachelor", "master", "diploma", "degree", "course", "study"}},
	{Anchor: "fee", Synonyms: []string{"cost", "tuition", "payment", "scholarship", "financial", "tsh"}},
	{Anchor: "admission", Synonyms: []string{"requirement", "entry", "application", "qualify", "eligible", "form"}},
	{Anchor: "contact", Synonyms: []string{"phone", "email", "address", "office", "location", "reach"}},
	{Anchor: "campus", Synonyms: []string{"location", "address", "situated", "building", "facility"}},
	{Anchor: "duration", Synonyms: []string{"year", "years", "semester", "month", "time", "period"}},
}

// SimpleTopicBoosts are used by the simple ranker (+5 per synonym).
var SimpleTopicBoosts = []TopicBoost{
	{Anchor: "fee", Synonyms: []string{"fee", "cost", "tuition", "payment", "price", "ksh"}},
	{Anchor: "admission", Synonyms: []string{"admission", "requirement", "entry", "kcse", "grade"}},
	{Anchor: "program", Synonyms: []string{"program", "course", "degree", "bachelor", "master"}},
	{Anchor: "application", Synonyms: []string{"application", "apply", "deadline", "form"}},
	{Anchor: "contact", Synonyms: []string{"contact", "phone", "email", "address"}},
}

// Stopwords never contribute to lexical overlap.
var Stopwords = map[string]struct{}{}

func init() {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"what", "which", "who", "whom", "whose", "when", "where", "why", "how", "does", "did", "you", "your", "there", "any", "all", "tell", "please", "give", "get", "has", "have", "need",
	}
	for _, w := range words {
		Stopwords[w] = struct{}{}
	}
}

// BoilerplateHeaders are running headers removed when they fill a whole line.
var BoilerplateHeaders = []string{"DIT", "UNIVERSITY", "PROSPECTUS"}

// JunkPatterns match chunk text that carries no answerable content.
var JunkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(page|chapter|section)\s+\d+$`),
	regexp.MustCompile(`(?i)^(dit|university|prospectus)$`),
	regexp.MustCompile(`(?i)^(table of contents|contents|index)$`),
	regexp.MustCompile(`(?i)^(copyright|all rights reserved)$`),
	regexp.MustCompile(`(?i)^(?:©|copyright\b)[^\n]*$`),
}

// HeadingPatterns start a new section in long documents.
var HeadingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(CHAPTER|SECTION|PART)\s+\d+`),
	regexp.MustCompile(`(?i)^(UNDERGRADUATE|POSTGRADUATE|GRADUATE)\s+(PROGRAMS?|PROGRAMMES?|COURSES?)`),
	regexp.MustCompile(`(?i)^(BACHELOR|MASTER|DIPLOMA|CERTIFICATE)\s+(PROGRAMS?|PROGRAMMES?|DEGREES?)`),
	regexp.MustCompile(`(?i)^(SCHOOL|FACULTY|DEPARTMENT)\s+OF`),
	regexp.MustCompile(`(?i)^(ADMISSION|ADMISSIONS?)\s+(REQUIREMENTS?|PROCEDURES?)`),
	regexp.MustCompile(`(?i)^(FEE|FEES)\s+(STRUCTURE|SCHEDULE)`),
	regexp.MustCompile(`(?i)^(ACADEMIC|CURRICULUM)\s+(PROGRAMS?|STRUCTURE)`),
	regexp.MustCompile(`(?i)^(CONTACT|CONTACTS?)\s+(INFORMATION|DETAILS?)`),
	regexp.MustCompile(`(?i)^\d+\.\s+(PROGRAMS?|PROGRAMMES?|COURSES?|DEGREES?)`),
}

// ContentMarkers start a new section in shorter documents. They are matched
// against upper-case line prefixes so running prose does not split sections.
var ContentMarkers = []*regexp.Regexp{
	regexp.MustCompile(`^(?:PROGRAMS?|PROGRAMMES?|COURSES?|DEGREES?)\b`),
	regexp.MustCompile(`^(?:FEE|FEES|TUITION|COST)\b`),
	regexp.MustCompile(`^(?:ADMISSION|ADMISSIONS|ENTRY)\b`),
	regexp.MustCompile(`^(?:CONTACT|CONTACTS)\b`),
	regexp.MustCompile(`^(?:ABOUT|INTRODUCTION|OVERVIEW)\b`),
	regexp.MustCompile(`^(?:FACILITIES|INFRASTRUCTURE)\b`),
	regexp.MustCompile(`^(?:ACADEMIC|CURRICULUM)\b`),
}

// AnswerableKeywords mark questions a prospectus can usually answer.
var AnswerableKeywords = []string{
	"program", "course", "degree", "diploma", "certificate", "bachelor", "master",
	"fee", "cost", "tuition", "price", "payment",
	"admission", "requirement", "entry", "qualification",
	"campus", "location", "address", "contact",
	"duration", "semester", "year",
	"department", "faculty", "school",
	"dit", "university", "institute", "technology",
}

// UnanswerableKeywords mark questions outside what a prospectus covers.
var UnanswerableKeywords = []string{
	"weather", "climate", "temperature",
	"restaurant", "food", "hotel", "accommodation",
	"transport", "bus", "flight", "travel",
	"politics", "government", "president",
	"sports", "football", "soccer",
	"entertainment", "movie", "music",
	"shopping", "market", "store",
}

// AdmissionKeywords select chunks for the admission-info digest.
var AdmissionKeywords = []string{
	"admission", "admissions", "entry", "requirements", "requirement",
	"application", "apply", "eligibility", "qualify", "qualification",
	"entrance", "enroll", "enrollment", "registration", "register",
	"fee", "fees", "cost", "tuition", "payment", "scholarship",
	"deadline", "date", "semester", "academic year", "intake",
}
