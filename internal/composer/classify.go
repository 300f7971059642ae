package composer

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"

	"prospectus/internal/vocab"
)

// QuestionType is the surface form of a question.
type QuestionType string

const (
	TypeList        QuestionType = "list"
	TypeComparison  QuestionType = "comparison"
	TypeCost        QuestionType = "cost"
	TypeRequirement QuestionType = "requirement"
	TypeProcedure   QuestionType = "procedure"
	TypeDefinition  QuestionType = "definition"
	TypeContact     QuestionType = "contact"
	TypeLocation    QuestionType = "location"
	TypeTime        QuestionType = "time"
	TypeGeneral     QuestionType = "general"
)

// Checked in order; the first match wins.
var questionPatterns = []struct {
	typ QuestionType
	re  *regexp.Regexp
}{
	{TypeList, regexp.MustCompile(`(?i)what.*(?:programs?|courses?|options?|types?|kinds?)|list.*|tell me about all`)},
	{TypeComparison, regexp.MustCompile(`(?i)compare|difference|better|vs|versus|which.*better|how.*different`)},
	{TypeCost, regexp.MustCompile(`(?i)cost|fee|fees|price|tuition|expensive|cheap|afford`)},
	{TypeRequirement, regexp.MustCompile(`(?i)requirement|requirements|need|needed|qualify|eligible|criteria`)},
	{TypeProcedure, regexp.MustCompile(`(?i)how.*to|process|procedure|steps|apply|application`)},
	{TypeDefinition, regexp.MustCompile(`(?i)what.*is|define|meaning|explain|tell me about`)},
	{TypeContact, regexp.MustCompile(`(?i)contact|phone|email|address|reach|call`)},
	{TypeLocation, regexp.MustCompile(`(?i)where|location|address|campus|situated`)},
	{TypeTime, regexp.MustCompile(`(?i)when|time|date|deadline|schedule|duration`)},
}

// DetectQuestionType classifies the question by its wording alone.
func DetectQuestionType(question string) QuestionType {
	q := strings.ToLower(question)
	for _, p := range questionPatterns {
		if p.re.MatchString(q) {
			return p.typ
		}
	}
	return TypeGeneral
}

// Intent labels offered to the zero-shot classifier.
const (
	IntentFactual      = "factual information request"
	IntentComparison   = "comparison question"
	IntentProcedural   = "procedural instruction"
	IntentList         = "list or enumeration"
	IntentDefinition   = "definition or explanation"
	IntentCost         = "cost or fee inquiry"
	IntentRequirement  = "requirement or criteria"
	IntentContact      = "contact information"
	IntentConversation = "general conversation"
)

var intentLabels = []string{
	IntentFactual, IntentComparison, IntentProcedural, IntentList, IntentDefinition,
	IntentCost, IntentRequirement, IntentContact, IntentConversation,
}

// Intent is the classifier's reading of what the user wants.
type Intent struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

var defaultIntent = Intent{Label: IntentFactual, Confidence: 0.5}

func (c *Composer) classifyIntent(ctx context.Context, question string) Intent {
	prompt := fmt.Sprintf("Classify this question into one of these categories: %s. Question: %q",
		strings.Join(intentLabels, ", "), question)
	res, err := c.inf.Classify(ctx, prompt, intentLabels)
	if err != nil {
		c.log.Debug("intent classification failed, using default", zap.Error(err))
		return defaultIntent
	}
	label, score, ok := res.Top()
	if !ok {
		return defaultIntent
	}
	return Intent{Label: label, Confidence: score}
}

// IsListQuestion reports whether the question asks for an enumeration.
func IsListQuestion(question string) bool {
	q := strings.ToLower(question)
	for _, p := range vocab.ListPhrases {
		if strings.Contains(q, p) {
			return true
		}
	}
	if !containsAny(q, vocab.ListTopicWords...) {
		return false
	}
	for _, tok := range tokenRe.FindAllString(q, -1) {
		if tok == "what" || slices.Contains(vocab.ListWords, tok) {
			return true
		}
	}
	return false
}
