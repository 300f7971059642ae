package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText_PlaceholdersAndFallback(t *testing.T) {
	got := Text(Swahili, NotAnswerable, map[string]string{"question": "hali ya hewa"})
	assert.Contains(t, got, "\"hali ya hewa\"")
	assert.NotContains(t, got, "{question}")

	assert.Equal(t, "missingKey", Text(English, Key("missingKey"), nil))
	assert.Equal(t, Text(English, NoQuestion, nil), Text(Language("french"), NoQuestion, nil))
}

func TestDetectCommand(t *testing.T) {
	tests := []struct {
		q    string
		want Command
	}{
		{"Please change language to Swahili", CommandSwahili},
		{"badilisha lugha kuwa kiswahili", CommandSwahili},
		{"Badilisha lugha kuwa Kiingereza", CommandEnglish},
		{"switch to english", CommandEnglish},
		{"language help", CommandHelp},
		{"lugha?", CommandHelp},
		{"What are the fees?", CommandNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectCommand(tt.q), tt.q)
	}
}

func TestQuickResponse(t *testing.T) {
	reply, ok := QuickResponse("Hello")
	assert.True(t, ok)
	assert.Contains(t, reply, "Hello")

	_, ok = QuickResponse("hi there!")
	assert.True(t, ok)

	reply, ok = QuickResponse("So, what can you do for applicants?")
	assert.True(t, ok)
	assert.Contains(t, reply, "programs")

	_, ok = QuickResponse("Which programs are available?")
	assert.False(t, ok)
	_, ok = QuickResponse("Can you help me compare the engineering fees?")
	assert.False(t, ok)
	_, ok = QuickResponse("")
	assert.False(t, ok)
}

func TestTranslateToSwahili(t *testing.T) {
	assert.Equal(t, "ada za mipango", TranslateToSwahili("Fees za programs"))
	assert.Equal(t, "Bachelors", Localize(English, "Bachelors"))
	assert.Equal(t, "shahada ya kwanza in uhandisi", Localize(Swahili, "Bachelor in Engineering"))
}

func TestParseLanguage(t *testing.T) {
	l, ok := ParseLanguage(" Swahili ")
	assert.True(t, ok)
	assert.Equal(t, Swahili, l)
	_, ok = ParseLanguage("french")
	assert.False(t, ok)
}
