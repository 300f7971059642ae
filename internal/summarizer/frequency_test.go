package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prospectus = "The institute was founded in 1957 in the city centre. " +
	"Tuition for the bachelor programme is TSh 1,300,000 per year. " +
	"The library opens every weekday from eight until late. " +
	"Admission requires a Form IV certificate with four credit passes. " +
	"Students may join several clubs and societies on campus."

func TestFocused_PrefersFocusSentences(t *testing.T) {
	t.Parallel()
	s := NewFrequencySummarizer()

	fees := s.Focused(prospectus, FocusFees, 1, 0)
	assert.Contains(t, fees, "TSh 1,300,000")

	admission := s.Focused(prospectus, FocusAdmission, 1, 0)
	assert.Contains(t, admission, "Form IV")
}

func TestFocused_KeepsDocumentOrder(t *testing.T) {
	t.Parallel()
	out := NewFrequencySummarizer().Focused(prospectus, FocusOverview, 3, 0)
	sentences := strings.SplitAfter(out, ". ")
	require.Len(t, sentences, 3)
	last := -1
	for _, sent := range sentences {
		idx := strings.Index(prospectus, strings.TrimSpace(sent))
		require.GreaterOrEqual(t, idx, 0, sent)
		assert.Greater(t, idx, last)
		last = idx
	}
}

func TestFocused_Clips(t *testing.T) {
	t.Parallel()
	out := NewFrequencySummarizer().Focused(prospectus, FocusOverview, 5, 50)
	assert.Equal(t, 50, len([]rune(out)))
	assert.True(t, strings.HasSuffix(out, "..."))
}

func TestSummarize_NoSentences(t *testing.T) {
	t.Parallel()
	out, err := NewFrequencySummarizer().Summarize("  just words  ", 3)
	require.NoError(t, err)
	assert.Equal(t, "just words", out)
}
