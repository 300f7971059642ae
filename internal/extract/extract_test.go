package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPDF(t *testing.T) {
	t.Parallel()
	assert.True(t, IsPDF([]byte("%PDF-1.7\n...")))
	assert.True(t, IsPDF([]byte("\n%PDF-1.4")))
	assert.False(t, IsPDF([]byte("FEES\nTuition")))
}

func TestPlain_CountsPages(t *testing.T) {
	t.Parallel()
	text, pages := Plain([]byte("page one\fpage two\fpage three"))
	assert.Equal(t, 3, pages)
	assert.Equal(t, "page one\fpage two\fpage three", text)
}

func TestPDF_CorruptDataIsAnError(t *testing.T) {
	t.Parallel()
	_, _, err := PDF([]byte("%PDF-1.4\nthis is not really a pdf"))
	require.Error(t, err)
}

func TestFile_PlainText(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "prospectus.txt")
	require.NoError(t, os.WriteFile(path, []byte("FEES\nTuition: TSh 500,000 per year"), 0o600))

	doc, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, "prospectus.txt", doc.Filename)
	assert.Equal(t, 1, doc.TotalPages)
	assert.Contains(t, doc.Text, "TSh 500,000")
}

func TestFile_Missing(t *testing.T) {
	t.Parallel()
	_, err := File(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
}
