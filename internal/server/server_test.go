package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospectus/internal/metrics"
	"prospectus/internal/service"
)

const (
	feeChunk = "FEES\nTuition: TSh 500,000 per year\n\nADMISSION\nForm IV Certificate required\n\n" +
		"The campus is located in the city centre and welcomes new students every academic year from across the region."
	aboutChunk = "The institute was established to train technicians and engineers. " +
		"Its campus hosts laboratories, workshops and a library that serve students from every department."
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	a := service.New(service.Deps{}, service.Options{MinExtractedChars: 1000})
	srv := httptest.NewServer(New(a, metrics.New(), Config{}, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp, decode(t, resp)
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	return resp, decode(t, resp)
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func syncChunks(t *testing.T, srv *httptest.Server, texts ...string) {
	t.Helper()
	chunks := make([]map[string]any, len(texts))
	for i, text := range texts {
		chunks[i] = map[string]any{"text": text}
	}
	resp, body := post(t, srv, "/api/sync-from-firestore", map[string]any{"chunks": chunks})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])
	require.EqualValues(t, len(texts), body["totalChunks"])
}

func TestAnswerQuestion_FeeScenario(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	syncChunks(t, srv, feeChunk, aboutChunk)

	resp, body := post(t, srv, "/api/answer-question", map[string]any{"question": "What are the fees?"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["found"])
	assert.Equal(t, "english", body["currentLanguage"])
	answer, _ := body["answer"].(string)
	assert.Contains(t, answer, "TSh 500,000")
	assert.NotContains(t, answer, "Form IV")
	chunks, _ := body["relevantChunks"].([]any)
	assert.NotEmpty(t, chunks)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestAnswerQuestion_Errors(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp, body := post(t, srv, "/api/answer-question", map[string]any{"question": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Question is required", body["error"])

	resp, body = post(t, srv, "/api/answer-question", map[string]any{"question": "What are the fees?"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "No PDF uploaded", body["error"])
}

func TestAnswerQuestion_WeatherNotCovered(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	syncChunks(t, srv, feeChunk)

	_, body := post(t, srv, "/api/answer-question", map[string]any{"question": "What is the weather like today?"})
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["found"])
	assert.Empty(t, body["relevantChunks"])
}

func TestSync_RequiresChunks(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	resp, body := post(t, srv, "/api/sync", map[string]any{"items": []string{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Chunks array is required", body["error"])
}

func TestContentAndAdmissionInfo(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp, _ := post(t, srv, "/api/admission-info", map[string]any{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	syncChunks(t, srv, feeChunk, aboutChunk)

	_, body := get(t, srv, "/api/content")
	assert.EqualValues(t, 2, body["totalChunks"])
	items, _ := body["chunks"].([]any)
	require.Len(t, items, 2)
	first, _ := items[0].(map[string]any)
	assert.Equal(t, "firestore_content.pdf", first["filename"])
	assert.True(t, strings.HasSuffix(first["textPreview"].(string), "..."))

	_, body = post(t, srv, "/api/admission-info", map[string]any{})
	assert.Equal(t, true, body["success"])
	info, _ := body["admissionInfo"].(map[string]any)
	assert.Contains(t, info, "fees")
}

func TestSummarize(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	_, body := post(t, srv, "/api/summarize-pdf", map[string]any{"type": "full"})
	assert.Equal(t, false, body["success"])

	syncChunks(t, srv, feeChunk, aboutChunk)
	_, body = post(t, srv, "/api/summarize-pdf", map[string]any{"type": "fees"})
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "fees", body["type"])
	assert.Equal(t, true, body["extractive"])
	assert.NotEmpty(t, body["summary"])
}

func TestLanguage(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	_, body := get(t, srv, "/api/language")
	assert.Equal(t, "english", body["currentLanguage"])

	resp, _ := post(t, srv, "/api/language", map[string]any{"language": "french"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, body = post(t, srv, "/api/language", map[string]any{"language": "Swahili"})
	assert.Equal(t, "english", body["oldLanguage"])
	assert.Equal(t, "swahili", body["newLanguage"])

	_, body = get(t, srv, "/api/language")
	assert.Equal(t, "swahili", body["currentLanguage"])
}

func TestProcessPDF_RejectsNonPDF(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp, body := post(t, srv, "/api/process-pdf", map[string]any{
		"pdfData":  base64.StdEncoding.EncodeToString([]byte("just some text")),
		"filename": "notes.txt",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Only PDF files are allowed", body["error"])

	resp, body = post(t, srv, "/api/process-pdf", map[string]any{"pdfData": "%%%"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid base64 PDF data", body["error"])
}

func TestProcessPDF_MultipartExtractionFailure(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("pdf", "broken.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.4\nnot really a pdf"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/process-pdf", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	body := decode(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "PDF text extraction failed", body["error"])
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp, body := get(t, srv, "/api/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	checks, _ := body["checks"].(map[string]any)
	assert.Equal(t, "empty", checks["contentLoaded"])
	assert.Equal(t, "missing", checks["inference"])

	_, body = get(t, srv, "/")
	assert.Equal(t, "healthy", body["status"])

	mresp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer mresp.Body.Close()
	scrape, err := io.ReadAll(mresp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, mresp.StatusCode)
	assert.Contains(t, string(scrape), `prospectus_http_requests_total{code="200",route="/api/health"} 1`)
}
