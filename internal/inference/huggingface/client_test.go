package huggingface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospectus/internal/domain"
)

var testModels = Models{
	QA:             "deepset/roberta-base-squad2",
	Conversational: "microsoft/DialoGPT-medium",
	Classifier:     "facebook/bart-large-mnli",
	Summarizer:     "facebook/bart-large-cnn",
	Generator:      "facebook/bart-large-cnn",
}

func newTestClient(t *testing.T, key string, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, APIKey: key, Timeout: 2 * time.Second, Models: testModels}, nil)
}

func TestAnswerQuestion_PostsInputsToModelPath(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, "hf-key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/deepset/roberta-base-squad2", r.URL.Path)
		assert.Equal(t, "Bearer hf-key", r.Header.Get("Authorization"))

		var body struct {
			Inputs struct {
				Question string `json:"question"`
				Context  string `json:"context"`
			} `json:"inputs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "How long?", body.Inputs.Question)
		assert.Equal(t, "Four years.", body.Inputs.Context)
		_, _ = w.Write([]byte(`{"answer":"Four years","score":0.9}`))
	})

	got, err := c.AnswerQuestion(context.Background(), "How long?", "Four years.")
	require.NoError(t, err)
	assert.Equal(t, "Four years", got)
}

func TestCall_RetriesOnceWithoutAuthOn401(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	c := newTestClient(t, "bad-key", func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n == 1 {
			assert.NotEmpty(t, r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"summary_text":"Short summary."}]`))
	})

	got, err := c.Summarize(context.Background(), "long text", domain.GenerateOptions{MaxLength: 100})
	require.NoError(t, err)
	assert.Equal(t, "Short summary.", got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCall_NoRetryWithoutKey(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	c := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Generate(context.Background(), "prompt", domain.GenerateOptions{})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCall_ServerErrorIsNotRetried(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	c := newTestClient(t, "k", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Summarize(context.Background(), "text", domain.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, int32(1), calls.Load())
}

func TestCall_Timeout(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	c := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond, Models: testModels}, nil)

	start := time.Now()
	_, err := c.Generate(context.Background(), "prompt", domain.GenerateOptions{})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestGenerate_ReadsGeneratedText(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		params := body["parameters"].(map[string]any)
		assert.InDelta(t, 0.7, params["temperature"], 1e-9)
		assert.Equal(t, true, params["do_sample"])
		_, _ = w.Write([]byte(`[{"generated_text":"Generated answer"}]`))
	})

	got, err := c.Generate(context.Background(), "prompt", domain.GenerateOptions{MaxLength: 150, Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "Generated answer", got)
}

func TestSummarize_EmptyResponse(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := c.Summarize(context.Background(), "text", domain.GenerateOptions{})
	require.Error(t, err)
}

func TestClassify_ResponseShapes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body string
	}{
		{"object", `{"sequence":"q","labels":["cost or fee inquiry","general conversation"],"scores":[0.8,0.2]}`},
		{"wrapped", `[{"labels":["cost or fee inquiry","general conversation"],"scores":[0.8,0.2]}]`},
		{"pairs", `[{"label":"cost or fee inquiry","score":0.8},{"label":"general conversation","score":0.2}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/facebook/bart-large-mnli", r.URL.Path)
				_, _ = w.Write([]byte(tt.body))
			})
			got, err := c.Classify(context.Background(), "how much?", []string{"cost or fee inquiry", "general conversation"})
			require.NoError(t, err)
			label, score, ok := got.Top()
			require.True(t, ok)
			assert.Equal(t, "cost or fee inquiry", label)
			assert.InDelta(t, 0.8, score, 1e-9)
		})
	}
}

func TestClassify_Malformed(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"labels":["a","b"],"scores":[0.5]}`))
	})
	_, err := c.Classify(context.Background(), "x", []string{"a", "b"})
	require.Error(t, err)
}
