package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prospectus/internal/config"
	"prospectus/internal/service"
)

func TestNewInference(t *testing.T) {
	log := zap.NewNop()

	inf, err := newInference(config.InferenceConfig{Provider: "none"}, log)
	require.NoError(t, err)
	assert.Equal(t, "none", inf.Name())

	inf, err = newInference(config.InferenceConfig{Provider: "huggingface"}, log)
	require.NoError(t, err)
	assert.Equal(t, "huggingface", inf.Name())

	_, err = newInference(config.InferenceConfig{Provider: "anthropic", APIKeyEnv: "PROSPECTUS_TEST_UNSET_KEY"}, log)
	assert.Error(t, err)

	_, err = newInference(config.InferenceConfig{Provider: "mystery"}, log)
	assert.Error(t, err)
}

func TestNewEmbedder(t *testing.T) {
	emb, err := newEmbedder(config.EmbedderConfig{Type: "none"})
	require.NoError(t, err)
	assert.False(t, emb.Available())

	_, err = newEmbedder(config.EmbedderConfig{Type: "openai"})
	assert.Error(t, err)
}

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	c, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	c.Inference.Provider = "none"
	return c
}

func TestNewApp_AnswersFromIngestedFile(t *testing.T) {
	a, err := newApp(testConfig(t), zap.NewNop())
	require.NoError(t, err)

	para := "Admission requirements: applicants must hold a Form IV certificate with four credit passes " +
		"in relevant subjects, including mathematics and physics, before registration.\n\n"
	path := filepath.Join(t.TempDir(), "prospectus.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat(para, 8)), 0o644))

	res, err := loadFile(context.Background(), a, path)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Chunks)

	reply, err := a.assistant.Ask(context.Background(), service.Query{Question: "What are the admission requirements?"})
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeAnswered, reply.Outcome)
	assert.Contains(t, reply.Answer, "Form IV")
}

func TestIngestCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prospectus.txt")
	para := "The institute offers diploma and bachelor programmes in engineering and technology across several departments.\n\n"
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat(para, 12)), 0o644))

	cfg = testConfig(t)
	var out bytes.Buffer
	ingestCmd.SetOut(&out)
	ingestCmd.SetContext(context.Background())
	require.NoError(t, ingestCmd.RunE(ingestCmd, []string{path}))
	assert.Contains(t, out.String(), "ID")
	assert.Contains(t, out.String(), "prospectus.txt")
}
