package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port"`
	MaxUploadMB int      `yaml:"max_upload_mb"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// PipelineConfig tunes ingestion and chunking.
type PipelineConfig struct {
	LargeDocumentPages int      `yaml:"large_document_pages"`
	MinExtractedChars  int      `yaml:"min_extracted_chars"`
	MaxChunkSize       int      `yaml:"max_chunk_size"`
	FallbackChunkSize  int      `yaml:"fallback_chunk_size"`
	MinChunkLength     int      `yaml:"min_chunk_length"`
	MaxChunkLength     int      `yaml:"max_chunk_length"`
	MaxChunks          int      `yaml:"max_chunks"`
	InstitutionNames   []string `yaml:"institution_names"`
}

// RankingConfig selects the relevance ranking mode.
type RankingConfig struct {
	Mode string `yaml:"mode"`
}

// ModelsConfig names the remote model used for each inference task.
type ModelsConfig struct {
	QAPrimary      string `yaml:"qa_primary"`
	Conversational string `yaml:"conversational"`
	Classifier     string `yaml:"classifier"`
	Summarizer     string `yaml:"summarizer"`
	Generator      string `yaml:"generator"`
}

// InferenceConfig selects and configures the remote text model provider.
type InferenceConfig struct {
	Provider      string       `yaml:"provider"`
	BaseURL       string       `yaml:"base_url"`
	APIKeyEnv     string       `yaml:"api_key_env"`
	TimeoutSecs   int          `yaml:"timeout_secs"`
	RatePerSecond float64      `yaml:"rate_per_second"`
	Models        ModelsConfig `yaml:"models"`
	// ChatModel is used by the anthropic provider.
	ChatModel string `yaml:"chat_model"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type      string                `yaml:"type"`
	CacheSize int                   `yaml:"cache_size"`
	OpenAI    *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// ContentStoreConfig locates the external chunk store used by sync.
type ContentStoreConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// SummarizerConfig configures the local extractive summarizer.
type SummarizerConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server       ServerConfig       `yaml:"server"`
	Log          LogConfig          `yaml:"log"`
	Pipeline     PipelineConfig     `yaml:"pipeline"`
	Ranking      RankingConfig      `yaml:"ranking"`
	Inference    InferenceConfig    `yaml:"inference"`
	Embedder     EmbedderConfig     `yaml:"embedder"`
	ContentStore ContentStoreConfig `yaml:"contentstore"`
	Summarizer   SummarizerConfig   `yaml:"summarizer"`
	Language     string             `yaml:"language"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, eris.Wrapf(err, "config: read %s", path)
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, eris.Wrapf(err, "config: parse %s", path)
	}
	applyConfigDefaults(cfg)
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/prospectus/config.yaml.
// If neither exists, it writes defaults to ~/.config/prospectus/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "config: create config dir")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return eris.Wrap(err, "config: marshal")
	}
	return eris.Wrap(os.WriteFile(path, data, 0o644), "config: write")
}

// APIKey reads the secret named by envName, returning "" when unset.
func APIKey(envName string) string {
	if envName == "" {
		return ""
	}
	return os.Getenv(envName)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "config: resolve home dir")
	}
	return filepath.Join(home, ".config", "prospectus", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Server:    ServerConfig{Port: 3001, MaxUploadMB: 10, CORSOrigins: []string{"*"}},
		Log:       LogConfig{Level: "info", Format: "json"},
		Ranking:   RankingConfig{Mode: "enhanced"},
		Inference: InferenceConfig{Provider: "huggingface", APIKeyEnv: "HUGGINGFACE_API_KEY"},
		Embedder:  EmbedderConfig{Type: "none"},
		Language:  "english",
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3001
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	p := &cfg.Pipeline
	if p.LargeDocumentPages == 0 {
		p.LargeDocumentPages = 100
	}
	if p.MinExtractedChars == 0 {
		p.MinExtractedChars = 1000
	}
	if p.MaxChunkSize == 0 {
		p.MaxChunkSize = 2000
	}
	if p.FallbackChunkSize == 0 {
		p.FallbackChunkSize = 1500
	}
	if p.MinChunkLength == 0 {
		p.MinChunkLength = 100
	}
	if p.MaxChunkLength == 0 {
		p.MaxChunkLength = 3000
	}
	if p.MaxChunks == 0 {
		p.MaxChunks = 200
	}

	if cfg.Ranking.Mode == "" {
		cfg.Ranking.Mode = "enhanced"
	}

	inf := &cfg.Inference
	if inf.Provider == "" {
		inf.Provider = "none"
	}
	if inf.TimeoutSecs == 0 {
		inf.TimeoutSecs = 20
	}
	if inf.RatePerSecond == 0 {
		inf.RatePerSecond = 5
	}
	switch inf.Provider {
	case "huggingface":
		if inf.BaseURL == "" {
			inf.BaseURL = "https://api-inference.huggingface.co/models"
		}
		if inf.APIKeyEnv == "" {
			inf.APIKeyEnv = "HUGGINGFACE_API_KEY"
		}
	case "anthropic":
		if inf.APIKeyEnv == "" {
			inf.APIKeyEnv = "ANTHROPIC_API_KEY"
		}
		if inf.ChatModel == "" {
			inf.ChatModel = "claude-3-5-haiku-latest"
		}
	}
	m := &inf.Models
	if m.QAPrimary == "" {
		m.QAPrimary = "deepset/roberta-base-squad2"
	}
	if m.Conversational == "" {
		m.Conversational = "microsoft/DialoGPT-medium"
	}
	if m.Classifier == "" {
		m.Classifier = "facebook/bart-large-mnli"
	}
	if m.Summarizer == "" {
		m.Summarizer = "facebook/bart-large-cnn"
	}
	if m.Generator == "" {
		m.Generator = "facebook/bart-large-cnn"
	}

	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "none"
	}
	if cfg.Embedder.CacheSize == 0 {
		cfg.Embedder.CacheSize = 4096
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 20
		}
	}

	if cfg.ContentStore.SQLitePath == "" {
		cfg.ContentStore.SQLitePath = "prospectus.db"
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 5
	}
	if cfg.Language == "" {
		cfg.Language = "english"
	}
}
