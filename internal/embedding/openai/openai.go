package openai

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// Client is an OpenAI-compatible embeddings client implementing domain.Embedder.
type Client struct {
	http    *resty.Client
	model   string
	limiter *rate.Limiter
}

// Config configures the OpenAI-compatible embeddings client.
type Config struct {
	BaseURL       string
	APIKey        string
	Model         string
	Timeout       time.Duration
	RatePerSecond float64
}

// NewClient creates a new embeddings client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, eris.New("openai: missing API key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	return &Client{
		http:    httpClient,
		model:   cfg.Model,
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "openai" }

// Available is always true once the client is constructed.
func (c *Client) Available() bool { return true }

// Embed returns an embedding vector for the given text. Failed calls are not retried.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "openai: rate limit wait")
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"input": text, "prompt": text, "model": c.model}).
		Post("/embeddings")
	if err != nil {
		return nil, eris.Wrap(err, "openai: embeddings request")
	}
	if resp.IsError() {
		return nil, eris.Errorf("openai: embeddings failed: %s", resp.Status())
	}

	body := resp.Body()
	// OpenAI shape first, then the Ollama-native { "embedding": [...] }.
	values := gjson.GetBytes(body, "data.0.embedding")
	if !values.IsArray() {
		values = gjson.GetBytes(body, "embedding")
	}
	arr := values.Array()
	if len(arr) == 0 {
		return nil, eris.New("openai: no embedding returned")
	}
	v := make([]float64, len(arr))
	for i, x := range arr {
		v[i] = x.Float()
	}
	return v, nil
}
