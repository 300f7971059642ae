// Package anthropic backs the inference collaborator with a chat model.
package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"prospectus/internal/domain"
)

const systemPrompt = "You answer questions about a university prospectus. " +
	"Use only the supplied content and keep answers short and factual."

// Config configures the client.
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	Timeout       time.Duration
	RatePerSecond float64
}

// Client implements domain.Inference with the Messages API.
type Client struct {
	client  sdk.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	log     *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, eris.New("anthropic: missing API key")
	}
	if cfg.Model == "" {
		cfg.Model = "claude-3-5-haiku-latest"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &Client{
		client:  sdk.NewClient(opts...),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		limiter: rate.NewLimiter(limit, 1),
		log:     log.With(zap.String("provider", "anthropic")),
	}, nil
}

func (c *Client) Name() string { return "anthropic" }

func (c *Client) Summarize(ctx context.Context, text string, opts domain.GenerateOptions) (string, error) {
	prompt := fmt.Sprintf("Summarize the following in at most %d words.\n\n%s", wordBudget(opts.MaxLength), text)
	return c.complete(ctx, prompt, opts)
}

func (c *Client) Generate(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	return c.complete(ctx, prompt, opts)
}

func (c *Client) Converse(ctx context.Context, input string, opts domain.GenerateOptions) (string, error) {
	return c.complete(ctx, input, opts)
}

func (c *Client) AnswerQuestion(ctx context.Context, question, passage string) (string, error) {
	prompt := fmt.Sprintf("Content:\n%s\n\nQuestion: %s\nAnswer in one or two sentences.", passage, question)
	return c.complete(ctx, prompt, domain.GenerateOptions{MaxLength: 200})
}

// Classify asks the model to pick one label and a confidence. The chosen
// label is returned first; the remaining confidence is split evenly.
func (c *Client) Classify(ctx context.Context, text string, labels []string) (domain.Classification, error) {
	if len(labels) == 0 {
		return domain.Classification{}, eris.New("anthropic: no labels")
	}
	prompt := fmt.Sprintf(
		"Classify the text into exactly one of these labels: %s.\n"+
			"Reply with JSON only, shaped as {\"label\": \"<label>\", \"confidence\": <0..1>}.\n\nText: %s",
		strings.Join(quoteAll(labels), ", "), text)
	out, err := c.complete(ctx, prompt, domain.GenerateOptions{MaxLength: 100})
	if err != nil {
		return domain.Classification{}, err
	}
	return parseChoice(out, labels)
}

func (c *Client) complete(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "anthropic: rate limit wait")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	maxTokens := int64(opts.MaxLength)
	if maxTokens <= 0 {
		maxTokens = 512
	}
	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: maxTokens,
		System:    []sdk.TextBlockParam{{Text: systemPrompt}},
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(prompt))},
	}
	if opts.Temperature > 0 {
		params.Temperature = sdk.Float(opts.Temperature)
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "anthropic: create message")
	}
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", eris.New("anthropic: empty response")
	}
	c.log.Debug("message complete",
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens))
	return text, nil
}

func parseChoice(out string, labels []string) (domain.Classification, error) {
	start, end := strings.Index(out, "{"), strings.LastIndex(out, "}")
	if start < 0 || end <= start {
		return domain.Classification{}, eris.Errorf("anthropic: no JSON in classification %q", out)
	}
	res := gjson.Parse(out[start : end+1])
	chosen := strings.TrimSpace(res.Get("label").String())
	conf := res.Get("confidence").Float()
	if conf <= 0 || conf > 1 {
		conf = 0.5
	}

	idx := -1
	for i, l := range labels {
		if strings.EqualFold(l, chosen) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Classification{}, eris.Errorf("anthropic: unknown label %q", chosen)
	}

	out2 := domain.Classification{Labels: []string{labels[idx]}, Scores: []float64{conf}}
	rest := 0.0
	if len(labels) > 1 {
		rest = (1 - conf) / float64(len(labels)-1)
	}
	for i, l := range labels {
		if i != idx {
			out2.Labels = append(out2.Labels, l)
			out2.Scores = append(out2.Scores, rest)
		}
	}
	return out2, nil
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}

// wordBudget converts a token-style length limit into a rough word count.
func wordBudget(maxLength int) int {
	if maxLength <= 0 {
		return 150
	}
	return maxLength * 3 / 4
}
