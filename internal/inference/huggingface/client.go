// Package huggingface calls hosted inference models over HTTP.
package huggingface

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"prospectus/internal/domain"
)

const defaultBaseURL = "https://api-inference.huggingface.co/models"

// Models names the hosted model used for each task.
type Models struct {
	QA             string
	Conversational string
	Classifier     string
	Summarizer     string
	Generator      string
}

// Config configures the client.
type Config struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	RatePerSecond float64
	Models        Models
}

// Client implements domain.Inference against the hosted inference API.
type Client struct {
	http    *resty.Client
	apiKey  string
	timeout time.Duration
	limiter *rate.Limiter
	models  Models
	log     *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
			SetTimeout(cfg.Timeout).
			SetHeader("Content-Type", "application/json"),
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout,
		limiter: rate.NewLimiter(limit, 1),
		models:  cfg.Models,
		log:     log.With(zap.String("provider", "huggingface")),
	}
}

func (c *Client) Name() string { return "huggingface" }

// Summarize runs the summarization model.
func (c *Client) Summarize(ctx context.Context, text string, opts domain.GenerateOptions) (string, error) {
	body, err := c.call(ctx, c.models.Summarizer, text, map[string]any{
		"max_length": opts.MaxLength,
		"min_length": opts.MinLength,
		"do_sample":  false,
	})
	if err != nil {
		return "", err
	}
	return firstText(body, "summary_text", "generated_text")
}

// Generate runs the text generation model.
func (c *Client) Generate(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	body, err := c.call(ctx, c.models.Generator, prompt, map[string]any{
		"max_length":  opts.MaxLength,
		"temperature": opts.Temperature,
		"do_sample":   opts.Temperature > 0,
	})
	if err != nil {
		return "", err
	}
	return firstText(body, "generated_text", "summary_text")
}

// Converse runs the conversational model over a prompt that embeds prior turns.
func (c *Client) Converse(ctx context.Context, input string, opts domain.GenerateOptions) (string, error) {
	body, err := c.call(ctx, c.models.Conversational, input, map[string]any{
		"max_length":  opts.MaxLength,
		"temperature": opts.Temperature,
		"do_sample":   true,
	})
	if err != nil {
		return "", err
	}
	return firstText(body, "generated_text")
}

// AnswerQuestion runs extractive question answering over context.
func (c *Client) AnswerQuestion(ctx context.Context, question, passage string) (string, error) {
	body, err := c.call(ctx, c.models.QA, map[string]string{"question": question, "context": passage}, nil)
	if err != nil {
		return "", err
	}
	return firstText(body, "answer")
}

// Classify runs zero-shot classification over labels.
func (c *Client) Classify(ctx context.Context, text string, labels []string) (domain.Classification, error) {
	body, err := c.call(ctx, c.models.Classifier, text, map[string]any{"candidate_labels": labels})
	if err != nil {
		return domain.Classification{}, err
	}
	return parseClassification(body)
}

// call posts {inputs, parameters} to the model endpoint. A 401 with
// credentials is retried once without them; nothing else is retried.
func (c *Client) call(ctx context.Context, model string, inputs any, params map[string]any) ([]byte, error) {
	if model == "" {
		return nil, eris.New("huggingface: no model configured for task")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "huggingface: rate limit wait")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload := map[string]any{"inputs": inputs}
	if len(params) > 0 {
		payload["parameters"] = params
	}

	resp, err := c.request(ctx, true).SetBody(payload).Post("/" + model)
	if err != nil {
		return nil, eris.Wrapf(err, "huggingface: call %s", model)
	}
	if resp.StatusCode() == http.StatusUnauthorized && c.apiKey != "" {
		c.log.Warn("credentials rejected, retrying without authorization", zap.String("model", model))
		resp, err = c.request(ctx, false).SetBody(payload).Post("/" + model)
		if err != nil {
			return nil, eris.Wrapf(err, "huggingface: call %s without credentials", model)
		}
	}
	if resp.IsError() {
		return nil, eris.Errorf("huggingface: %s returned %s", model, resp.Status())
	}
	return resp.Body(), nil
}

func (c *Client) request(ctx context.Context, withAuth bool) *resty.Request {
	r := c.http.R().SetContext(ctx)
	if withAuth && c.apiKey != "" {
		r.SetAuthToken(c.apiKey)
	}
	return r
}

// firstText reads the first non-empty field from either an object or a
// one-element array response.
func firstText(body []byte, fields ...string) (string, error) {
	for _, f := range fields {
		for _, path := range []string{f, "0." + f} {
			if v := strings.TrimSpace(gjson.GetBytes(body, path).String()); v != "" {
				return v, nil
			}
		}
	}
	return "", eris.New("huggingface: empty model response")
}

// parseClassification accepts {labels, scores}, [{labels, scores}] and
// [{label, score}, ...] shapes.
func parseClassification(body []byte) (domain.Classification, error) {
	root := gjson.ParseBytes(body)
	if root.IsArray() && root.Get("0.labels").Exists() {
		root = root.Get("0")
	}
	var out domain.Classification
	if root.Get("labels").Exists() {
		for _, l := range root.Get("labels").Array() {
			out.Labels = append(out.Labels, l.String())
		}
		for _, s := range root.Get("scores").Array() {
			out.Scores = append(out.Scores, s.Float())
		}
	} else if root.IsArray() {
		root.ForEach(func(_, v gjson.Result) bool {
			out.Labels = append(out.Labels, v.Get("label").String())
			out.Scores = append(out.Scores, v.Get("score").Float())
			return true
		})
	}
	if len(out.Labels) == 0 || len(out.Labels) != len(out.Scores) {
		return domain.Classification{}, eris.New("huggingface: malformed classification response")
	}
	return out, nil
}
