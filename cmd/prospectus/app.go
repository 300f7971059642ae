package main

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"prospectus/internal/chunker"
	"prospectus/internal/composer"
	"prospectus/internal/config"
	"prospectus/internal/domain"
	"prospectus/internal/embedding"
	"prospectus/internal/embedding/openai"
	"prospectus/internal/i18n"
	"prospectus/internal/inference"
	"prospectus/internal/inference/anthropic"
	"prospectus/internal/inference/huggingface"
	"prospectus/internal/metrics"
	"prospectus/internal/ranker"
	"prospectus/internal/service"
	"prospectus/internal/summarizer"
)

// app holds the assembled components shared by the subcommands.
type app struct {
	assistant *service.Assistant
	metrics   *metrics.Metrics
}

func newApp(c *config.AppConfig, log *zap.Logger) (*app, error) {
	m := metrics.New()

	inf, err := newInference(c.Inference, log)
	if err != nil {
		return nil, err
	}
	inf = metrics.InstrumentInference(inf, m)

	emb, err := newEmbedder(c.Embedder)
	if err != nil {
		return nil, err
	}
	var vectors *embedding.Cache
	if emb.Available() {
		if vectors, err = embedding.NewCache(emb, c.Embedder.CacheSize); err != nil {
			return nil, err
		}
	}

	p := c.Pipeline
	pipeline := chunker.NewPipeline(chunker.Options{
		LargeDocumentPages: p.LargeDocumentPages,
		MaxChunkSize:       p.MaxChunkSize,
		FallbackChunkSize:  p.FallbackChunkSize,
		MinChunkLength:     p.MinChunkLength,
		MaxChunkLength:     p.MaxChunkLength,
		SplitSize:          p.MaxChunkLength / 2,
		MaxChunks:          p.MaxChunks,
		InstitutionNames:   p.InstitutionNames,
	})

	mode := ranker.ModeEnhanced
	if c.Ranking.Mode == string(ranker.ModeSimple) {
		mode = ranker.ModeSimple
	}
	lang, ok := i18n.ParseLanguage(c.Language)
	if !ok {
		lang = i18n.English
	}

	a := service.New(service.Deps{
		Pipeline:   pipeline,
		Ranker:     ranker.New(vectors, log),
		Composer:   composer.New(inf, log),
		Inference:  inf,
		Summarizer: summarizer.NewFrequencySummarizer(),
		Vectors:    vectors,
		Metrics:    m,
		Logger:     log,
	}, service.Options{
		MinExtractedChars: p.MinExtractedChars,
		RankMode:          mode,
		SummarySentences:  c.Summarizer.MaxSentences,
		Language:          lang,
	})
	log.Info("assistant ready",
		zap.String("inference", inf.Name()),
		zap.String("embedder", emb.Name()),
		zap.String("ranking", string(mode)),
		zap.String("language", string(lang)),
	)
	return &app{assistant: a, metrics: m}, nil
}

func newInference(c config.InferenceConfig, log *zap.Logger) (domain.Inference, error) {
	timeout := time.Duration(c.TimeoutSecs) * time.Second
	key := config.APIKey(c.APIKeyEnv)
	switch c.Provider {
	case "none", "":
		return inference.Unavailable{}, nil
	case "huggingface":
		if key == "" {
			log.Warn("no inference API key set, calling the hosted API anonymously", zap.String("env", c.APIKeyEnv))
		}
		return huggingface.NewClient(huggingface.Config{
			BaseURL:       c.BaseURL,
			APIKey:        key,
			Timeout:       timeout,
			RatePerSecond: c.RatePerSecond,
			Models: huggingface.Models{
				QA:             c.Models.QAPrimary,
				Conversational: c.Models.Conversational,
				Classifier:     c.Models.Classifier,
				Summarizer:     c.Models.Summarizer,
				Generator:      c.Models.Generator,
			},
		}, log), nil
	case "anthropic":
		client, err := anthropic.NewClient(anthropic.Config{
			APIKey:        key,
			BaseURL:       c.BaseURL,
			Model:         c.ChatModel,
			Timeout:       timeout,
			RatePerSecond: c.RatePerSecond,
		}, log)
		if err != nil {
			return nil, eris.Wrap(err, "anthropic inference init")
		}
		return client, nil
	}
	return nil, eris.Errorf("unknown inference provider: %s", c.Provider)
}

func newEmbedder(c config.EmbedderConfig) (domain.Embedder, error) {
	switch c.Type {
	case "none", "":
		return embedding.Disabled{}, nil
	case "openai":
		if c.OpenAI == nil {
			return nil, eris.New("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL: c.OpenAI.BaseURL,
			APIKey:  config.APIKey(c.OpenAI.APIKeyEnv),
			Model:   c.OpenAI.Model,
			Timeout: time.Duration(c.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, eris.Wrap(err, "openai embedder init")
		}
		return client, nil
	}
	return nil, eris.Errorf("unknown embedder: %s", c.Type)
}
