// Package service wires the chunking pipeline, live chunk store, ranker and
// composer into the operations exposed over HTTP and the CLI.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"prospectus/internal/chunker"
	"prospectus/internal/composer"
	"prospectus/internal/domain"
	"prospectus/internal/embedding"
	"prospectus/internal/extract"
	"prospectus/internal/i18n"
	"prospectus/internal/inference"
	"prospectus/internal/metrics"
	"prospectus/internal/ranker"
	"prospectus/internal/store"
	"prospectus/internal/summarizer"
)

// Deps are the collaborators of an Assistant. Nil optional fields get
// working defaults.
type Deps struct {
	Pipeline   *chunker.Pipeline
	Storage    *store.Storage
	Ranker     *ranker.Ranker
	Composer   *composer.Composer
	Inference  domain.Inference
	Summarizer *summarizer.FrequencySummarizer
	Vectors    *embedding.Cache
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
}

// Options tunes the Assistant.
type Options struct {
	MinExtractedChars int
	RankMode          ranker.Mode
	SummarySentences  int
	Language          i18n.Language
}

// Assistant answers prospectus questions over a swappable chunk set.
type Assistant struct {
	pipeline   *chunker.Pipeline
	storage    *store.Storage
	ranker     *ranker.Ranker
	composer   *composer.Composer
	inf        domain.Inference
	summarizer *summarizer.FrequencySummarizer
	vectors    *embedding.Cache
	metrics    *metrics.Metrics
	log        *zap.Logger
	opts       Options
	language   atomic.Value
	now        func() time.Time
}

// New builds an Assistant from deps.
func New(deps Deps, opts Options) *Assistant {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Pipeline == nil {
		deps.Pipeline = chunker.NewPipeline(chunker.DefaultOptions())
	}
	if deps.Storage == nil {
		deps.Storage = store.NewStorage()
	}
	if deps.Inference == nil {
		deps.Inference = inference.Unavailable{}
	}
	if deps.Ranker == nil {
		deps.Ranker = ranker.New(deps.Vectors, deps.Logger)
	}
	if deps.Composer == nil {
		deps.Composer = composer.New(deps.Inference, deps.Logger)
	}
	if deps.Summarizer == nil {
		deps.Summarizer = summarizer.NewFrequencySummarizer()
	}
	if opts.RankMode == "" {
		opts.RankMode = ranker.ModeEnhanced
	}
	if opts.SummarySentences <= 0 {
		opts.SummarySentences = 5
	}
	if opts.Language == "" {
		opts.Language = i18n.English
	}
	a := &Assistant{
		pipeline:   deps.Pipeline,
		storage:    deps.Storage,
		ranker:     deps.Ranker,
		composer:   deps.Composer,
		inf:        deps.Inference,
		summarizer: deps.Summarizer,
		vectors:    deps.Vectors,
		metrics:    deps.Metrics,
		log:        deps.Logger,
		opts:       opts,
		now:        time.Now,
	}
	a.language.Store(opts.Language)
	return a
}

// IngestResult describes a document ingestion.
type IngestResult struct {
	Chunks     []domain.Chunk
	Report     chunker.Report
	Generation uint64
	TotalPages int
}

// IngestFile extracts data (PDF or plain text) and ingests it.
func (a *Assistant) IngestFile(ctx context.Context, filename string, data []byte) (IngestResult, error) {
	doc, err := extract.Document(filename, data)
	if err != nil {
		a.metrics.Ingest("upload", err, 0)
		return IngestResult{}, eris.Wrapf(domain.ErrExtractionFailed, "%s: %v", filename, err)
	}
	return a.IngestDocument(ctx, doc)
}

// IngestDocument chunks doc and replaces the live set with the result.
func (a *Assistant) IngestDocument(_ context.Context, doc domain.Document) (IngestResult, error) {
	if n := utf8.RuneCountInString(strings.TrimSpace(doc.Text)); n < a.opts.MinExtractedChars {
		err := eris.Wrapf(domain.ErrExtractionFailed, "%s: only %d characters of text", doc.Filename, n)
		a.metrics.Ingest("upload", err, 0)
		return IngestResult{TotalPages: doc.TotalPages}, err
	}
	chunks, report := a.pipeline.Process(doc)
	if len(chunks) == 0 {
		err := eris.Wrapf(domain.ErrExtractionFailed, "%s: no usable chunks", doc.Filename)
		a.metrics.Ingest("upload", err, 0)
		return IngestResult{TotalPages: doc.TotalPages, Report: report}, err
	}
	snap := a.replace(chunks, doc.Filename)
	a.metrics.Ingest("upload", nil, snap.Len())
	a.log.Info("document ingested",
		zap.String("filename", doc.Filename),
		zap.Int("pages", doc.TotalPages),
		zap.String("strategy", string(report.Strategy)),
		zap.Int("segments", report.Segments),
		zap.Int("built", report.Built),
		zap.Int("kept", report.Kept),
		zap.Uint64("generation", snap.Generation),
	)
	return IngestResult{Chunks: snap.Chunks, Report: report, Generation: snap.Generation, TotalPages: doc.TotalPages}, nil
}

const (
	syncFilename = "firestore_content.pdf"
	syncPage     = 1
)

// ReplaceChunks installs an externally supplied chunk set. Missing fields
// are defaulted, repeated IDs get a "_dup_N" suffix, unknown tags are
// re-detected from the text, and the set passes the same junk filter,
// safety split and cap as ingested documents.
func (a *Assistant) ReplaceChunks(_ context.Context, raw []domain.Chunk, source string) (*store.Snapshot, error) {
	now := a.now()
	chunks := make([]domain.Chunk, len(raw))
	seen := make(map[string]int, len(raw))
	for i, c := range raw {
		if c.ID == "" {
			c.ID = fmt.Sprintf("chunk_%d_%d", now.UnixMilli(), i)
		}
		c.ID = uniqueID(seen, c.ID)
		if c.Page <= 0 {
			c.Page = syncPage
		}
		switch {
		case c.Tag == "":
			c.Tag = domain.TagGeneral
		case !c.Tag.Known():
			c.Tag = chunker.DetectTag(c.Text)
		}
		if c.Filename == "" {
			c.Filename = syncFilename
		}
		if c.Timestamp.IsZero() {
			c.Timestamp = now
		}
		c.Status = domain.StatusApproved
		chunks[i] = c
	}
	kept := a.pipeline.Select(chunks)
	snap := a.replace(kept, source)
	a.metrics.Ingest(source, nil, snap.Len())
	a.log.Info("chunk set replaced",
		zap.String("source", source),
		zap.Int("received", len(raw)),
		zap.Int("kept", snap.Len()),
		zap.Uint64("generation", snap.Generation),
	)
	return snap, nil
}

// uniqueID returns id, or id with the lowest free "_dup_N" suffix when id
// was already used.
func uniqueID(seen map[string]int, id string) string {
	if _, ok := seen[id]; !ok {
		seen[id] = 0
		return id
	}
	for {
		seen[id]++
		next := fmt.Sprintf("%s_dup_%d", id, seen[id])
		if _, ok := seen[next]; !ok {
			seen[next] = 0
			return next
		}
	}
}

// Sync loads a complete chunk set from src and installs it.
func (a *Assistant) Sync(ctx context.Context, src domain.ChunkSource, source string) (*store.Snapshot, error) {
	chunks, err := src.LoadChunks(ctx)
	if err != nil {
		a.metrics.Ingest(source, err, 0)
		return nil, eris.Wrap(err, "load chunks")
	}
	return a.ReplaceChunks(ctx, chunks, source)
}

func (a *Assistant) replace(chunks []domain.Chunk, source string) *store.Snapshot {
	snap := a.storage.Replace(chunks, source)
	if a.vectors != nil {
		a.vectors.Purge()
	}
	return snap
}

// Snapshot returns the live chunk set, nil before the first ingestion.
func (a *Assistant) Snapshot() *store.Snapshot { return a.storage.Snapshot() }

// Language returns the current response language.
func (a *Assistant) Language() i18n.Language {
	return a.language.Load().(i18n.Language)
}

// SetLanguage switches the response language and returns the previous one.
func (a *Assistant) SetLanguage(lang i18n.Language) i18n.Language {
	old := a.language.Swap(lang).(i18n.Language)
	if old != lang {
		a.log.Info("language changed", zap.String("from", string(old)), zap.String("to", string(lang)))
	}
	return old
}

// InferenceName names the configured remote model provider.
func (a *Assistant) InferenceName() string { return a.inf.Name() }
