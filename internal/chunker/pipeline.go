package chunker

import (
	"strings"
	"time"

	"prospectus/internal/domain"
)

// Options tunes every stage of the chunking pipeline.
type Options struct {
	LargeDocumentPages int
	MaxChunkSize       int
	FallbackChunkSize  int
	MinChunkLength     int
	MaxChunkLength     int
	SplitSize          int
	MaxChunks          int
	InstitutionNames   []string
}

func DefaultOptions() Options {
	return Options{
		LargeDocumentPages: 100,
		MaxChunkSize:       2000,
		FallbackChunkSize:  1500,
		MinChunkLength:     100,
		MaxChunkLength:     3000,
		SplitSize:          1500,
		MaxChunks:          200,
	}
}

// Report summarises one pipeline run.
type Report struct {
	Strategy Strategy
	Segments int
	Built    int
	Kept     int
}

// Pipeline turns raw document text into a retrievable chunk set.
type Pipeline struct {
	normalizer *Normalizer
	segmenter  *Segmenter
	builder    *Builder
	selector   *Selector
	now        func() time.Time
}

func NewPipeline(opts Options) *Pipeline {
	return &Pipeline{
		normalizer: NewNormalizer(opts.InstitutionNames...),
		segmenter:  NewSegmenter(opts.LargeDocumentPages, opts.FallbackChunkSize),
		builder:    NewBuilder(opts.MaxChunkSize, opts.FallbackChunkSize, opts.MinChunkLength),
		selector:   NewSelector(opts.MinChunkLength, opts.MaxChunkLength, opts.SplitSize, opts.MaxChunks),
		now:        time.Now,
	}
}

// Process runs normalize, segment, build and select over one document.
func (p *Pipeline) Process(doc domain.Document) ([]domain.Chunk, Report) {
	text := p.normalizer.Normalize(doc.Text)
	if text == "" {
		return nil, Report{}
	}
	segs, strategy := p.segmenter.Segment(text, doc.TotalPages)
	built := p.builder.Build(doc, segs, strings.Count(text, "\n")+1, p.now())
	kept := p.selector.Select(built)
	return kept, Report{
		Strategy: strategy,
		Segments: len(segs),
		Built:    len(built),
		Kept:     len(kept),
	}
}

// Normalize exposes the normalization stage on its own.
func (p *Pipeline) Normalize(text string) string {
	return p.normalizer.Normalize(text)
}

// Select applies the junk filter, safety split and size cap to chunks that
// did not come through Process, such as a bulk replacement.
func (p *Pipeline) Select(chunks []domain.Chunk) []domain.Chunk {
	return p.selector.Select(chunks)
}
