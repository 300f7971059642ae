package chunker

import (
	"fmt"
	"strings"
	"time"

	"prospectus/internal/domain"
)

// Builder packs segments into size-bounded chunks.
type Builder struct {
	maxChunkSize      int
	fallbackChunkSize int
	minResidual       int
}

func NewBuilder(maxChunkSize, fallbackChunkSize, minResidual int) *Builder {
	if maxChunkSize <= 0 {
		maxChunkSize = 2000
	}
	if fallbackChunkSize <= 0 {
		fallbackChunkSize = 1500
	}
	if minResidual < 0 {
		minResidual = 0
	}
	return &Builder{maxChunkSize: maxChunkSize, fallbackChunkSize: fallbackChunkSize, minResidual: minResidual}
}

// Build converts segments into chunks. Chunk ids are
// {filename}_section_{i}, with a _chunk_{j} suffix when a segment is split.
func (b *Builder) Build(doc domain.Document, segs []Segment, totalLines int, now time.Time) []domain.Chunk {
	var chunks []domain.Chunk
	for i, seg := range segs {
		ceiling := b.maxChunkSize
		if seg.Strategy == StrategyParagraph {
			ceiling = b.fallbackChunkSize
		}
		pieces := b.pack(seg.Text, ceiling)
		page := seg.Page
		if page == 0 {
			page = estimatePage(seg.StartLine, totalLines, doc.TotalPages)
		}
		for j, text := range pieces {
			id := fmt.Sprintf("%s_section_%d", doc.Filename, i)
			if len(pieces) > 1 {
				id = fmt.Sprintf("%s_chunk_%d", id, j)
			}
			chunks = append(chunks, domain.Chunk{
				ID:           id,
				Text:         text,
				Page:         page,
				Tag:          DetectTag(text),
				Status:       domain.StatusApproved,
				Timestamp:    now,
				Filename:     doc.Filename,
				SectionTitle: seg.Title,
			})
		}
	}
	return chunks
}

// pack accumulates paragraphs greedily up to ceiling characters.
// A short trailing remainder is dropped when earlier pieces exist.
func (b *Builder) pack(text string, ceiling int) []string {
	var (
		out  []string
		cur  []string
		size int
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, "\n\n"))
		}
		cur, size = nil, 0
	}
	for _, p := range paragraphs(text) {
		n := runeLen(p)
		if n > ceiling {
			flush()
			out = append(out, splitWindows(p, ceiling)...)
			continue
		}
		if len(cur) > 0 && size+2+n > ceiling {
			flush()
		}
		cur = append(cur, p)
		if size > 0 {
			size += 2
		}
		size += n
	}
	if len(cur) > 0 && len(out) > 0 && runeLen(strings.Join(cur, "\n\n")) < b.minResidual {
		return out
	}
	flush()
	return out
}

// estimatePage maps a line offset onto a 1-based page number.
func estimatePage(line, totalLines, totalPages int) int {
	if totalPages <= 1 || totalLines <= 0 {
		return 1
	}
	page := line*totalPages/totalLines + 1
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
