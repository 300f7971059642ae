package domain

import "time"

// Tag is the topic label attached to a chunk.
type Tag string

const (
	TagPrograms   Tag = "Programs"
	TagFees       Tag = "Fees"
	TagAdmissions Tag = "Admissions"
	TagContact    Tag = "Contact"
	TagAbout      Tag = "About"
	TagGeneral    Tag = "General"
)

// Known reports whether t is one of the fixed topic labels.
func (t Tag) Known() bool {
	switch t {
	case TagPrograms, TagFees, TagAdmissions, TagContact, TagAbout, TagGeneral:
		return true
	}
	return false
}

// Status marks where a chunk is in its review lifecycle.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

// Chunk is a bounded-size part of a prospectus used for retrieval.
// Chunks are immutable once stored; cached embeddings live outside the struct.
type Chunk struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	Page         int       `json:"page"`
	Tag          Tag       `json:"tag"`
	Status       Status    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	Filename     string    `json:"filename,omitempty"`
	SectionTitle string    `json:"sectionTitle,omitempty"`
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk     Chunk
	Score     float64
	Semantic  float64
	Lexical   float64
	HasVector bool
}

// Exchange is one prior question/answer pair of a conversation.
type Exchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Document is the raw text of one uploaded prospectus.
type Document struct {
	Filename   string
	Text       string
	TotalPages int
}
