package domain

import "errors"

var (
	// ErrEmptyQuestion is returned when a query carries no question text.
	ErrEmptyQuestion = errors.New("question is required")
	// ErrNoContent is returned when no chunk set has been loaded yet.
	ErrNoContent = errors.New("no prospectus content loaded")
	// ErrExtractionFailed is returned when a document yields too little text to index.
	ErrExtractionFailed = errors.New("document text extraction failed")
	// ErrEmbeddingDisabled is returned by embedders that have no vector source.
	ErrEmbeddingDisabled = errors.New("embedding source disabled")
)

// ErrInferenceUnavailable is returned when no remote text model is configured.
var ErrInferenceUnavailable = errors.New("inference provider not configured")
