package driven

import (
	"context"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

// ContentExtractor maps one content type's source records to indexed form.
// One extractor is registered per content type.
type ContentExtractor interface {
	// ContentType returns the type this extractor handles.
	ContentType() domain.ContentType

	// IsActive reports whether a record passes the type's published/active predicate.
	IsActive(rec domain.SourceRecord) bool

	// Title returns the display title.
	Title(rec domain.SourceRecord) string

	// Body returns the full text used for matching.
	Body(rec domain.SourceRecord) string

	// Summary returns the short description.
	Summary(rec domain.SourceRecord) string

	// Keywords returns the keyword list.
	Keywords(rec domain.SourceRecord) []string

	// Priority returns the importance weight (1-10).
	Priority(rec domain.SourceRecord) int

	// Locate returns the slug, URL, category, and tags.
	Locate(rec domain.SourceRecord) domain.ContentLocation
}

// StaticExtractor is implemented by extractors whose records are built in
// rather than enumerated from a ContentSource.
type StaticExtractor interface {
	ContentExtractor

	// StaticRecords returns the built-in records.
	StaticRecords(ctx context.Context) ([]domain.SourceRecord, error)
}

// ExtractorRegistry looks up extractors by content type.
type ExtractorRegistry interface {
	// Register adds an extractor, replacing any for the same type.
	Register(extractor ContentExtractor)

	// Get returns the extractor for a type.
	// Returns domain.ErrUnknownContentType if none is registered.
	Get(contentType domain.ContentType) (ContentExtractor, error)

	// Types returns registered types in indexing order.
	Types() []domain.ContentType
}
