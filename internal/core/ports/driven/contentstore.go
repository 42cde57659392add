package driven

import (
	"context"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

// ContentStore persists indexed content.
// Writes come only from the indexer; every other component reads.
type ContentStore interface {
	// Upsert stores a record keyed by (ContentType, SourceID).
	// Returns true when a new record was created, false when one was updated.
	Upsert(ctx context.Context, content *domain.IndexedContent) (created bool, err error)

	// Get retrieves a record by identity.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, key domain.ContentKey) (*domain.IndexedContent, error)

	// Delete removes a record. Deleting an absent record is not an error.
	Delete(ctx context.Context, key domain.ContentKey) error

	// ListSearchable returns active and searchable records, optionally
	// restricted to the given types, ordered by priority descending,
	// then title, then source ID.
	ListSearchable(ctx context.Context, types []domain.ContentType) ([]domain.IndexedContent, error)

	// SourceIDs returns every stored source ID for a content type.
	SourceIDs(ctx context.Context, contentType domain.ContentType) ([]string, error)

	// Stats returns per-type record counts.
	Stats(ctx context.Context) ([]domain.ContentStats, error)

	// Clear removes all records of the given types, or every record when empty.
	// Returns the number of records removed.
	Clear(ctx context.Context, types []domain.ContentType) (int, error)
}
