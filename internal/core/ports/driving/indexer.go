package driving

import (
	"context"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

// Indexer materialises indexed content from every registered content type.
type Indexer interface {
	// IndexAll indexes every registered content type.
	IndexAll(ctx context.Context) (domain.IndexStats, error)

	// IndexContentType indexes one content type in isolation.
	IndexContentType(ctx context.Context, contentType domain.ContentType) (domain.IndexStats, error)

	// IndexRecord re-indexes a single source record after it changed.
	IndexRecord(ctx context.Context, contentType domain.ContentType, sourceID string) (domain.IndexStats, error)

	// RemoveRecord deletes the indexed form of a removed source record.
	RemoveRecord(ctx context.Context, contentType domain.ContentType, sourceID string) error

	// Clear removes indexed content for the given types, or all when empty.
	Clear(ctx context.Context, types []domain.ContentType) (int, error)

	// Stats returns per-type repository counts.
	Stats(ctx context.Context) ([]domain.ContentStats, error)

	// Status returns the last known run status per content type.
	Status(ctx context.Context) []domain.IndexStatus
}
