package driven

import (
	"context"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

// ContentSource enumerates source-of-truth records for a content type.
// It is the website's own data, treated as read-only.
type ContentSource interface {
	// Records returns every record of the given type, eligible or not.
	// An unavailable source returns an error wrapping domain.ErrSourceUnavailable.
	Records(ctx context.Context, contentType domain.ContentType) ([]domain.SourceRecord, error)

	// Record returns a single record.
	// Returns domain.ErrNotFound if the record no longer exists.
	Record(ctx context.Context, contentType domain.ContentType, id string) (*domain.SourceRecord, error)
}
