package driven

import (
	"context"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

// ContextStore persists curated context sections.
type ContextStore interface {
	// Save creates or updates a section keyed by Section.
	Save(ctx context.Context, section *domain.ContextSection) error

	// Get retrieves a section by key.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, key string) (*domain.ContextSection, error)

	// Delete removes a section.
	Delete(ctx context.Context, key string) error

	// List returns every section ordered by display order, then key.
	List(ctx context.Context) ([]domain.ContextSection, error)
}
