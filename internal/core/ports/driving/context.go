package driving

import (
	"context"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

// ContextService serves curated context sections.
type ContextService interface {
	// GetContextContent returns a section's content, or false when absent.
	GetContextContent(ctx context.Context, key string) (string, bool)

	// FindRelevant ranks active sections by keyword overlap with a message.
	FindRelevant(ctx context.Context, message string, maxResults int) []domain.ContextMatch

	// List returns active sections in display order.
	List(ctx context.Context) []domain.ContextSection

	// Refresh reloads sections, bypassing the cache.
	Refresh(ctx context.Context) error

	// Save creates or updates a section and refreshes the cache.
	Save(ctx context.Context, section domain.ContextSection) error

	// Delete removes a section and refreshes the cache.
	Delete(ctx context.Context, key string) error

	// Metadata describes an active section without its content.
	Metadata(ctx context.Context, key string) (domain.ContextMetadata, bool)

	// Seed writes the default sections. Existing sections are kept unless
	// force is set. A non-empty only restricts seeding to those keys.
	Seed(ctx context.Context, force bool, only []string) (domain.SeedResult, error)
}
