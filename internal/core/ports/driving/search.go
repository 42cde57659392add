package driving

import (
	"context"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

// SearchService ranks indexed content against free-text queries.
type SearchService interface {
	// Search returns the top results for a query, using the primary ranker
	// when available. A blank query returns an empty list.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// SearchWithFallback never fails: primary ranking errors switch to
	// keyword scoring and the results are returned in flat form.
	SearchWithFallback(ctx context.Context, query string, opts domain.SearchOptions) []domain.FormattedResult

	// KeywordSearch ranks with manual keyword scoring only.
	KeywordSearch(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
