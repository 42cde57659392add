package driven

import (
	"context"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

// Ranker performs weighted full-text ranking over visible content.
// Title is weighted above body text. The query is interpreted web-search
// style: implicit AND, OR, quoted phrases, and -negation.
type Ranker interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Rank returns at most opts.Limit results with a normalised score at or
	// above minRank, ordered by score descending. Errors mean the backend
	// could not serve the query.
	Rank(ctx context.Context, query string, opts domain.SearchOptions, minRank float64) ([]domain.SearchResult, error)
}
