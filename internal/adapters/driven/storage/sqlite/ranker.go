package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

// ranker implements driven.Ranker over the FTS5 mirror table.
type ranker struct {
	store         *Store
	titleWeight   float64
	contentWeight float64
}

var _ driven.Ranker = (*ranker)(nil)

// Name identifies the backend.
func (r *ranker) Name() string {
	return "sqlite-fts5"
}

// Rank scores visible content with bm25, title weighted above body text.
//
// Raw bm25 magnitudes depend on corpus size, so scores are normalised
// against the best hit of the query: the top result scores 1.0 and the
// rest are proportional. minRank applies to the normalised score.
func (r *ranker) Rank(ctx context.Context, query string, opts domain.SearchOptions, minRank float64) ([]domain.SearchResult, error) {
	opts = opts.Normalised()

	match, ok := matchExpression(query)
	if !ok {
		return []domain.SearchResult{}, nil
	}

	filter, filterArgs := typeFilter("c.content_type", opts.ContentTypes)
	args := []any{r.titleWeight, r.contentWeight, match}
	args = append(args, filterArgs...)
	args = append(args, opts.Limit)

	rows, err := r.store.db.QueryContext(ctx, `
		SELECT `+qualifiedColumns("c")+`, -bm25(indexed_content_fts, ?, ?) AS score
		FROM indexed_content_fts
		JOIN indexed_content c ON c.id = indexed_content_fts.rowid
		WHERE indexed_content_fts MATCH ?
			AND c.is_active = 1 AND c.is_searchable = 1`+filter+`
		ORDER BY score DESC, c.priority DESC, c.title, c.source_object_id
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: fts query: %v", domain.ErrBackendUnavailable, err)
	}
	defer rows.Close()

	var raw []domain.SearchResult
	for rows.Next() {
		var score float64
		content, err := scanContent(rows, &score)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
		}
		raw = append(raw, domain.SearchResult{Content: *content, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating fts results: %v", domain.ErrBackendUnavailable, err)
	}

	return normaliseScores(raw, minRank), nil
}

// normaliseScores rescales scores relative to the first (best) result and
// drops those below minRank. Input must be ordered by score descending.
func normaliseScores(results []domain.SearchResult, minRank float64) []domain.SearchResult {
	out := make([]domain.SearchResult, 0, len(results))
	if len(results) == 0 || results[0].Score <= 0 {
		return out
	}
	top := results[0].Score
	for _, res := range results {
		res.Score /= top
		if res.Score < minRank {
			continue
		}
		out = append(out, res)
	}
	return out
}
