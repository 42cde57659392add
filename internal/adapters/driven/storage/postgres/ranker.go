package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

// searchVector must match the expression index in schema.sql.
const searchVector = `(setweight(to_tsvector('english', title), 'A') ||
	setweight(to_tsvector('english', content_text), 'B'))`

// ranker implements driven.Ranker with ts_rank.
type ranker struct {
	db            *sql.DB
	titleWeight   float64
	contentWeight float64
}

var _ driven.Ranker = (*ranker)(nil)

// Name identifies the backend.
func (r *ranker) Name() string {
	return "postgres-tsrank"
}

// Rank returns visible content matching the web-search style query.
func (r *ranker) Rank(ctx context.Context, query string, opts domain.SearchOptions, minRank float64) ([]domain.SearchResult, error) {
	opts = opts.Normalised()
	if strings.TrimSpace(query) == "" {
		return []domain.SearchResult{}, nil
	}

	// ts_rank weights are ordered {D, C, B, A}.
	weights := pq.Array([]float64{0.1, 0.2, r.contentWeight, r.titleWeight})

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+contentColumns+`, rank FROM (
			SELECT *, ts_rank($1::float4[], `+searchVector+`, websearch_to_tsquery('english', $2)) AS rank
			FROM indexed_content
			WHERE is_active AND is_searchable
				AND ($3::text[] IS NULL OR content_type = ANY($3))
				AND `+searchVector+` @@ websearch_to_tsquery('english', $2)
		) ranked
		WHERE rank >= $4
		ORDER BY rank DESC, priority DESC, title COLLATE "C", source_object_id COLLATE "C"
		LIMIT $5
	`, weights, query, typeArray(opts.ContentTypes), minRank, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("%w: ts_rank query: %v", domain.ErrBackendUnavailable, err)
	}
	defer rows.Close()

	results := []domain.SearchResult{}
	for rows.Next() {
		var score float64
		content, err := scanContent(rows, &score)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
		}
		results = append(results, domain.SearchResult{Content: *content, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating ranked content: %v", domain.ErrBackendUnavailable, err)
	}
	return results, nil
}
