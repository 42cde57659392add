package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

const contentColumns = `content_type, source_object_id, title, slug, url, content_text,
	summary, keywords, category, tags, priority, content_updated_at,
	is_active, is_searchable, created_at, updated_at`

// contentStore implements driven.ContentStore.
type contentStore struct {
	db *sql.DB
}

var _ driven.ContentStore = (*contentStore)(nil)

// Upsert stores or updates a record. created_at is preserved on update;
// xmax = 0 identifies a freshly inserted row.
func (s *contentStore) Upsert(ctx context.Context, c *domain.IndexedContent) (bool, error) {
	if c == nil || c.SourceID == "" || !c.ContentType.IsValid() {
		return false, domain.ErrInvalidInput
	}
	updatedAt := c.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	var created bool
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO indexed_content (`+contentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)
		ON CONFLICT (content_type, source_object_id) DO UPDATE SET
			title = EXCLUDED.title,
			slug = EXCLUDED.slug,
			url = EXCLUDED.url,
			content_text = EXCLUDED.content_text,
			summary = EXCLUDED.summary,
			keywords = EXCLUDED.keywords,
			category = EXCLUDED.category,
			tags = EXCLUDED.tags,
			priority = EXCLUDED.priority,
			content_updated_at = EXCLUDED.content_updated_at,
			is_active = EXCLUDED.is_active,
			is_searchable = EXCLUDED.is_searchable,
			updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0)
	`, string(c.ContentType), c.SourceID, c.Title, c.Slug, c.URL, c.ContentText,
		c.Summary, c.Keywords, c.Category, c.Tags, c.Priority,
		pq.NullTime{Time: c.ContentUpdatedAt, Valid: !c.ContentUpdatedAt.IsZero()},
		c.IsActive, c.IsSearchable, updatedAt).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("upserting content: %w", err)
	}
	return created, nil
}

// Get retrieves a record by identity.
func (s *contentStore) Get(ctx context.Context, key domain.ContentKey) (*domain.IndexedContent, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+contentColumns+" FROM indexed_content WHERE content_type = $1 AND source_object_id = $2",
		string(key.ContentType), key.SourceID)

	content, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return content, err
}

// Delete removes a record.
func (s *contentStore) Delete(ctx context.Context, key domain.ContentKey) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM indexed_content WHERE content_type = $1 AND source_object_id = $2",
		string(key.ContentType), key.SourceID)
	if err != nil {
		return fmt.Errorf("deleting content: %w", err)
	}
	return nil
}

// ListSearchable returns visible records ordered by priority, title, source ID.
func (s *contentStore) ListSearchable(ctx context.Context, types []domain.ContentType) ([]domain.IndexedContent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+contentColumns+` FROM indexed_content
		WHERE is_active AND is_searchable
			AND ($1::text[] IS NULL OR content_type = ANY($1))
		ORDER BY priority DESC, title COLLATE "C", source_object_id COLLATE "C"
	`, typeArray(types))
	if err != nil {
		return nil, fmt.Errorf("querying searchable content: %w", err)
	}
	defer rows.Close()

	var result []domain.IndexedContent
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating searchable content: %w", err)
	}
	return result, nil
}

// SourceIDs returns every stored source ID for a content type.
func (s *contentStore) SourceIDs(ctx context.Context, contentType domain.ContentType) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_object_id FROM indexed_content WHERE content_type = $1 ORDER BY source_object_id COLLATE "C"`,
		string(contentType))
	if err != nil {
		return nil, fmt.Errorf("querying source ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning source id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Stats returns per-type record counts.
func (s *contentStore) Stats(ctx context.Context) ([]domain.ContentStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT content_type, COUNT(*), COUNT(*) FILTER (WHERE is_active AND is_searchable)
		FROM indexed_content
		GROUP BY content_type
		ORDER BY content_type
	`)
	if err != nil {
		return nil, fmt.Errorf("querying content stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.ContentStats
	for rows.Next() {
		var stat domain.ContentStats
		var contentType string
		if err := rows.Scan(&contentType, &stat.Total, &stat.Searchable); err != nil {
			return nil, fmt.Errorf("scanning content stats: %w", err)
		}
		stat.ContentType = domain.ContentType(contentType)
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

// Clear removes records of the given types, or every record when empty.
func (s *contentStore) Clear(ctx context.Context, types []domain.ContentType) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM indexed_content WHERE $1::text[] IS NULL OR content_type = ANY($1)",
		typeArray(types))
	if err != nil {
		return 0, fmt.Errorf("clearing content: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting cleared content: %w", err)
	}
	return int(n), nil
}

func scanContent(row rowScanner, extra ...any) (*domain.IndexedContent, error) {
	var c domain.IndexedContent
	var contentType string
	var contentUpdatedAt pq.NullTime

	dest := []any{
		&contentType, &c.SourceID, &c.Title, &c.Slug, &c.URL, &c.ContentText,
		&c.Summary, &c.Keywords, &c.Category, &c.Tags, &c.Priority, &contentUpdatedAt,
		&c.IsActive, &c.IsSearchable, &c.CreatedAt, &c.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning content: %w", err)
	}
	c.ContentType = domain.ContentType(contentType)
	if contentUpdatedAt.Valid {
		c.ContentUpdatedAt = contentUpdatedAt.Time
	}
	return &c, nil
}
