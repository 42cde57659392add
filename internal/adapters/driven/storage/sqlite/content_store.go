package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

// contentFields lists indexed_content columns in scan order.
var contentFields = []string{
	"content_type", "source_object_id", "title", "slug", "url", "content_text",
	"summary", "keywords", "category", "tags", "priority", "content_updated_at",
	"is_active", "is_searchable", "created_at", "updated_at",
}

// contentColumns is the unqualified select list.
var contentColumns = qualifiedColumns("")

// qualifiedColumns renders contentFields prefixed with a table alias.
func qualifiedColumns(alias string) string {
	if alias == "" {
		return strings.Join(contentFields, ", ")
	}
	cols := make([]string, len(contentFields))
	for i, f := range contentFields {
		cols[i] = alias + "." + f
	}
	return strings.Join(cols, ", ")
}

// contentStore implements driven.ContentStore.
type contentStore struct {
	store *Store
}

var _ driven.ContentStore = (*contentStore)(nil)

// Upsert stores or updates a record keyed by (content type, source ID).
// created_at is preserved on update.
func (s *contentStore) Upsert(ctx context.Context, c *domain.IndexedContent) (bool, error) {
	if c == nil || c.SourceID == "" || !c.ContentType.IsValid() {
		return false, domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning upsert: %w", err)
	}

	var id int64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM indexed_content WHERE content_type = ? AND source_object_id = ?",
		string(c.ContentType), c.SourceID).Scan(&id)
	created := errors.Is(err, sql.ErrNoRows)
	if err != nil && !created {
		return false, errors.Join(fmt.Errorf("looking up content: %w", err), tx.Rollback())
	}

	updatedAt := c.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = updatedAt
	}

	if created {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO indexed_content (`+contentColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, string(c.ContentType), c.SourceID, c.Title, c.Slug, c.URL, c.ContentText,
			c.Summary, c.Keywords, c.Category, c.Tags, c.Priority,
			formatNullableTime(c.ContentUpdatedAt),
			boolToInt(c.IsActive), boolToInt(c.IsSearchable),
			createdAt.UTC().Format(timeLayout), updatedAt.UTC().Format(timeLayout))
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE indexed_content SET
				title = ?, slug = ?, url = ?, content_text = ?, summary = ?,
				keywords = ?, category = ?, tags = ?, priority = ?,
				content_updated_at = ?, is_active = ?, is_searchable = ?, updated_at = ?
			WHERE id = ?
		`, c.Title, c.Slug, c.URL, c.ContentText, c.Summary,
			c.Keywords, c.Category, c.Tags, c.Priority,
			formatNullableTime(c.ContentUpdatedAt),
			boolToInt(c.IsActive), boolToInt(c.IsSearchable),
			updatedAt.UTC().Format(timeLayout), id)
	}
	if err != nil {
		return false, errors.Join(fmt.Errorf("saving content: %w", err), tx.Rollback())
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing content: %w", err)
	}
	return created, nil
}

// Get retrieves a record by identity.
func (s *contentStore) Get(ctx context.Context, key domain.ContentKey) (*domain.IndexedContent, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+contentColumns+" FROM indexed_content WHERE content_type = ? AND source_object_id = ?",
		string(key.ContentType), key.SourceID)

	content, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return content, nil
}

// Delete removes a record.
func (s *contentStore) Delete(ctx context.Context, key domain.ContentKey) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM indexed_content WHERE content_type = ? AND source_object_id = ?",
		string(key.ContentType), key.SourceID)
	if err != nil {
		return fmt.Errorf("deleting content: %w", err)
	}
	return nil
}

// ListSearchable returns visible records ordered by priority, title, source ID.
func (s *contentStore) ListSearchable(ctx context.Context, types []domain.ContentType) ([]domain.IndexedContent, error) {
	filter, args := typeFilter("content_type", types)
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+contentColumns+` FROM indexed_content
		WHERE is_active = 1 AND is_searchable = 1`+filter+`
		ORDER BY priority DESC, title, source_object_id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying searchable content: %w", err)
	}
	defer rows.Close()

	var result []domain.IndexedContent //nolint:prealloc // size unknown from query
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
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT source_object_id FROM indexed_content WHERE content_type = ? ORDER BY source_object_id",
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
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT content_type, COUNT(*), SUM(CASE WHEN is_active = 1 AND is_searchable = 1 THEN 1 ELSE 0 END)
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
	filter, args := typeFilter("content_type", types)
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM indexed_content WHERE 1 = 1"+filter, args...)
	if err != nil {
		return 0, fmt.Errorf("clearing content: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting cleared content: %w", err)
	}
	return int(n), nil
}

// scanContent scans one indexed_content row in contentColumns order,
// followed by any extra destinations.
func scanContent(row rowScanner, extra ...any) (*domain.IndexedContent, error) {
	var c domain.IndexedContent
	var contentType string
	var contentUpdatedAt, createdAt, updatedAt sql.NullString
	var active, searchable int

	dest := []any{
		&contentType, &c.SourceID, &c.Title, &c.Slug, &c.URL, &c.ContentText,
		&c.Summary, &c.Keywords, &c.Category, &c.Tags, &c.Priority, &contentUpdatedAt,
		&active, &searchable, &createdAt, &updatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning content: %w", err)
	}

	c.ContentType = domain.ContentType(contentType)
	c.ContentUpdatedAt = parseNullableTime(contentUpdatedAt)
	c.IsActive = active == 1
	c.IsSearchable = searchable == 1
	c.CreatedAt = parseNullableTime(createdAt)
	c.UpdatedAt = parseNullableTime(updatedAt)
	return &c, nil
}
