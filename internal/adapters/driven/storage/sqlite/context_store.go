package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

// contextStore implements driven.ContextStore.
type contextStore struct {
	store *Store
}

var _ driven.ContextStore = (*contextStore)(nil)

// Save creates or updates a section. created_at is preserved on update.
func (s *contextStore) Save(ctx context.Context, section *domain.ContextSection) error {
	if section == nil || section.Section == "" {
		return domain.ErrInvalidInput
	}

	now := time.Now()
	createdAt := section.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := section.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO context_sections (section, title, content, keywords, is_active, display_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(section) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			keywords = excluded.keywords,
			is_active = excluded.is_active,
			display_order = excluded.display_order,
			updated_at = excluded.updated_at
	`, section.Section, section.Title, section.Content, section.Keywords,
		boolToInt(section.IsActive), section.DisplayOrder,
		createdAt.UTC().Format(timeLayout), updatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("saving context section: %w", err)
	}
	return nil
}

// Get retrieves a section by key.
func (s *contextStore) Get(ctx context.Context, key string) (*domain.ContextSection, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT section, title, content, keywords, is_active, display_order, created_at, updated_at
		FROM context_sections WHERE section = ?
	`, key)

	section, err := scanSection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return section, err
}

// Delete removes a section.
func (s *contextStore) Delete(ctx context.Context, key string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM context_sections WHERE section = ?", key); err != nil {
		return fmt.Errorf("deleting context section: %w", err)
	}
	return nil
}

// List returns every section ordered by display order, then key.
func (s *contextStore) List(ctx context.Context) ([]domain.ContextSection, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT section, title, content, keywords, is_active, display_order, created_at, updated_at
		FROM context_sections
		ORDER BY display_order, section
	`)
	if err != nil {
		return nil, fmt.Errorf("querying context sections: %w", err)
	}
	defer rows.Close()

	var sections []domain.ContextSection //nolint:prealloc // size unknown from query
	for rows.Next() {
		section, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, *section)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating context sections: %w", err)
	}
	return sections, nil
}

func scanSection(row rowScanner) (*domain.ContextSection, error) {
	var section domain.ContextSection
	var active int
	var createdAt, updatedAt sql.NullString

	if err := row.Scan(&section.Section, &section.Title, &section.Content, &section.Keywords,
		&active, &section.DisplayOrder, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning context section: %w", err)
	}
	section.IsActive = active == 1
	section.CreatedAt = parseNullableTime(createdAt)
	section.UpdatedAt = parseNullableTime(updatedAt)
	return &section, nil
}
