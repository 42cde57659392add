package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

const sectionColumns = "section, title, content, keywords, is_active, display_order, created_at, updated_at"

// contextStore implements driven.ContextStore.
type contextStore struct {
	db *sql.DB
}

var _ driven.ContextStore = (*contextStore)(nil)

// Save creates or updates a section.
func (s *contextStore) Save(ctx context.Context, section *domain.ContextSection) error {
	if section == nil || section.Section == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	createdAt, updatedAt := section.CreatedAt, section.UpdatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	if updatedAt.IsZero() {
		updatedAt = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO context_sections (`+sectionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (section) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			keywords = EXCLUDED.keywords,
			is_active = EXCLUDED.is_active,
			display_order = EXCLUDED.display_order,
			updated_at = EXCLUDED.updated_at
	`, section.Section, section.Title, section.Content, section.Keywords,
		section.IsActive, section.DisplayOrder, createdAt, updatedAt)
	if err != nil {
		return fmt.Errorf("saving context section: %w", err)
	}
	return nil
}

// Get retrieves a section by key.
func (s *contextStore) Get(ctx context.Context, key string) (*domain.ContextSection, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sectionColumns+" FROM context_sections WHERE section = $1", key)
	section, err := scanSection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return section, err
}

// Delete removes a section.
func (s *contextStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM context_sections WHERE section = $1", key); err != nil {
		return fmt.Errorf("deleting context section: %w", err)
	}
	return nil
}

// List returns every section ordered by display order, then key.
func (s *contextStore) List(ctx context.Context) ([]domain.ContextSection, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sectionColumns+" FROM context_sections ORDER BY display_order, section")
	if err != nil {
		return nil, fmt.Errorf("querying context sections: %w", err)
	}
	defer rows.Close()

	var sections []domain.ContextSection
	for rows.Next() {
		section, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, *section)
	}
	return sections, rows.Err()
}

func scanSection(row rowScanner) (*domain.ContextSection, error) {
	var s domain.ContextSection
	if err := row.Scan(&s.Section, &s.Title, &s.Content, &s.Keywords,
		&s.IsActive, &s.DisplayOrder, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning context section: %w", err)
	}
	return &s, nil
}
