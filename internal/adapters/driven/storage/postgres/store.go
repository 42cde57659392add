package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

//go:embed schema.sql
var schema string

// Store wraps a PostgreSQL connection pool.
type Store struct {
	db *sql.DB
}

// Open connects to dsn, verifies the connection, and applies the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%w: postgres dsn is required", domain.ErrInvalidInput)
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection pool without touching the schema.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates tables and indexes that do not yet exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying postgres schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// ContentStore returns a ContentStore backed by this store.
func (s *Store) ContentStore() driven.ContentStore {
	return &contentStore{db: s.db}
}

// Ranker returns a ts_rank ranker with the given title and body weights.
func (s *Store) Ranker(titleWeight, contentWeight float64) driven.Ranker {
	return &ranker{db: s.db, titleWeight: titleWeight, contentWeight: contentWeight}
}

// ContextStore returns a ContextStore backed by this store.
func (s *Store) ContextStore() driven.ContextStore {
	return &contextStore{db: s.db}
}

// typeArray converts a content type filter to a text[] parameter.
// An empty filter becomes NULL.
func typeArray(types []domain.ContentType) any {
	if len(types) == 0 {
		return pq.Array([]string(nil))
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return pq.Array(names)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
