package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
	}
	return store, cleanup
}

// testContent builds a visible record.
func testContent(t domain.ContentType, id, title, body string, priority int) *domain.IndexedContent {
	return &domain.IndexedContent{
		ContentType:  t,
		SourceID:     id,
		Title:        title,
		ContentText:  body,
		Priority:     priority,
		IsActive:     true,
		IsSearchable: true,
		UpdatedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Contains(t, store.Path(), "relevance.db")
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	_, err = store.ContentStore().Upsert(ctx, testContent(domain.ContentTypeFAQ, "1", "Question", "Answer", 7))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.ContentStore().Get(ctx, domain.ContentKey{ContentType: domain.ContentTypeFAQ, SourceID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "Question", got.Title)

	var versions int
	require.NoError(t, reopened.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
	assert.Equal(t, 3, versions)
}

func TestTypeFilter(t *testing.T) {
	clause, args := typeFilter("c.content_type", nil)
	assert.Empty(t, clause)
	assert.Nil(t, args)

	clause, args = typeFilter("c.content_type", []domain.ContentType{domain.ContentTypeBlog, domain.ContentTypeFAQ})
	assert.Equal(t, " AND c.content_type IN (?, ?)", clause)
	assert.Equal(t, []any{"blog", "faq"}, args)
}
