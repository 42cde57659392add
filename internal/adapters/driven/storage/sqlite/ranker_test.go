package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

func seedRankerStore(t *testing.T, store *Store, records ...*domain.IndexedContent) {
	t.Helper()
	for _, rec := range records {
		_, err := store.ContentStore().Upsert(context.Background(), rec)
		require.NoError(t, err)
	}
}

func TestRanker_TitleOutranksBody(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	seedRankerStore(t, store,
		testContent(domain.ContentTypeService, "title", "Luxury car hire", "Premium vehicles", 9),
		testContent(domain.ContentTypeBlog, "body", "Weekend plans", "We arranged luxury car hire for the trip", 8),
		testContent(domain.ContentTypeFAQ, "other", "Opening hours", "Monday to Friday", 7),
	)

	r := store.Ranker(1.0, 0.4)
	results, err := r.Rank(context.Background(), "luxury", domain.SearchOptions{}, 0.01)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "title", results[0].Content.SourceID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.Equal(t, "body", results[1].Content.SourceID)
	assert.Less(t, results[1].Score, results[0].Score)
	assert.Equal(t, "sqlite-fts5", r.Name())
}

func TestRanker_MinRankFilters(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	seedRankerStore(t, store,
		testContent(domain.ContentTypeService, "title", "Luxury car hire", "Premium vehicles", 9),
		testContent(domain.ContentTypeBlog, "body", "Weekend plans", "We arranged luxury car hire for the trip", 8),
	)

	results, err := store.Ranker(1.0, 0.4).Rank(context.Background(), "luxury", domain.SearchOptions{}, 0.99)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "title", results[0].Content.SourceID)
}

func TestRanker_VisibilityTypesAndLimit(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	hidden := testContent(domain.ContentTypeBlog, "hidden", "Accident claims", "claims", 8)
	hidden.IsActive = false
	seedRankerStore(t, store,
		hidden,
		testContent(domain.ContentTypeFAQ, "faq", "Accident claims FAQ", "How claims work", 7),
		testContent(domain.ContentTypeService, "svc", "Accident replacement", "Claims handled", 10),
	)

	ctx := context.Background()
	r := store.Ranker(1.0, 0.4)

	all, err := r.Rank(ctx, "claims", domain.SearchOptions{}, 0.01)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, res := range all {
		assert.NotEqual(t, "hidden", res.Content.SourceID)
	}

	faqs, err := r.Rank(ctx, "claims", domain.SearchOptions{ContentTypes: []domain.ContentType{domain.ContentTypeFAQ}}, 0.01)
	require.NoError(t, err)
	require.Len(t, faqs, 1)
	assert.Equal(t, domain.ContentTypeFAQ, faqs[0].Content.ContentType)

	limited, err := r.Rank(ctx, "claims", domain.SearchOptions{Limit: 1}, 0.01)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRanker_WebSearchOperators(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	seedRankerStore(t, store,
		testContent(domain.ContentTypeVehicle, "merc", "Mercedes E 300", "Executive saloon", 9),
		testContent(domain.ContentTypeVehicle, "van", "Mercedes V-Class", "People carrier van", 9),
		testContent(domain.ContentTypeVehicle, "kia", "Kia Niro", "Hybrid crossover", 9),
	)

	ctx := context.Background()
	r := store.Ranker(1.0, 0.4)

	notVan, err := r.Rank(ctx, "mercedes -van", domain.SearchOptions{}, 0.01)
	require.NoError(t, err)
	require.Len(t, notVan, 1)
	assert.Equal(t, "merc", notVan[0].Content.SourceID)

	either, err := r.Rank(ctx, "kia OR saloon", domain.SearchOptions{}, 0.01)
	require.NoError(t, err)
	assert.Len(t, either, 2)

	phrase, err := r.Rank(ctx, `"people carrier"`, domain.SearchOptions{}, 0.01)
	require.NoError(t, err)
	require.Len(t, phrase, 1)
	assert.Equal(t, "van", phrase[0].Content.SourceID)

	none, err := r.Rank(ctx, "-van", domain.SearchOptions{}, 0.01)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRanker_IndexFollowsUpdatesAndDeletes(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	rec := testContent(domain.ContentTypeBlog, "1", "Winter tyres", "Grip in snow", 8)
	seedRankerStore(t, store, rec)

	r := store.Ranker(1.0, 0.4)
	results, err := r.Rank(ctx, "winter", domain.SearchOptions{}, 0.01)
	require.NoError(t, err)
	require.Len(t, results, 1)

	rec.Title = "Summer tyres"
	rec.ContentText = "Grip in heat"
	seedRankerStore(t, store, rec)

	results, err = r.Rank(ctx, "winter", domain.SearchOptions{}, 0.01)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = r.Rank(ctx, "summer", domain.SearchOptions{}, 0.01)
	require.NoError(t, err)
	require.Len(t, results, 1)

	require.NoError(t, store.ContentStore().Delete(ctx, rec.Key()))
	results, err = r.Rank(ctx, "summer", domain.SearchOptions{}, 0.01)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRanker_ClosedDatabaseIsUnavailable(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Ranker(1.0, 0.4).Rank(context.Background(), "anything", domain.SearchOptions{}, 0.01)
	require.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestNormaliseScores(t *testing.T) {
	in := []domain.SearchResult{{Score: 4}, {Score: 2}, {Score: 0.01}}
	out := normaliseScores(in, 0.1)
	require.Len(t, out, 2)
	assert.InDelta(t, 1.0, out[0].Score, 1e-9)
	assert.InDelta(t, 0.5, out[1].Score, 1e-9)

	assert.Empty(t, normaliseScores(nil, 0.01))
	assert.Empty(t, normaliseScores([]domain.SearchResult{{Score: 0}}, 0.01))
}
