package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cachemem "github.com/custodia-labs/relevance/internal/adapters/driven/cache/memory"
	"github.com/custodia-labs/relevance/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/extractors"
)

// --- Mock implementations for indexer testing ---

// flakyStore fails upserts for chosen source IDs.
type flakyStore struct {
	*memory.ContentStore
	failIDs map[string]bool
}

func (s *flakyStore) Upsert(ctx context.Context, content *domain.IndexedContent) (bool, error) {
	if s.failIDs[content.SourceID] {
		return false, errors.New("disk full")
	}
	return s.ContentStore.Upsert(ctx, content)
}

// recordingTelemetry counts observations.
type recordingTelemetry struct {
	mu       sync.Mutex
	searches map[domain.RankingPath]int
	hits     int
	misses   int
	indexed  map[domain.ContentType]domain.IndexStats
	tiers    []string
}

func newRecordingTelemetry() *recordingTelemetry {
	return &recordingTelemetry{
		searches: make(map[domain.RankingPath]int),
		indexed:  make(map[domain.ContentType]domain.IndexStats),
	}
}

func (r *recordingTelemetry) SearchServed(path domain.RankingPath, _ int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searches[path]++
}

func (r *recordingTelemetry) CacheLookup(hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

func (r *recordingTelemetry) IndexCompleted(t domain.ContentType, stats domain.IndexStats, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexed[t] = stats
}

func (r *recordingTelemetry) ContextServed(tier string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiers = append(r.tiers, tier)
}

// --- Helpers ---

type indexerFixture struct {
	catalog   *memory.Catalog
	store     *memory.ContentStore
	cache     *cachemem.Cache
	telemetry *recordingTelemetry
	indexer   *Indexer
}

func newIndexerFixture(t *testing.T) *indexerFixture {
	t.Helper()
	registry := extractors.NewRegistry()
	registry.Register(extractors.NewBlog(8, 300))
	registry.Register(extractors.NewFAQ(7))
	registry.Register(extractors.NewStatic(domain.ContentTypeService, 9))

	f := &indexerFixture{
		catalog:   memory.NewCatalog(),
		store:     memory.NewContentStore(),
		cache:     cachemem.New(0),
		telemetry: newRecordingTelemetry(),
	}
	searchCache := NewSearchCache(f.cache, "test_search", f.telemetry)
	f.indexer = NewIndexer(f.catalog, f.store, registry, searchCache, f.telemetry)
	return f
}

func publishedPost(id, title string) domain.SourceRecord {
	return domain.SourceRecord{
		ID:     id,
		Title:  title,
		Slug:   "post-" + id,
		Body:   "Body of " + title,
		Status: domain.StatusPublished,
	}
}

func TestIndexer_IndexAll(t *testing.T) {
	f := newIndexerFixture(t)
	f.catalog.Put(domain.ContentTypeBlog,
		publishedPost("1", "First post"),
		publishedPost("2", "Second post"),
		domain.SourceRecord{ID: "3", Title: "Draft", Status: domain.StatusDraft},
	)
	f.catalog.Put(domain.ContentTypeFAQ,
		domain.SourceRecord{ID: "10", Title: "Do you deliver?", Body: "Yes.", Active: true},
	)

	stats, err := f.indexer.IndexAll(context.Background())
	require.NoError(t, err)

	// 2 posts, 1 faq, 3 static service pages
	assert.Equal(t, 6, stats.Indexed)
	assert.Equal(t, 0, stats.Updated)
	assert.Equal(t, 0, stats.Errors)
	assert.Equal(t, 6, f.store.Len())

	_, err = f.store.Get(context.Background(), domain.ContentKey{ContentType: domain.ContentTypeBlog, SourceID: "3"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 2, f.telemetry.indexed[domain.ContentTypeBlog].Indexed)
	assert.Equal(t, 3, f.telemetry.indexed[domain.ContentTypeService].Indexed)
}

func TestIndexer_IndexAll_Idempotent(t *testing.T) {
	f := newIndexerFixture(t)
	f.catalog.Put(domain.ContentTypeBlog, publishedPost("1", "First post"))

	first, err := f.indexer.IndexAll(context.Background())
	require.NoError(t, err)
	second, err := f.indexer.IndexAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, first.Indexed)
	assert.Equal(t, 0, second.Indexed)
	assert.Equal(t, 4, second.Updated)
	assert.Equal(t, 4, f.store.Len())
}

func TestIndexer_StaticIDsStable(t *testing.T) {
	f := newIndexerFixture(t)

	_, err := f.indexer.IndexContentType(context.Background(), domain.ContentTypeService)
	require.NoError(t, err)
	first, err := f.store.SourceIDs(context.Background(), domain.ContentTypeService)
	require.NoError(t, err)

	_, err = f.indexer.IndexContentType(context.Background(), domain.ContentTypeService)
	require.NoError(t, err)
	second, err := f.store.SourceIDs(context.Background(), domain.ContentTypeService)
	require.NoError(t, err)

	assert.ElementsMatch(t, first, second)
	assert.Len(t, second, 3)
}

func TestIndexer_PrunesUnpublished(t *testing.T) {
	f := newIndexerFixture(t)
	ctx := context.Background()
	f.catalog.Put(domain.ContentTypeBlog, publishedPost("1", "First post"), publishedPost("2", "Second post"))

	_, err := f.indexer.IndexContentType(ctx, domain.ContentTypeBlog)
	require.NoError(t, err)

	draft := publishedPost("2", "Second post")
	draft.Status = domain.StatusDraft
	f.catalog.Put(domain.ContentTypeBlog, draft)

	stats, err := f.indexer.IndexContentType(ctx, domain.ContentTypeBlog)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 1, stats.Deleted)

	ids, err := f.store.SourceIDs(ctx, domain.ContentTypeBlog)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids)
}

func TestIndexer_UnavailableSourceIsNotFatal(t *testing.T) {
	f := newIndexerFixture(t)
	ctx := context.Background()
	f.catalog.Put(domain.ContentTypeBlog, publishedPost("1", "First post"))
	f.catalog.Put(domain.ContentTypeFAQ, domain.SourceRecord{ID: "10", Title: "Q", Active: true})

	_, err := f.indexer.IndexAll(ctx)
	require.NoError(t, err)

	f.catalog.SetUnavailable(domain.ContentTypeBlog, true)
	stats, err := f.indexer.IndexAll(ctx)
	require.NoError(t, err)

	// Blog rows survive because the source could not be enumerated.
	assert.Equal(t, 0, stats.Deleted)
	_, err = f.store.Get(ctx, domain.ContentKey{ContentType: domain.ContentTypeBlog, SourceID: "1"})
	assert.NoError(t, err)

	for _, s := range f.indexer.Status(ctx) {
		if s.ContentType == domain.ContentTypeBlog {
			assert.Contains(t, s.LastError, "unavailable")
			assert.False(t, s.Running)
		}
	}
}

func TestIndexer_RecordErrorsDoNotAbort(t *testing.T) {
	f := newIndexerFixture(t)
	store := &flakyStore{ContentStore: f.store, failIDs: map[string]bool{"2": true}}
	registry := extractors.NewRegistry()
	registry.Register(extractors.NewBlog(8, 300))
	ix := NewIndexer(f.catalog, store, registry, nil, nil)

	f.catalog.Put(domain.ContentTypeBlog,
		publishedPost("1", "One"),
		publishedPost("2", "Two"),
		publishedPost("3", "Three"),
		domain.SourceRecord{Title: "No id", Status: domain.StatusPublished},
	)

	stats, err := ix.IndexAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Indexed)
	assert.Equal(t, 2, stats.Errors)
}

func TestIndexer_InvalidatesSearchCache(t *testing.T) {
	f := newIndexerFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cache.Set(ctx, "test_search:abc", []byte("[]"), time.Minute))
	require.NoError(t, f.cache.Set(ctx, "other:abc", []byte("[]"), time.Minute))

	_, err := f.indexer.IndexContentType(ctx, domain.ContentTypeService)
	require.NoError(t, err)

	_, err = f.cache.Get(ctx, "test_search:abc")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	_, err = f.cache.Get(ctx, "other:abc")
	assert.NoError(t, err)
}

func TestIndexer_UnknownType(t *testing.T) {
	f := newIndexerFixture(t)

	_, err := f.indexer.IndexContentType(context.Background(), domain.ContentTypeGallery)
	assert.ErrorIs(t, err, domain.ErrUnknownContentType)

	_, err = f.indexer.IndexRecord(context.Background(), domain.ContentTypePage, "1")
	assert.ErrorIs(t, err, domain.ErrUnknownContentType)
}

func TestIndexer_IndexRecord(t *testing.T) {
	f := newIndexerFixture(t)
	ctx := context.Background()
	key := domain.ContentKey{ContentType: domain.ContentTypeBlog, SourceID: "1"}

	f.catalog.Put(domain.ContentTypeBlog, publishedPost("1", "First post"))
	stats, err := f.indexer.IndexRecord(ctx, domain.ContentTypeBlog, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Indexed)

	f.catalog.Put(domain.ContentTypeBlog, publishedPost("1", "Renamed post"))
	stats, err = f.indexer.IndexRecord(ctx, domain.ContentTypeBlog, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Updated)
	got, err := f.store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "Renamed post", got.Title)

	f.catalog.Remove(domain.ContentTypeBlog, "1")
	stats, err = f.indexer.IndexRecord(ctx, domain.ContentTypeBlog, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Deleted)
	_, err = f.store.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Already gone.
	stats, err = f.indexer.IndexRecord(ctx, domain.ContentTypeBlog, "1")
	require.NoError(t, err)
	assert.Equal(t, domain.IndexStats{}, stats)
}

func TestIndexer_IndexRecord_Static(t *testing.T) {
	f := newIndexerFixture(t)

	stats, err := f.indexer.IndexRecord(context.Background(), domain.ContentTypeService, "anything")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Indexed)
}

func TestIndexer_RemoveRecord(t *testing.T) {
	f := newIndexerFixture(t)
	ctx := context.Background()
	f.catalog.Put(domain.ContentTypeBlog, publishedPost("1", "First post"))
	_, err := f.indexer.IndexContentType(ctx, domain.ContentTypeBlog)
	require.NoError(t, err)

	require.NoError(t, f.indexer.RemoveRecord(ctx, domain.ContentTypeBlog, "1"))
	assert.Equal(t, 0, f.store.Len())

	assert.NoError(t, f.indexer.RemoveRecord(ctx, domain.ContentTypeBlog, "1"))
	assert.ErrorIs(t, f.indexer.RemoveRecord(ctx, domain.ContentTypeBlog, ""), domain.ErrInvalidInput)
}

func TestIndexer_ClearAndStats(t *testing.T) {
	f := newIndexerFixture(t)
	ctx := context.Background()
	f.catalog.Put(domain.ContentTypeBlog, publishedPost("1", "First post"))
	_, err := f.indexer.IndexAll(ctx)
	require.NoError(t, err)

	stats, err := f.indexer.Stats(ctx)
	require.NoError(t, err)
	total := 0
	for _, s := range stats {
		total += s.Total
	}
	assert.Equal(t, 4, total)

	n, err := f.indexer.Clear(ctx, []domain.ContentType{domain.ContentTypeService})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, f.store.Len())
}

func TestIndexer_CancelledContext(t *testing.T) {
	f := newIndexerFixture(t)
	f.catalog.Put(domain.ContentTypeBlog, publishedPost("1", "First post"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.indexer.IndexAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndexer_Status(t *testing.T) {
	f := newIndexerFixture(t)
	assert.Empty(t, f.indexer.Status(context.Background()))

	_, err := f.indexer.IndexAll(context.Background())
	require.NoError(t, err)

	status := f.indexer.Status(context.Background())
	require.Len(t, status, 3)
	assert.Equal(t, domain.ContentTypeBlog, status[0].ContentType)
	assert.Equal(t, domain.ContentTypeService, status[1].ContentType)
	assert.Equal(t, domain.ContentTypeFAQ, status[2].ContentType)
	assert.Equal(t, 3, status[1].Stats.Indexed)
	assert.False(t, status[1].FinishedAt.IsZero())
}

func TestBuildContent(t *testing.T) {
	rec := publishedPost("7", "Hello")
	rec.UpdatedAt = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	content := BuildContent(extractors.NewBlog(12, 300), rec)
	assert.Equal(t, domain.ContentTypeBlog, content.ContentType)
	assert.Equal(t, "7", content.SourceID)
	assert.Equal(t, 10, content.Priority)
	assert.Equal(t, rec.UpdatedAt, content.ContentUpdatedAt)
	assert.True(t, content.Visible())
}
