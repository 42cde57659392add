package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
	"github.com/custodia-labs/relevance/internal/core/ports/driving"
	"github.com/custodia-labs/relevance/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.Indexer = (*Indexer)(nil)

// Indexer materialises indexed content from source records.
//
// It is the only writer of the content store. Runs over the same content
// type are serialised; runs over different types may proceed concurrently.
// After every batch the search cache is invalidated wholesale.
type Indexer struct {
	source    driven.ContentSource
	store     driven.ContentStore
	registry  driven.ExtractorRegistry
	cache     *SearchCache
	telemetry driven.Telemetry
	now       func() time.Time

	locksMu sync.Mutex
	locks   map[domain.ContentType]*sync.Mutex

	// Status tracking
	mu     sync.RWMutex
	status map[domain.ContentType]*domain.IndexStatus
}

// NewIndexer creates an indexer. cache and telemetry are optional.
func NewIndexer(
	source driven.ContentSource,
	store driven.ContentStore,
	registry driven.ExtractorRegistry,
	cache *SearchCache,
	telemetry driven.Telemetry,
) *Indexer {
	return &Indexer{
		source:    source,
		store:     store,
		registry:  registry,
		cache:     cache,
		telemetry: telemetry,
		now:       time.Now,
		locks:     make(map[domain.ContentType]*sync.Mutex),
		status:    make(map[domain.ContentType]*domain.IndexStatus),
	}
}

// BuildContent derives the indexed form of an eligible record.
func BuildContent(ext driven.ContentExtractor, rec domain.SourceRecord) domain.IndexedContent {
	loc := ext.Locate(rec)
	return domain.IndexedContent{
		ContentType:      ext.ContentType(),
		SourceID:         rec.ID,
		Title:            ext.Title(rec),
		Slug:             loc.Slug,
		URL:              loc.URL,
		ContentText:      ext.Body(rec),
		Summary:          ext.Summary(rec),
		Keywords:         domain.JoinList(ext.Keywords(rec)...),
		Category:         loc.Category,
		Tags:             domain.JoinList(loc.Tags...),
		Priority:         domain.ClampPriority(ext.Priority(rec)),
		ContentUpdatedAt: rec.UpdatedAt,
		IsActive:         true,
		IsSearchable:     true,
	}
}

// IndexAll indexes every registered content type in registry order.
// An unavailable source skips its type; only cancellation or a failing
// store aborts the run. Counts already written remain valid on error.
func (ix *Indexer) IndexAll(ctx context.Context) (domain.IndexStats, error) {
	logger.Section("Content Indexing")
	defer ix.invalidate(ctx)

	var total domain.IndexStats
	var errs []error
	for _, t := range ix.registry.Types() {
		stats, err := ix.runLocked(ctx, t)
		total.Add(stats)
		if err != nil {
			if ctx.Err() != nil {
				return total, ctx.Err()
			}
			errs = append(errs, fmt.Errorf("index %s: %w", t, err))
		}
	}

	logger.Info("Content indexing completed. Indexed: %d, Updated: %d, Errors: %d, Deleted: %d",
		total.Indexed, total.Updated, total.Errors, total.Deleted)
	return total, errors.Join(errs...)
}

// IndexContentType indexes one content type in isolation.
func (ix *Indexer) IndexContentType(ctx context.Context, contentType domain.ContentType) (domain.IndexStats, error) {
	if _, err := ix.registry.Get(contentType); err != nil {
		return domain.IndexStats{}, err
	}
	defer ix.invalidate(ctx)
	return ix.runLocked(ctx, contentType)
}

// IndexRecord re-reads one source record and upserts, or removes it when
// it no longer exists or is no longer eligible. Built-in types are
// re-indexed whole.
func (ix *Indexer) IndexRecord(ctx context.Context, contentType domain.ContentType, sourceID string) (domain.IndexStats, error) {
	ext, err := ix.registry.Get(contentType)
	if err != nil {
		return domain.IndexStats{}, err
	}
	if _, ok := ext.(driven.StaticExtractor); ok {
		return ix.IndexContentType(ctx, contentType)
	}
	if ix.source == nil {
		return domain.IndexStats{}, fmt.Errorf("%w: no content source configured", domain.ErrSourceUnavailable)
	}

	unlock := ix.lock(contentType)
	defer unlock()
	defer ix.invalidate(ctx)

	var stats domain.IndexStats
	rec, err := ix.source.Record(ctx, contentType, sourceID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && !ext.IsActive(*rec)) {
		removed, err := ix.remove(ctx, domain.ContentKey{ContentType: contentType, SourceID: sourceID})
		if removed {
			stats.Deleted++
		}
		return stats, err
	}
	if err != nil {
		return stats, err
	}

	ix.upsert(ctx, ext, *rec, &stats)
	return stats, nil
}

// RemoveRecord deletes the indexed form of a removed source record.
func (ix *Indexer) RemoveRecord(ctx context.Context, contentType domain.ContentType, sourceID string) error {
	if !contentType.IsValid() || sourceID == "" {
		return domain.ErrInvalidInput
	}
	unlock := ix.lock(contentType)
	defer unlock()
	defer ix.invalidate(ctx)

	_, err := ix.remove(ctx, domain.ContentKey{ContentType: contentType, SourceID: sourceID})
	return err
}

// Clear removes indexed content for the given types, or all when empty.
func (ix *Indexer) Clear(ctx context.Context, types []domain.ContentType) (int, error) {
	defer ix.invalidate(ctx)
	n, err := ix.store.Clear(ctx, types)
	if err != nil {
		return 0, fmt.Errorf("clear content: %w", err)
	}
	logger.Info("Cleared %d indexed records", n)
	return n, nil
}

// Stats returns per-type repository counts.
func (ix *Indexer) Stats(ctx context.Context) ([]domain.ContentStats, error) {
	return ix.store.Stats(ctx)
}

// Status returns the last known run status per content type in registry order.
func (ix *Indexer) Status(_ context.Context) []domain.IndexStatus {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]domain.IndexStatus, 0, len(ix.status))
	for _, t := range ix.registry.Types() {
		if s, ok := ix.status[t]; ok {
			out = append(out, *s)
		}
	}
	return out
}

func (ix *Indexer) runLocked(ctx context.Context, contentType domain.ContentType) (domain.IndexStats, error) {
	unlock := ix.lock(contentType)
	defer unlock()

	start := ix.now()
	ix.setStatus(contentType, &domain.IndexStatus{ContentType: contentType, Running: true, StartedAt: start})

	stats, err := ix.indexType(ctx, contentType)

	status := &domain.IndexStatus{
		ContentType: contentType,
		Stats:       stats,
		StartedAt:   start,
		FinishedAt:  ix.now(),
	}
	if err != nil {
		status.LastError = err.Error()
	}
	ix.setStatus(contentType, status)

	// An unavailable collaborator contributes zero records and keeps
	// whatever was indexed before.
	if errors.Is(err, domain.ErrSourceUnavailable) && ctx.Err() == nil {
		logger.Warn("%s skipped: %v", contentType, err)
		err = nil
	}

	if ix.telemetry != nil {
		ix.telemetry.IndexCompleted(contentType, stats, status.FinishedAt.Sub(start))
	}
	return stats, err
}

// indexType enumerates, upserts and prunes one content type.
// The caller holds the type's lock.
func (ix *Indexer) indexType(ctx context.Context, contentType domain.ContentType) (domain.IndexStats, error) {
	var stats domain.IndexStats

	ext, err := ix.registry.Get(contentType)
	if err != nil {
		return stats, err
	}

	records, err := ix.records(ctx, ext)
	if err != nil {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		if !errors.Is(err, domain.ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
		}
		return stats, err
	}
	logger.Debug("%s: %d source records", contentType, len(records))

	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if !ext.IsActive(rec) {
			continue
		}
		if rec.ID == "" {
			stats.Errors++
			logger.Warn("%s record %q has no id, skipping", contentType, rec.Title)
			continue
		}
		seen[rec.ID] = true
		ix.upsert(ctx, ext, rec, &stats)
	}

	if err := ix.prune(ctx, contentType, seen, &stats); err != nil {
		return stats, err
	}

	logger.Info("%s: indexed %d, updated %d, errors %d, deleted %d",
		contentType, stats.Indexed, stats.Updated, stats.Errors, stats.Deleted)
	return stats, nil
}

func (ix *Indexer) records(ctx context.Context, ext driven.ContentExtractor) ([]domain.SourceRecord, error) {
	if static, ok := ext.(driven.StaticExtractor); ok {
		return static.StaticRecords(ctx)
	}
	if ix.source == nil {
		return nil, fmt.Errorf("%w: no content source configured", domain.ErrSourceUnavailable)
	}
	return ix.source.Records(ctx, ext.ContentType())
}

// upsert writes one record, counting the outcome. Failures are logged
// with the record identity and never abort the batch.
func (ix *Indexer) upsert(ctx context.Context, ext driven.ContentExtractor, rec domain.SourceRecord, stats *domain.IndexStats) {
	content := BuildContent(ext, rec)
	content.UpdatedAt = ix.now()
	if content.ContentUpdatedAt.IsZero() {
		content.ContentUpdatedAt = content.UpdatedAt
	}

	created, err := ix.store.Upsert(ctx, &content)
	if err != nil {
		stats.Errors++
		logger.Error(err, "Error indexing content %s", content.Key())
		return
	}
	if created {
		stats.Indexed++
	} else {
		stats.Updated++
	}
}

// prune deletes rows of a type whose source record was not produced by
// the latest enumeration.
func (ix *Indexer) prune(ctx context.Context, contentType domain.ContentType, seen map[string]bool, stats *domain.IndexStats) error {
	ids, err := ix.store.SourceIDs(ctx, contentType)
	if err != nil {
		return fmt.Errorf("list stored ids: %w", err)
	}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		removed, err := ix.remove(ctx, domain.ContentKey{ContentType: contentType, SourceID: id})
		if err != nil {
			stats.Errors++
			logger.Error(err, "Error pruning content %s:%s", contentType, id)
			continue
		}
		if removed {
			stats.Deleted++
		}
	}
	return nil
}

func (ix *Indexer) remove(ctx context.Context, key domain.ContentKey) (bool, error) {
	if _, err := ix.store.Get(ctx, key); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := ix.store.Delete(ctx, key); err != nil {
		return false, fmt.Errorf("delete %s: %w", key, err)
	}
	logger.Debug("Removed %s", key)
	return true, nil
}

func (ix *Indexer) invalidate(ctx context.Context) {
	if ix.cache != nil {
		ix.cache.InvalidateAll(context.WithoutCancel(ctx))
	}
}

// lock acquires the per-type mutex and returns its release.
func (ix *Indexer) lock(contentType domain.ContentType) func() {
	ix.locksMu.Lock()
	m, ok := ix.locks[contentType]
	if !ok {
		m = &sync.Mutex{}
		ix.locks[contentType] = m
	}
	ix.locksMu.Unlock()

	m.Lock()
	return m.Unlock
}

func (ix *Indexer) setStatus(contentType domain.ContentType, status *domain.IndexStatus) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.status[contentType] = status
}
