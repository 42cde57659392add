package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

// Ensure ContentStore implements the interface.
var _ driven.ContentStore = (*ContentStore)(nil)

// ContentStore is an in-memory implementation of driven.ContentStore.
type ContentStore struct {
	mu      sync.RWMutex
	records map[domain.ContentKey]domain.IndexedContent
}

// NewContentStore creates a new in-memory content store.
func NewContentStore() *ContentStore {
	return &ContentStore{
		records: make(map[domain.ContentKey]domain.IndexedContent),
	}
}

// Upsert stores or updates a record. CreatedAt survives updates.
func (s *ContentStore) Upsert(_ context.Context, content *domain.IndexedContent) (bool, error) {
	if content == nil || content.SourceID == "" || !content.ContentType.IsValid() {
		return false, domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := content.Key()
	existing, ok := s.records[key]
	record := *content
	if ok && !existing.CreatedAt.IsZero() {
		record.CreatedAt = existing.CreatedAt
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = record.UpdatedAt
	}
	s.records[key] = record
	return !ok, nil
}

// Get retrieves a record by identity.
func (s *ContentStore) Get(_ context.Context, key domain.ContentKey) (*domain.IndexedContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// Delete removes a record.
func (s *ContentStore) Delete(_ context.Context, key domain.ContentKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// ListSearchable returns visible records in listing order.
func (s *ContentStore) ListSearchable(_ context.Context, types []domain.ContentType) ([]domain.IndexedContent, error) {
	opts := domain.SearchOptions{ContentTypes: types}

	s.mu.RLock()
	result := make([]domain.IndexedContent, 0, len(s.records))
	for _, record := range s.records {
		if record.Visible() && opts.Allows(record.ContentType) {
			result = append(result, record)
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return domain.ListingLess(result[i], result[j])
	})
	return result, nil
}

// SourceIDs returns every stored source ID for a content type.
func (s *ContentStore) SourceIDs(_ context.Context, contentType domain.ContentType) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for key := range s.records {
		if key.ContentType == contentType {
			ids = append(ids, key.SourceID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Stats returns per-type record counts ordered by content type.
func (s *ContentStore) Stats(_ context.Context) ([]domain.ContentStats, error) {
	s.mu.RLock()
	counts := make(map[domain.ContentType]*domain.ContentStats)
	for _, record := range s.records {
		stat, ok := counts[record.ContentType]
		if !ok {
			stat = &domain.ContentStats{ContentType: record.ContentType}
			counts[record.ContentType] = stat
		}
		stat.Total++
		if record.Visible() {
			stat.Searchable++
		}
	}
	s.mu.RUnlock()

	result := make([]domain.ContentStats, 0, len(counts))
	for _, stat := range counts {
		result = append(result, *stat)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ContentType < result[j].ContentType
	})
	return result, nil
}

// Clear removes records of the given types, or every record when empty.
func (s *ContentStore) Clear(_ context.Context, types []domain.ContentType) (int, error) {
	opts := domain.SearchOptions{ContentTypes: types}

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key := range s.records {
		if opts.Allows(key.ContentType) {
			delete(s.records, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored records.
func (s *ContentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
