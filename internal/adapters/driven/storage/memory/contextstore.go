package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

// Ensure ContextStore implements the interface.
var _ driven.ContextStore = (*ContextStore)(nil)

// ContextStore is an in-memory implementation of driven.ContextStore.
type ContextStore struct {
	mu       sync.RWMutex
	sections map[string]domain.ContextSection
}

// NewContextStore creates a new in-memory context store.
func NewContextStore() *ContextStore {
	return &ContextStore{
		sections: make(map[string]domain.ContextSection),
	}
}

// Save stores or updates a section.
func (s *ContextStore) Save(_ context.Context, section *domain.ContextSection) error {
	if section == nil || section.Section == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record := *section
	if existing, ok := s.sections[section.Section]; ok && !existing.CreatedAt.IsZero() {
		record.CreatedAt = existing.CreatedAt
	}
	s.sections[section.Section] = record
	return nil
}

// Get retrieves a section by key.
func (s *ContextStore) Get(_ context.Context, key string) (*domain.ContextSection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	section, ok := s.sections[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &section, nil
}

// Delete removes a section.
func (s *ContextStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sections, key)
	return nil
}

// List returns every section ordered by display order, then key.
func (s *ContextStore) List(_ context.Context) ([]domain.ContextSection, error) {
	s.mu.RLock()
	result := make([]domain.ContextSection, 0, len(s.sections))
	for _, section := range s.sections {
		result = append(result, section)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].DisplayOrder != result[j].DisplayOrder {
			return result[i].DisplayOrder < result[j].DisplayOrder
		}
		return result[i].Section < result[j].Section
	})
	return result, nil
}
