package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
	"github.com/custodia-labs/relevance/internal/core/ports/driving"
	"github.com/custodia-labs/relevance/internal/logger"
	"github.com/custodia-labs/relevance/internal/seeds"
)

// Ensure ContextManager implements the interface.
var _ driving.ContextService = (*ContextManager)(nil)

// ContextManager serves curated context sections.
//
// The full active set is loaded at once and held for the configured TTL,
// both in process and, when a shared cache is configured, under a single
// cache key so every process sees a refresh.
type ContextManager struct {
	store    driven.ContextStore
	cache    driven.Cache
	settings domain.ContextSettings
	now      func() time.Time

	mu       sync.RWMutex
	sections []domain.ContextSection
	loadedAt time.Time
}

// NewContextManager creates a context manager. cache is optional.
func NewContextManager(store driven.ContextStore, cache driven.Cache, settings domain.ContextSettings) *ContextManager {
	return &ContextManager{
		store:    store,
		cache:    cache,
		settings: settings,
		now:      time.Now,
	}
}

func (m *ContextManager) cacheKey() string {
	return m.settings.CachePrefix + ":active"
}

// active returns the cached active set, loading it when stale.
// Load failures are logged; the last known set is served instead.
func (m *ContextManager) active(ctx context.Context) []domain.ContextSection {
	m.mu.RLock()
	if m.sections != nil && m.now().Sub(m.loadedAt) < m.settings.CacheTTL {
		sections := m.sections
		m.mu.RUnlock()
		return sections
	}
	stale := m.sections
	m.mu.RUnlock()

	if sections, ok := m.fromCache(ctx); ok {
		m.remember(sections)
		return sections
	}

	sections, err := m.load(ctx)
	if err != nil {
		logger.Warn("Failed to load context sections: %v", err)
		return stale
	}
	return sections
}

func (m *ContextManager) fromCache(ctx context.Context) ([]domain.ContextSection, bool) {
	if m.cache == nil {
		return nil, false
	}
	data, err := m.cache.Get(ctx, m.cacheKey())
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Warn("context cache read failed: %v", err)
		}
		return nil, false
	}
	var sections []domain.ContextSection
	if err := json.Unmarshal(data, &sections); err != nil {
		logger.Warn("context cache entry unreadable: %v", err)
		return nil, false
	}
	if sections == nil {
		sections = []domain.ContextSection{}
	}
	return sections, true
}

// load reads the active set from the store and publishes it to both caches.
func (m *ContextManager) load(ctx context.Context) ([]domain.ContextSection, error) {
	all, err := m.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list context sections: %w", err)
	}
	sections := make([]domain.ContextSection, 0, len(all))
	for _, s := range all {
		if s.IsActive {
			sections = append(sections, s)
		}
	}

	m.remember(sections)
	if m.cache != nil {
		if data, err := json.Marshal(sections); err == nil {
			if err := m.cache.Set(ctx, m.cacheKey(), data, m.settings.CacheTTL); err != nil {
				logger.Warn("context cache write failed: %v", err)
			}
		}
	}
	logger.Debug("Loaded %d active context sections", len(sections))
	return sections, nil
}

func (m *ContextManager) remember(sections []domain.ContextSection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sections = sections
	m.loadedAt = m.now()
}

func (m *ContextManager) lookup(ctx context.Context, key string) (domain.ContextSection, bool) {
	for _, s := range m.active(ctx) {
		if s.Section == key {
			return s, true
		}
	}
	return domain.ContextSection{}, false
}

// ContextForIntent returns the active section for an intent key.
func (m *ContextManager) ContextForIntent(ctx context.Context, intent string) (domain.ContextSection, bool) {
	return m.lookup(ctx, intent)
}

// GetContextContent returns a section's content, or false when the section
// is absent or inactive.
func (m *ContextManager) GetContextContent(ctx context.Context, key string) (string, bool) {
	s, ok := m.lookup(ctx, key)
	if !ok {
		return "", false
	}
	return s.Content, true
}

// Title returns a section's display heading.
func (m *ContextManager) Title(ctx context.Context, key string) (string, bool) {
	s, ok := m.lookup(ctx, key)
	if !ok {
		return "", false
	}
	return s.Title, true
}

// Metadata describes an active section without its content.
func (m *ContextManager) Metadata(ctx context.Context, key string) (domain.ContextMetadata, bool) {
	s, ok := m.lookup(ctx, key)
	if !ok {
		return domain.ContextMetadata{}, false
	}
	return domain.ContextMetadata{
		Section:      s.Section,
		Title:        s.Title,
		Keywords:     s.KeywordList(),
		DisplayOrder: s.DisplayOrder,
		ContentSize:  len(s.Content),
		UpdatedAt:    s.UpdatedAt,
	}, true
}

// List returns active sections in display order.
func (m *ContextManager) List(ctx context.Context) []domain.ContextSection {
	sections := m.active(ctx)
	out := make([]domain.ContextSection, len(sections))
	copy(out, sections)
	return out
}

// FindRelevant ranks active sections by keyword overlap with a message.
// Sections scoring zero are excluded; equal scores keep display order.
func (m *ContextManager) FindRelevant(ctx context.Context, message string, maxResults int) []domain.ContextMatch {
	if maxResults <= 0 {
		maxResults = m.settings.MaxResults
	}
	msg := strings.ToLower(message)

	var matches []domain.ContextMatch
	for _, s := range m.active(ctx) {
		if score := sectionRelevance(msg, s.KeywordList()); score > 0 {
			matches = append(matches, domain.ContextMatch{Section: s, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}

// sectionRelevance scores a lowercased message against a keyword list.
// A keyword found whole earns 1, otherwise any of its words found earns
// 0.5. The sum is divided by the number of keywords, giving 0..1.
func sectionRelevance(msg string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	var total float64
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(msg, kw) {
			total++
			continue
		}
		for _, word := range strings.Fields(kw) {
			if strings.Contains(msg, word) {
				total += 0.5
				break
			}
		}
	}
	return total / float64(len(keywords))
}

// Refresh reloads sections from the store, bypassing both caches.
func (m *ContextManager) Refresh(ctx context.Context) error {
	if m.cache != nil {
		if err := m.cache.Delete(ctx, m.cacheKey()); err != nil {
			logger.Warn("context cache invalidation failed: %v", err)
		}
	}
	_, err := m.load(ctx)
	return err
}

// Save creates or updates a section and refreshes the cache.
func (m *ContextManager) Save(ctx context.Context, section domain.ContextSection) error {
	section.Section = strings.TrimSpace(section.Section)
	if section.Section == "" {
		return fmt.Errorf("%w: section key is required", domain.ErrInvalidInput)
	}

	now := m.now()
	section.UpdatedAt = now
	existing, err := m.store.Get(ctx, section.Section)
	switch {
	case err == nil:
		section.CreatedAt = existing.CreatedAt
	case errors.Is(err, domain.ErrNotFound):
		section.CreatedAt = now
	default:
		return fmt.Errorf("get section %s: %w", section.Section, err)
	}

	if err := m.store.Save(ctx, &section); err != nil {
		return fmt.Errorf("save section %s: %w", section.Section, err)
	}
	logger.Info("Saved context section %s", section.Section)
	return m.Refresh(ctx)
}

// Delete removes a section and refreshes the cache.
func (m *ContextManager) Delete(ctx context.Context, key string) error {
	if err := m.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete section %s: %w", key, err)
	}
	logger.Info("Deleted context section %s", key)
	return m.Refresh(ctx)
}

// Seed writes the default sections. Existing sections are kept unless force
// is set. A non-empty only restricts seeding to those keys.
func (m *ContextManager) Seed(ctx context.Context, force bool, only []string) (domain.SeedResult, error) {
	var result domain.SeedResult

	defaults, err := seeds.ContextSections()
	if err != nil {
		return result, err
	}

	wanted := make(map[string]bool, len(only))
	for _, key := range only {
		if key = strings.TrimSpace(key); key != "" {
			wanted[key] = true
		}
	}

	now := m.now()
	for _, section := range defaults {
		if len(wanted) > 0 && !wanted[section.Section] {
			continue
		}

		existing, err := m.store.Get(ctx, section.Section)
		switch {
		case err == nil && !force:
			result.Skipped++
			logger.Debug("Context section %s exists, skipping", section.Section)
			continue
		case err == nil:
			section.CreatedAt = existing.CreatedAt
			result.Updated++
		case errors.Is(err, domain.ErrNotFound):
			section.CreatedAt = now
			result.Created++
		default:
			return result, fmt.Errorf("get section %s: %w", section.Section, err)
		}

		section.UpdatedAt = now
		if err := m.store.Save(ctx, &section); err != nil {
			return result, fmt.Errorf("save section %s: %w", section.Section, err)
		}
	}

	logger.Info("Seeded context sections. Created: %d, Updated: %d, Skipped: %d",
		result.Created, result.Updated, result.Skipped)
	return result, m.Refresh(ctx)
}
