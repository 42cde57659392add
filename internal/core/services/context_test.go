package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cachemem "github.com/custodia-labs/relevance/internal/adapters/driven/cache/memory"
	"github.com/custodia-labs/relevance/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/relevance/internal/core/domain"
)

// newTestContextManager returns a manager seeded with the default sections.
func newTestContextManager(t *testing.T) *ContextManager {
	t.Helper()
	m := NewContextManager(memory.NewContextStore(), nil, domain.DefaultSettings().Context)
	_, err := m.Seed(context.Background(), false, nil)
	require.NoError(t, err)
	return m
}

func TestContextManager_Seed(t *testing.T) {
	ctx := context.Background()
	m := NewContextManager(memory.NewContextStore(), nil, domain.DefaultSettings().Context)

	result, err := m.Seed(ctx, false, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SeedResult{Created: 9}, result)

	result, err = m.Seed(ctx, false, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SeedResult{Skipped: 9}, result)

	result, err = m.Seed(ctx, true, []string{domain.SectionPricing, " "})
	require.NoError(t, err)
	assert.Equal(t, domain.SeedResult{Updated: 1}, result)

	list := m.List(ctx)
	require.Len(t, list, 9)
	assert.Equal(t, domain.SectionIntro, list[0].Section)
	assert.Equal(t, domain.SectionEmergency, list[8].Section)
}

func TestContextManager_Lookups(t *testing.T) {
	m := newTestContextManager(t)
	ctx := context.Background()

	content, ok := m.GetContextContent(ctx, domain.SectionPricing)
	require.True(t, ok)
	assert.NotEmpty(t, content)

	title, ok := m.Title(ctx, domain.SectionPricing)
	require.True(t, ok)
	assert.NotEmpty(t, title)

	section, ok := m.ContextForIntent(ctx, domain.SectionContact)
	require.True(t, ok)
	assert.Equal(t, domain.SectionContact, section.Section)

	meta, ok := m.Metadata(ctx, domain.SectionContact)
	require.True(t, ok)
	assert.Equal(t, len(section.Content), meta.ContentSize)
	assert.Equal(t, section.KeywordList(), meta.Keywords)

	_, ok = m.GetContextContent(ctx, "nonexistent")
	assert.False(t, ok)
	_, ok = m.Metadata(ctx, "nonexistent")
	assert.False(t, ok)
}

func TestContextManager_InactiveSectionsHidden(t *testing.T) {
	ctx := context.Background()
	m := NewContextManager(memory.NewContextStore(), nil, domain.DefaultSettings().Context)

	require.NoError(t, m.Save(ctx, domain.ContextSection{Section: "hidden", Content: "x", Keywords: "x"}))
	require.NoError(t, m.Save(ctx, domain.ContextSection{Section: "shown", Content: "y", Keywords: "y", IsActive: true}))

	_, ok := m.GetContextContent(ctx, "hidden")
	assert.False(t, ok)
	content, ok := m.GetContextContent(ctx, "shown")
	assert.True(t, ok)
	assert.Equal(t, "y", content)
	assert.Len(t, m.List(ctx), 1)
}

func TestContextManager_FindRelevant(t *testing.T) {
	ctx := context.Background()
	m := NewContextManager(memory.NewContextStore(), nil, domain.DefaultSettings().Context)

	sections := []domain.ContextSection{
		{Section: "pricing", Keywords: "price,cost,daily rate", IsActive: true, DisplayOrder: 0},
		{Section: "contact", Keywords: "phone,email", IsActive: true, DisplayOrder: 1},
		{Section: "fleet", Keywords: "fleet,mercedes", IsActive: true, DisplayOrder: 2},
		{Section: "empty", Keywords: "", IsActive: true, DisplayOrder: 3},
	}
	for _, s := range sections {
		require.NoError(t, m.Save(ctx, s))
	}

	matches := m.FindRelevant(ctx, "What is the PRICE and the daily cost?", 0)
	require.Len(t, matches, 1)
	assert.Equal(t, "pricing", matches[0].Section.Section)
	// price 1, cost 1, "daily rate" half via "daily"
	assert.InDelta(t, 2.5/3, matches[0].Score, 1e-9)

	matches = m.FindRelevant(ctx, "phone me about the mercedes fleet", 0)
	require.Len(t, matches, 2)
	assert.Equal(t, "fleet", matches[0].Section.Section)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
	assert.Equal(t, "contact", matches[1].Section.Section)
	assert.InDelta(t, 0.5, matches[1].Score, 1e-9)

	matches = m.FindRelevant(ctx, "phone me about the mercedes fleet", 1)
	require.Len(t, matches, 1)

	assert.Empty(t, m.FindRelevant(ctx, "nothing relevant here", 3))
}

func TestSectionRelevance(t *testing.T) {
	assert.Equal(t, 0.0, sectionRelevance("anything", nil))
	assert.Equal(t, 1.0, sectionRelevance("car hire please", []string{"car hire"}))
	assert.Equal(t, 0.5, sectionRelevance("hire", []string{"car hire"}))
	assert.Equal(t, 0.0, sectionRelevance("taxi", []string{"car hire"}))
}

func TestContextManager_CachesUntilRefresh(t *testing.T) {
	ctx := context.Background()
	store := memory.NewContextStore()
	m := NewContextManager(store, nil, domain.DefaultSettings().Context)
	require.NoError(t, m.Save(ctx, domain.ContextSection{Section: "intro", Content: "v1", IsActive: true}))

	require.NoError(t, store.Save(ctx, &domain.ContextSection{Section: "intro", Content: "v2", IsActive: true}))
	content, _ := m.GetContextContent(ctx, "intro")
	assert.Equal(t, "v1", content)

	require.NoError(t, m.Refresh(ctx))
	content, _ = m.GetContextContent(ctx, "intro")
	assert.Equal(t, "v2", content)
}

func TestContextManager_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	store := memory.NewContextStore()
	m := NewContextManager(store, nil, domain.DefaultSettings().Context)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Save(ctx, domain.ContextSection{Section: "intro", Content: "v1", IsActive: true}))
	require.NoError(t, store.Save(ctx, &domain.ContextSection{Section: "intro", Content: "v2", IsActive: true}))

	now = now.Add(59 * time.Minute)
	content, _ := m.GetContextContent(ctx, "intro")
	assert.Equal(t, "v1", content)

	now = now.Add(2 * time.Minute)
	content, _ = m.GetContextContent(ctx, "intro")
	assert.Equal(t, "v2", content)
}

func TestContextManager_SharedCache(t *testing.T) {
	ctx := context.Background()
	store := memory.NewContextStore()
	shared := cachemem.New(0)
	settings := domain.DefaultSettings().Context

	writer := NewContextManager(store, shared, settings)
	reader := NewContextManager(memory.NewContextStore(), shared, settings)

	require.NoError(t, writer.Save(ctx, domain.ContextSection{Section: "intro", Content: "hello", IsActive: true}))

	// The reader's own store is empty; it is served from the shared entry.
	content, ok := reader.GetContextContent(ctx, "intro")
	require.True(t, ok)
	assert.Equal(t, "hello", content)
}

func TestContextManager_SaveAndDelete(t *testing.T) {
	ctx := context.Background()
	m := newTestContextManager(t)

	err := m.Save(ctx, domain.ContextSection{Section: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, m.Save(ctx, domain.ContextSection{
		Section: domain.SectionIntro, Title: "Welcome", Content: "New intro", IsActive: true,
	}))
	content, _ := m.GetContextContent(ctx, domain.SectionIntro)
	assert.Equal(t, "New intro", content)

	require.NoError(t, m.Delete(ctx, domain.SectionIntro))
	_, ok := m.GetContextContent(ctx, domain.SectionIntro)
	assert.False(t, ok)
	assert.Len(t, m.List(ctx), 8)
}
