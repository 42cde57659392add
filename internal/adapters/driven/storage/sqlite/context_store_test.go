package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

func TestContextStore_SaveGetUpdate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	sections := store.ContextStore()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, sections.Save(ctx, &domain.ContextSection{
		Section:      domain.SectionPricing,
		Title:        "Pricing",
		Content:      "Competitive daily rates",
		Keywords:     "price,cost",
		IsActive:     true,
		DisplayOrder: 6,
		CreatedAt:    created,
		UpdatedAt:    created,
	}))

	require.NoError(t, sections.Save(ctx, &domain.ContextSection{
		Section:      domain.SectionPricing,
		Title:        "Pricing",
		Content:      "Rates from £50 per day",
		Keywords:     "price,cost,rate",
		IsActive:     false,
		DisplayOrder: 6,
		CreatedAt:    created.Add(24 * time.Hour),
		UpdatedAt:    created.Add(24 * time.Hour),
	}))

	got, err := sections.Get(ctx, domain.SectionPricing)
	require.NoError(t, err)
	assert.Equal(t, "Rates from £50 per day", got.Content)
	assert.Equal(t, []string{"price", "cost", "rate"}, got.KeywordList())
	assert.False(t, got.IsActive)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.UpdatedAt.Equal(created.Add(24*time.Hour)))
}

func TestContextStore_NotFoundAndInvalid(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	_, err := store.ContextStore().Get(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = store.ContextStore().Save(ctx, &domain.ContextSection{Title: "No key"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestContextStore_ListAndDelete(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	sections := store.ContextStore()
	for _, s := range []domain.ContextSection{
		{Section: "contact", Title: "Contact", Content: "c", DisplayOrder: 7},
		{Section: "intro", Title: "Intro", Content: "i", DisplayOrder: 1},
		{Section: "services", Title: "Services", Content: "s", DisplayOrder: 3},
	} {
		s := s
		require.NoError(t, sections.Save(ctx, &s))
	}

	list, err := sections.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "intro", list[0].Section)
	assert.Equal(t, "contact", list[2].Section)

	require.NoError(t, sections.Delete(ctx, "services"))
	list, err = sections.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
