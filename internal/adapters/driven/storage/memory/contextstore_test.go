package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

func TestContextStore_SaveAndGet(t *testing.T) {
	store := NewContextStore()
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	err := store.Save(ctx, &domain.ContextSection{
		Section:   domain.SectionPricing,
		Title:     "Pricing",
		Content:   "Competitive rates",
		IsActive:  true,
		CreatedAt: created,
	})
	require.NoError(t, err)

	err = store.Save(ctx, &domain.ContextSection{
		Section:   domain.SectionPricing,
		Title:     "Pricing",
		Content:   "Updated rates",
		IsActive:  true,
		CreatedAt: created.Add(time.Hour),
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, domain.SectionPricing)
	require.NoError(t, err)
	assert.Equal(t, "Updated rates", got.Content)
	assert.Equal(t, created, got.CreatedAt)
}

func TestContextStore_Save_RequiresKey(t *testing.T) {
	store := NewContextStore()
	err := store.Save(context.Background(), &domain.ContextSection{Title: "No key"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestContextStore_Get_NotFound(t *testing.T) {
	store := NewContextStore()
	_, err := store.Get(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContextStore_ListOrder(t *testing.T) {
	store := NewContextStore()
	ctx := context.Background()
	for _, s := range []domain.ContextSection{
		{Section: "contact", DisplayOrder: 7},
		{Section: "intro", DisplayOrder: 1},
		{Section: "beta", DisplayOrder: 3},
		{Section: "alpha", DisplayOrder: 3},
	} {
		s := s
		require.NoError(t, store.Save(ctx, &s))
	}

	list, err := store.List(ctx)
	require.NoError(t, err)
	keys := make([]string, len(list))
	for i, s := range list {
		keys[i] = s.Section
	}
	assert.Equal(t, []string{"intro", "alpha", "beta", "contact"}, keys)

	require.NoError(t, store.Delete(ctx, "beta"))
	list, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
