package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cachemem "github.com/custodia-labs/relevance/internal/adapters/driven/cache/memory"
	"github.com/custodia-labs/relevance/internal/core/domain"
)

func TestSearchCache_Key(t *testing.T) {
	c := NewSearchCache(nil, "chatbot_content_search", nil)

	a := c.Key("Car  Hire", domain.SearchOptions{
		Limit:        5,
		ContentTypes: []domain.ContentType{domain.ContentTypeFAQ, domain.ContentTypeBlog},
	})
	b := c.Key(" car hire ", domain.SearchOptions{
		Limit:        5,
		ContentTypes: []domain.ContentType{domain.ContentTypeBlog, domain.ContentTypeFAQ, domain.ContentTypeBlog},
	})
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "chatbot_content_search:"))

	assert.NotEqual(t, a, c.Key("car hire", domain.SearchOptions{Limit: 6,
		ContentTypes: []domain.ContentType{domain.ContentTypeFAQ, domain.ContentTypeBlog}}))
	assert.NotEqual(t, a, c.Key("car hire", domain.SearchOptions{Limit: 5}))
	assert.NotEqual(t, a, c.Key("van hire", domain.SearchOptions{Limit: 5,
		ContentTypes: []domain.ContentType{domain.ContentTypeFAQ, domain.ContentTypeBlog}}))

	// A zero limit means the default.
	assert.Equal(t, c.Key("q", domain.SearchOptions{}), c.Key("q", domain.SearchOptions{Limit: domain.DefaultSearchLimit}))
}

func TestSearchCache_GetOrCompute(t *testing.T) {
	ctx := context.Background()
	c := NewSearchCache(cachemem.New(0), "test", nil)
	key := c.Key("hire", domain.SearchOptions{})

	calls := 0
	compute := func(context.Context) ([]domain.SearchResult, error) {
		calls++
		return []domain.SearchResult{{Content: domain.IndexedContent{Title: "Hire"}, Score: 1.5}}, nil
	}

	first, err := c.GetOrCompute(ctx, key, time.Minute, compute)
	require.NoError(t, err)
	second, err := c.GetOrCompute(ctx, key, time.Minute, compute)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestSearchCache_EmptyResultsAreCached(t *testing.T) {
	ctx := context.Background()
	c := NewSearchCache(cachemem.New(0), "test", nil)

	calls := 0
	compute := func(context.Context) ([]domain.SearchResult, error) {
		calls++
		return []domain.SearchResult{}, nil
	}
	for i := 0; i < 2; i++ {
		results, err := c.GetOrCompute(ctx, "test:empty", time.Minute, compute)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
	assert.Equal(t, 1, calls)
}

func TestSearchCache_ErrorsNotCached(t *testing.T) {
	ctx := context.Background()
	c := NewSearchCache(cachemem.New(0), "test", nil)

	calls := 0
	compute := func(context.Context) ([]domain.SearchResult, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("backend down")
		}
		return []domain.SearchResult{}, nil
	}

	_, err := c.GetOrCompute(ctx, "test:k", time.Minute, compute)
	require.Error(t, err)
	_, err = c.GetOrCompute(ctx, "test:k", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestSearchCache_InvalidateAllIsScoped(t *testing.T) {
	ctx := context.Background()
	backing := cachemem.New(0)
	c := NewSearchCache(backing, "test", nil)

	require.NoError(t, backing.Set(ctx, "other:key", []byte("keep"), time.Minute))
	_, err := c.GetOrCompute(ctx, "test:k", time.Minute, func(context.Context) ([]domain.SearchResult, error) {
		return []domain.SearchResult{}, nil
	})
	require.NoError(t, err)

	c.InvalidateAll(ctx)

	_, err = backing.Get(ctx, "test:k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	value, err := backing.Get(ctx, "other:key")
	require.NoError(t, err)
	assert.Equal(t, "keep", string(value))
}

func TestSearchCache_UnreadableEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	backing := cachemem.New(0)
	telemetry := newRecordingTelemetry()
	c := NewSearchCache(backing, "test", telemetry)
	require.NoError(t, backing.Set(ctx, "test:k", []byte("{not json"), time.Minute))

	results, err := c.GetOrCompute(ctx, "test:k", time.Minute, func(context.Context) ([]domain.SearchResult, error) {
		return []domain.SearchResult{{Score: 2}}, nil
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, telemetry.misses)
	assert.Equal(t, 0, telemetry.hits)
}

func TestSearchCache_Disabled(t *testing.T) {
	c := NewSearchCache(nil, "", nil)
	assert.True(t, strings.HasPrefix(c.Key("q", domain.SearchOptions{}), domain.DefaultSettings().Search.CachePrefix+":"))

	calls := 0
	for i := 0; i < 2; i++ {
		_, err := c.GetOrCompute(context.Background(), "k", time.Minute, func(context.Context) ([]domain.SearchResult, error) {
			calls++
			return nil, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
	c.InvalidateAll(context.Background())
}
