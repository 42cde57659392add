package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
	"github.com/custodia-labs/relevance/internal/logger"
)

// SearchCache memoises ranked result sets under a key namespace.
// Cache failures are logged and treated as misses; they never fail a search.
type SearchCache struct {
	cache     driven.Cache
	namespace string
	telemetry driven.Telemetry
}

// NewSearchCache creates a search cache. A nil cache disables memoisation.
func NewSearchCache(cache driven.Cache, namespace string, telemetry driven.Telemetry) *SearchCache {
	if namespace == "" {
		namespace = domain.DefaultSettings().Search.CachePrefix
	}
	return &SearchCache{cache: cache, namespace: namespace, telemetry: telemetry}
}

// Key returns the deterministic cache key for a query and its options.
// The query is normalised and content types sorted, so logically identical
// searches share a key.
func (c *SearchCache) Key(query string, opts domain.SearchOptions) string {
	opts = opts.Normalised()

	types := make([]string, len(opts.ContentTypes))
	for i, t := range opts.ContentTypes {
		types[i] = string(t)
	}

	h := sha256.New()
	h.Write([]byte(domain.NormaliseQuery(query)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(opts.Limit)))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(types, ",")))
	return c.prefix() + hex.EncodeToString(h.Sum(nil))
}

func (c *SearchCache) prefix() string {
	return c.namespace + ":"
}

// GetOrCompute returns the cached results for key, or runs compute and
// stores its results for ttl. Compute errors are returned and not cached.
// Concurrent misses for the same key may each compute; the last write wins.
func (c *SearchCache) GetOrCompute(
	ctx context.Context,
	key string,
	ttl time.Duration,
	compute func(ctx context.Context) ([]domain.SearchResult, error),
) ([]domain.SearchResult, error) {
	if results, ok := c.get(ctx, key); ok {
		return results, nil
	}

	results, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, results, ttl)
	return results, nil
}

func (c *SearchCache) get(ctx context.Context, key string) ([]domain.SearchResult, bool) {
	if c.cache == nil {
		return nil, false
	}

	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Warn("search cache read failed: %v", err)
		}
		c.observe(false)
		return nil, false
	}

	var results []domain.SearchResult
	if err := json.Unmarshal(data, &results); err != nil {
		logger.Warn("search cache entry %s unreadable: %v", key, err)
		c.observe(false)
		return nil, false
	}
	c.observe(true)
	if results == nil {
		results = []domain.SearchResult{}
	}
	return results, true
}

func (c *SearchCache) set(ctx context.Context, key string, results []domain.SearchResult, ttl time.Duration) {
	if c.cache == nil || ttl <= 0 {
		return
	}
	data, err := json.Marshal(results)
	if err != nil {
		logger.Warn("search cache encode failed: %v", err)
		return
	}
	if err := c.cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("search cache write failed: %v", err)
	}
}

// InvalidateAll removes every entry in the namespace.
func (c *SearchCache) InvalidateAll(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.DeleteByPrefix(ctx, c.prefix()); err != nil {
		logger.Warn("search cache invalidation failed: %v", err)
		return
	}
	logger.Debug("search cache invalidated")
}

func (c *SearchCache) observe(hit bool) {
	if c.telemetry != nil {
		c.telemetry.CacheLookup(hit)
	}
}
