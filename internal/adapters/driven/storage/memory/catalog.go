package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

// Ensure Catalog implements the interface.
var _ driven.ContentSource = (*Catalog)(nil)

// Catalog is an in-memory driven.ContentSource.
// Types can be marked unavailable to simulate a failing source.
type Catalog struct {
	mu          sync.RWMutex
	records     map[domain.ContentType]map[string]domain.SourceRecord
	unavailable map[domain.ContentType]bool
}

// NewCatalog creates an empty in-memory catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		records:     make(map[domain.ContentType]map[string]domain.SourceRecord),
		unavailable: make(map[domain.ContentType]bool),
	}
}

// Put stores or replaces records of a content type.
func (c *Catalog) Put(contentType domain.ContentType, records ...domain.SourceRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	byID, ok := c.records[contentType]
	if !ok {
		byID = make(map[string]domain.SourceRecord)
		c.records[contentType] = byID
	}
	for _, rec := range records {
		byID[rec.ID] = rec
	}
}

// Remove deletes a record.
func (c *Catalog) Remove(contentType domain.ContentType, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.records[contentType], id)
}

// SetUnavailable makes Records fail for a content type.
func (c *Catalog) SetUnavailable(contentType domain.ContentType, unavailable bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unavailable[contentType] = unavailable
}

// Records returns every record of the type, ordered by ID.
func (c *Catalog) Records(_ context.Context, contentType domain.ContentType) ([]domain.SourceRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.unavailable[contentType] {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceUnavailable, contentType)
	}
	result := make([]domain.SourceRecord, 0, len(c.records[contentType]))
	for _, rec := range c.records[contentType] {
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Record returns a single record.
func (c *Catalog) Record(_ context.Context, contentType domain.ContentType, id string) (*domain.SourceRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.unavailable[contentType] {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceUnavailable, contentType)
	}
	rec, ok := c.records[contentType][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}
