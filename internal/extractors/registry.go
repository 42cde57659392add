package extractors

import (
	"sync"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry holds one extractor per content type.
type Registry struct {
	mu         sync.RWMutex
	extractors map[domain.ContentType]driven.ContentExtractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[domain.ContentType]driven.ContentExtractor)}
}

// NewDefaultRegistry registers the built-in extractor for every content
// type the site publishes. Pages and contact submissions have none.
func NewDefaultRegistry(settings domain.IndexerSettings) *Registry {
	r := NewRegistry()
	r.Register(NewBlog(settings.PriorityFor(domain.ContentTypeBlog), settings.SummaryLength))
	r.Register(NewVehicle(settings.PriorityFor(domain.ContentTypeVehicle)))
	r.Register(NewStatic(domain.ContentTypeService, settings.PriorityFor(domain.ContentTypeService)))
	r.Register(NewCarSale(settings.PriorityFor(domain.ContentTypeCarSale)))
	r.Register(NewStatic(domain.ContentTypeCarSalesForms, settings.PriorityFor(domain.ContentTypeCarSalesForms)))
	r.Register(NewTestimonial(settings.PriorityFor(domain.ContentTypeTestimonial)))
	r.Register(NewFAQ(settings.PriorityFor(domain.ContentTypeFAQ)))
	r.Register(NewGallery(settings.PriorityFor(domain.ContentTypeGallery)))
	r.Register(NewCMS(settings.PriorityFor(domain.ContentTypeCMS)))
	r.Register(NewStatic(domain.ContentTypePricing, settings.PriorityFor(domain.ContentTypePricing)))
	return r
}

// Register adds an extractor, replacing any for the same type.
func (r *Registry) Register(extractor driven.ContentExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[extractor.ContentType()] = extractor
}

// Get returns the extractor for a type.
func (r *Registry) Get(contentType domain.ContentType) (driven.ContentExtractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ext, ok := r.extractors[contentType]
	if !ok {
		return nil, domain.ErrUnknownContentType
	}
	return ext, nil
}

// Types returns registered types in indexing order.
func (r *Registry) Types() []domain.ContentType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]domain.ContentType, 0, len(r.extractors))
	for _, t := range domain.AllContentTypes() {
		if _, ok := r.extractors[t]; ok {
			types = append(types, t)
		}
	}
	return types
}
