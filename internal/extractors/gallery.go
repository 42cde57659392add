package extractors

import (
	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

var _ driven.ContentExtractor = (*Gallery)(nil)

// Gallery extracts active gallery images. Body is the image description.
type Gallery struct {
	base
}

// NewGallery creates a gallery extractor.
func NewGallery(priority int) *Gallery {
	return &Gallery{base: base{contentType: domain.ContentTypeGallery, priority: priority}}
}

// IsActive reports the image's active flag.
func (g *Gallery) IsActive(rec domain.SourceRecord) bool {
	return rec.Active
}

// Title returns the image title.
func (g *Gallery) Title(rec domain.SourceRecord) string {
	return rec.Title
}

// Body describes the image.
func (g *Gallery) Body(rec domain.SourceRecord) string {
	details := "Image Details:\nTitle: " + rec.Title +
		"\nCategory: " + rec.Category +
		"\nDescription: " + rec.Body
	if uploaded := monthYear(rec); uploaded != "" {
		details += "\nUploaded: " + uploaded
	}
	return lines("Gallery Image: "+rec.Title, details)
}

// Summary returns the description, or a generic caption.
func (g *Gallery) Summary(rec domain.SourceRecord) string {
	return orDefault(rec.Body, "Gallery image: "+rec.Title)
}

// Keywords returns gallery vocabulary and the category.
func (g *Gallery) Keywords(rec domain.SourceRecord) []string {
	return keywordList("gallery", "image", "photo", rec.Category)
}

// Locate places the image under /gallery.
func (g *Gallery) Locate(rec domain.SourceRecord) domain.ContentLocation {
	return domain.ContentLocation{
		Slug:     "gallery-" + rec.ID,
		URL:      "/gallery/" + rec.ID,
		Category: rec.Category,
		Tags:     keywordList("gallery", "image", categoryKey(rec)),
	}
}
