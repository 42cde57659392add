package extractors

import (
	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
	"github.com/custodia-labs/relevance/internal/normalisers"
)

var _ driven.ContentExtractor = (*Blog)(nil)

// Blog extracts published blog posts.
type Blog struct {
	base
	summaryLength int
}

// NewBlog creates a blog extractor. summaryLength bounds the generated
// summary when a post has no excerpt.
func NewBlog(priority, summaryLength int) *Blog {
	return &Blog{
		base:          base{contentType: domain.ContentTypeBlog, priority: priority},
		summaryLength: summaryLength,
	}
}

// IsActive reports whether the post is published.
func (b *Blog) IsActive(rec domain.SourceRecord) bool {
	return rec.HasStatus(domain.StatusPublished)
}

// Title returns the post title.
func (b *Blog) Title(rec domain.SourceRecord) string {
	return rec.Title
}

// Body returns the title, post content and excerpt.
func (b *Blog) Body(rec domain.SourceRecord) string {
	return lines(rec.Title, normalisers.PlainText(rec.Body), rec.Excerpt)
}

// Summary returns the excerpt, or a prefix of the post content.
func (b *Blog) Summary(rec domain.SourceRecord) string {
	if rec.Excerpt != "" {
		return rec.Excerpt
	}
	return domain.Truncate(normalisers.PlainText(rec.Body), b.summaryLength) + "..."
}

// Keywords returns the post's tags.
func (b *Blog) Keywords(rec domain.SourceRecord) []string {
	return keywordList(rec.Tags...)
}

// Locate places the post under /blog.
func (b *Blog) Locate(rec domain.SourceRecord) domain.ContentLocation {
	return domain.ContentLocation{
		Slug:     rec.Slug,
		URL:      "/blog/" + rec.Slug,
		Category: "blog",
		Tags:     []string{"blog", "article", "news"},
	}
}
