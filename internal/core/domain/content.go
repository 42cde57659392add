package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ContentType is the fixed category tag distinguishing content sources.
type ContentType string

// Known content types.
const (
	ContentTypePage          ContentType = "page"
	ContentTypeBlog          ContentType = "blog"
	ContentTypeService       ContentType = "service"
	ContentTypeVehicle       ContentType = "vehicle"
	ContentTypeTestimonial   ContentType = "testimonial"
	ContentTypeFAQ           ContentType = "faq"
	ContentTypeGallery       ContentType = "gallery"
	ContentTypeCMS           ContentType = "cms"
	ContentTypeContact       ContentType = "contact"
	ContentTypePricing       ContentType = "pricing"
	ContentTypeCarSale       ContentType = "car_sale"
	ContentTypeCarSalesForms ContentType = "car_sales_forms"
)

// AllContentTypes returns every known content type in indexing order.
func AllContentTypes() []ContentType {
	return []ContentType{
		ContentTypeBlog,
		ContentTypeVehicle,
		ContentTypeService,
		ContentTypeCarSale,
		ContentTypeCarSalesForms,
		ContentTypeTestimonial,
		ContentTypeFAQ,
		ContentTypeGallery,
		ContentTypeCMS,
		ContentTypePricing,
		ContentTypePage,
		ContentTypeContact,
	}
}

// IsValid returns true if the content type is recognised.
func (t ContentType) IsValid() bool {
	for _, known := range AllContentTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (t ContentType) String() string {
	return string(t)
}

// ParseContentTypes converts raw names into content types.
// Blank entries are skipped; unknown names return ErrUnknownContentType.
func ParseContentTypes(names []string) ([]ContentType, error) {
	types := make([]ContentType, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		ct := ContentType(name)
		if !ct.IsValid() {
			return nil, ErrUnknownContentType
		}
		types = append(types, ct)
	}
	return types, nil
}

// ContentKey is the identity of an indexed record.
type ContentKey struct {
	ContentType ContentType
	SourceID    string
}

// String renders the key as "type:id" for logs.
func (k ContentKey) String() string {
	return string(k.ContentType) + ":" + k.SourceID
}

// IndexedContent is a normalised, searchable record derived from a source.
// At most one record exists per (ContentType, SourceID).
type IndexedContent struct {
	// ContentType identifies the source collaborator.
	ContentType ContentType

	// SourceID is the source object's identifier within its type.
	SourceID string

	// Title is the primary display name, weighted heaviest in ranking.
	Title string

	// Slug is the URL-friendly identifier.
	Slug string

	// URL is the site path of the original content.
	URL string

	// ContentText is the full body used for matching.
	ContentText string

	// Summary is optional short text. Falls back to a prefix of ContentText.
	Summary string

	// Keywords is a comma-separated tag list.
	Keywords string

	// Category groups related content for display.
	Category string

	// Tags is a comma-separated list of labels.
	Tags string

	// Priority is the importance weight, 1-10.
	Priority int

	// ContentUpdatedAt is when the source content last changed.
	ContentUpdatedAt time.Time

	// IsActive and IsSearchable gate visibility in search.
	IsActive     bool
	IsSearchable bool

	// CreatedAt is when the record was first indexed.
	CreatedAt time.Time

	// UpdatedAt is when the record was last written by the indexer.
	UpdatedAt time.Time
}

// Key returns the record identity.
func (c IndexedContent) Key() ContentKey {
	return ContentKey{ContentType: c.ContentType, SourceID: c.SourceID}
}

// Visible reports whether the record may appear in search results.
func (c IndexedContent) Visible() bool {
	return c.IsActive && c.IsSearchable
}

// KeywordList splits Keywords into trimmed, non-empty entries.
func (c IndexedContent) KeywordList() []string {
	return SplitList(c.Keywords)
}

// TagList splits Tags into trimmed, non-empty entries.
func (c IndexedContent) TagList() []string {
	return SplitList(c.Tags)
}

// DisplaySummary returns Summary, or the first n characters of ContentText
// followed by an ellipsis when Summary is empty.
func (c IndexedContent) DisplaySummary(n int) string {
	if strings.TrimSpace(c.Summary) != "" {
		return c.Summary
	}
	return Truncate(c.ContentText, n) + "..."
}

// Priority bounds.
const (
	MinPriority = 1
	MaxPriority = 10
)

// ClampPriority bounds p to [MinPriority, MaxPriority].
func ClampPriority(p int) int {
	if p < MinPriority {
		return MinPriority
	}
	if p > MaxPriority {
		return MaxPriority
	}
	return p
}

// SplitList splits a comma-separated list into trimmed, non-empty entries.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList joins entries into a comma-separated list, skipping blanks.
func JoinList(items ...string) string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return strings.Join(out, ",")
}

// Truncate returns at most n characters of s without splitting a rune.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// ContentLocation is where a record lives on the site and how it is labelled.
type ContentLocation struct {
	Slug     string
	URL      string
	Category string
	Tags     []string
}

// ListingLess orders records by priority descending, then title, then source ID.
// It is the canonical enumeration order for searchable content.
func ListingLess(a, b IndexedContent) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	return a.SourceID < b.SourceID
}
