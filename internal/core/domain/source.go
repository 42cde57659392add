package domain

import (
	"strconv"
	"strings"
	"time"
)

// Common source statuses.
const (
	StatusPublished = "published"
	StatusAvailable = "available"
	StatusApproved  = "approved"
	StatusDraft     = "draft"
)

// SourceRecord is a raw record enumerated from a content source.
// Fields are a superset across content types; extractors read the ones
// their type defines and ignore the rest.
type SourceRecord struct {
	// ID identifies the record within its content type.
	ID string `toml:"id" json:"id"`

	// Title is the record's name, question, or heading.
	Title string `toml:"title" json:"title"`

	// Slug is the URL-friendly identifier, when the source has one.
	Slug string `toml:"slug" json:"slug,omitempty"`

	// Body is the main text (post content, FAQ answer, description).
	Body string `toml:"body" json:"body,omitempty"`

	// Excerpt is a short author-provided summary.
	Excerpt string `toml:"excerpt" json:"excerpt,omitempty"`

	// Tags are free-form labels.
	Tags []string `toml:"tags" json:"tags,omitempty"`

	// Status is the publication status (published, available, approved...).
	Status string `toml:"status" json:"status,omitempty"`

	// Active is the source's own active flag.
	Active bool `toml:"active" json:"active"`

	// Featured marks promoted content.
	Featured bool `toml:"featured" json:"featured,omitempty"`

	// Category is the source's category label.
	Category string `toml:"category" json:"category,omitempty"`

	// Attributes holds type-specific fields (manufacturer, daily_rate...).
	Attributes map[string]string `toml:"attributes" json:"attributes,omitempty"`

	// UpdatedAt is when the source record last changed.
	UpdatedAt time.Time `toml:"updated_at" json:"updated_at"`
}

// Attr returns a trimmed attribute value, or "" when absent.
func (r SourceRecord) Attr(name string) string {
	if r.Attributes == nil {
		return ""
	}
	return strings.TrimSpace(r.Attributes[name])
}

// AttrOr returns the attribute value, or fallback when absent.
func (r SourceRecord) AttrOr(name, fallback string) string {
	if v := r.Attr(name); v != "" {
		return v
	}
	return fallback
}

// AttrInt parses an integer attribute. Returns 0 when absent or malformed.
func (r SourceRecord) AttrInt(name string) int {
	n, err := strconv.Atoi(strings.ReplaceAll(r.Attr(name), ",", ""))
	if err != nil {
		return 0
	}
	return n
}

// HasStatus reports whether the record's status matches, case-insensitively.
func (r SourceRecord) HasStatus(status string) bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), status)
}
