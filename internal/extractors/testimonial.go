package extractors

import (
	"fmt"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

var _ driven.ContentExtractor = (*Testimonial)(nil)

// Testimonial extracts approved customer testimonials.
// The record body is the feedback; attributes: name, rating, service_type.
type Testimonial struct {
	base
}

// NewTestimonial creates a testimonial extractor.
func NewTestimonial(priority int) *Testimonial {
	return &Testimonial{base: base{contentType: domain.ContentTypeTestimonial, priority: priority}}
}

// IsActive reports whether the testimonial is approved.
func (t *Testimonial) IsActive(rec domain.SourceRecord) bool {
	return rec.HasStatus(domain.StatusApproved)
}

func (t *Testimonial) customer(rec domain.SourceRecord) string {
	return rec.AttrOr("name", rec.Title)
}

// Title names the customer.
func (t *Testimonial) Title(rec domain.SourceRecord) string {
	return "Testimonial from " + t.customer(rec)
}

// Body returns the rating, service and quoted feedback.
func (t *Testimonial) Body(rec domain.SourceRecord) string {
	name := t.customer(rec)
	rating := rec.Attr("rating")
	return lines(
		"Customer Testimonial from "+name,
		fmt.Sprintf("Rating: %s/5 stars\nService: %s", rating, rec.AttrOr("service_type", "General")),
		`"`+rec.Body+`"`,
		fmt.Sprintf("Customer: %s\nService Used: %s\nRating: %s out of 5 stars",
			name, rec.AttrOr("service_type", "Various Services"), rating),
	)
}

// Summary quotes the start of the feedback.
func (t *Testimonial) Summary(rec domain.SourceRecord) string {
	return fmt.Sprintf(`"%s..." - %s`, domain.Truncate(rec.Body, 100), t.customer(rec))
}

// Keywords returns review vocabulary and the service used.
func (t *Testimonial) Keywords(rec domain.SourceRecord) []string {
	return keywordList("testimonial", "review", "feedback", rec.Attr("service_type"))
}

// Locate places the testimonial under /testimonials.
func (t *Testimonial) Locate(rec domain.SourceRecord) domain.ContentLocation {
	tags := []string{"testimonial", "review", "customer", "feedback"}
	if rating := rec.Attr("rating"); rating != "" {
		tags = append(tags, rating+"stars")
	}
	return domain.ContentLocation{
		Slug:     "testimonial-" + rec.ID,
		URL:      "/testimonials/" + rec.ID,
		Category: "testimonials",
		Tags:     tags,
	}
}
