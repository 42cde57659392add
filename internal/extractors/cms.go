package extractors

import (
	"fmt"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

var _ driven.ContentExtractor = (*CMS)(nil)

// CMS extracts the landing page configuration as the site homepage.
//
// Attributes: contact_phone, contact_email, contact_address, contact_hours,
// google_map_embed_url.
type CMS struct {
	base
}

// NewCMS creates a landing page extractor.
func NewCMS(priority int) *CMS {
	return &CMS{base: base{contentType: domain.ContentTypeCMS, priority: priority}}
}

// IsActive is always true: every landing page configuration is indexed.
func (c *CMS) IsActive(domain.SourceRecord) bool {
	return true
}

// Title is fixed.
func (c *CMS) Title(domain.SourceRecord) string {
	return "Homepage"
}

// Body returns the contact details.
func (c *CMS) Body(rec domain.SourceRecord) string {
	const unset = "Not specified"
	contact := fmt.Sprintf("Contact Information:\nPhone: %s\nEmail: %s\nAddress: %s\nBusiness Hours: %s",
		rec.AttrOr("contact_phone", unset), rec.AttrOr("contact_email", unset),
		rec.AttrOr("contact_address", unset), rec.AttrOr("contact_hours", unset))
	if rec.Attr("google_map_embed_url") != "" {
		contact += "\nLocation: Google Maps available"
	}
	return lines("Landing Page Configuration", contact)
}

// Summary is fixed.
func (c *CMS) Summary(domain.SourceRecord) string {
	return "Welcome to AAA Accident Solutions LTD - Contact information and company details"
}

// Keywords is fixed.
func (c *CMS) Keywords(domain.SourceRecord) []string {
	return []string{"homepage", "landing", "main", "contact", "address", "phone", "email"}
}

// Locate points at the site root.
func (c *CMS) Locate(domain.SourceRecord) domain.ContentLocation {
	return domain.ContentLocation{
		Slug:     "homepage",
		URL:      "/",
		Category: "cms",
		Tags:     []string{"homepage", "landing", "main", "contact"},
	}
}
