package domain

import "time"

// Well-known context section keys.
const (
	SectionIntro     = "intro"
	SectionCompany   = "company"
	SectionServices  = "services"
	SectionWorking   = "working"
	SectionFAQ       = "faqs"
	SectionPricing   = "pricing"
	SectionContact   = "contact"
	SectionPolicies  = "policies"
	SectionEmergency = "emergency"
)

// ContextSection is a curated, administrator-authored topic block.
type ContextSection struct {
	// Section is the unique key (e.g. "services", "pricing").
	Section string `json:"section"`

	// Title is the display heading.
	Title string `json:"title"`

	// Content is the prose returned to reply generation.
	Content string `json:"content"`

	// Keywords is a comma-separated list used for relevance matching.
	Keywords string `json:"keywords"`

	// IsActive hides the section when false.
	IsActive bool `json:"is_active"`

	// DisplayOrder sorts sections in listings.
	DisplayOrder int `json:"display_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KeywordList splits Keywords into trimmed, non-empty entries.
func (s ContextSection) KeywordList() []string {
	return SplitList(s.Keywords)
}

// ContextMatch is a section scored against a message.
type ContextMatch struct {
	Section ContextSection `json:"section"`
	Score   float64        `json:"score"`
}

// ContextMetadata describes a section without its full content.
type ContextMetadata struct {
	Section      string    `json:"section"`
	Title        string    `json:"title"`
	Keywords     []string  `json:"keywords"`
	DisplayOrder int       `json:"display_order"`
	ContentSize  int       `json:"content_size"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Orchestrator tiers, from most to least specific.
const (
	TierSearch   = "search"
	TierTopic    = "topic"
	TierBooking  = "booking"
	TierSales    = "sales"
	TierDefault  = "default"
	TierFallback = "fallback"
)

// ContextResult is an assembled context and the tier that produced it.
type ContextResult struct {
	Context string      `json:"context"`
	Tier    string      `json:"tier"`
	Section string      `json:"section,omitempty"`
	Contact ContactInfo `json:"contact"`
}

// SeedResult counts the outcome of seeding default sections.
type SeedResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}
