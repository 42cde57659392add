package extractors

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
	"github.com/custodia-labs/relevance/internal/normalisers"
	"github.com/custodia-labs/relevance/internal/seeds"
)

// staticNamespace scopes the name-based IDs of built-in pages so the same
// page always maps to the same indexed row.
var staticNamespace = uuid.MustParse("6f0b8a52-3c1e-5d8f-9a47-2b1d0e6c7f13")

var _ driven.StaticExtractor = (*StaticExtractor)(nil)

// StaticExtractor serves built-in pages of one content type.
type StaticExtractor struct {
	base
	now func() time.Time
}

// NewStatic creates an extractor for the embedded pages of contentType.
// Pages rank at priority plus their own offset.
func NewStatic(contentType domain.ContentType, priority int) *StaticExtractor {
	return &StaticExtractor{
		base: base{contentType: contentType, priority: priority},
		now:  time.Now,
	}
}

// StaticID returns the deterministic source ID of a built-in page.
func StaticID(contentType domain.ContentType, key string) string {
	return uuid.NewSHA1(staticNamespace, []byte(string(contentType)+"/"+key)).String()
}

// StaticRecords returns the embedded pages as source records, stamped with
// the current time.
func (s *StaticExtractor) StaticRecords(ctx context.Context) ([]domain.SourceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pages, err := seeds.StaticPagesFor(s.contentType)
	if err != nil {
		return nil, err
	}

	now := s.now()
	records := make([]domain.SourceRecord, 0, len(pages))
	for _, p := range pages {
		records = append(records, domain.SourceRecord{
			ID:       StaticID(p.Type, p.Key),
			Title:    p.Title,
			Slug:     p.Slug,
			Body:     strings.TrimSpace(p.Body),
			Excerpt:  p.Summary,
			Tags:     domain.SplitList(p.Tags),
			Status:   domain.StatusPublished,
			Active:   true,
			Category: p.Category,
			Attributes: map[string]string{
				"url":      p.URL,
				"keywords": p.Keywords,
				"priority_offset": strconv.Itoa(p.PriorityOffset),
			},
			UpdatedAt: now,
		})
	}
	return records, nil
}

// IsActive is always true for built-in pages.
func (s *StaticExtractor) IsActive(domain.SourceRecord) bool {
	return true
}

// Title returns the page title.
func (s *StaticExtractor) Title(rec domain.SourceRecord) string {
	return rec.Title
}

// Body returns the page text with any markup stripped.
func (s *StaticExtractor) Body(rec domain.SourceRecord) string {
	return normalisers.PlainText(rec.Body)
}

// Summary returns the page summary, or the first 200 characters of the text.
func (s *StaticExtractor) Summary(rec domain.SourceRecord) string {
	if rec.Excerpt != "" {
		return rec.Excerpt
	}
	return domain.Truncate(s.Body(rec), 200) + "..."
}

// Keywords returns the page's keyword list.
func (s *StaticExtractor) Keywords(rec domain.SourceRecord) []string {
	return domain.SplitList(rec.Attr("keywords"))
}

// Priority returns the configured type priority shifted by the page's offset.
func (s *StaticExtractor) Priority(rec domain.SourceRecord) int {
	return domain.ClampPriority(s.priority + rec.AttrInt("priority_offset"))
}

// Locate uses the page's slug and URL, deriving service page paths from
// the title when unset.
func (s *StaticExtractor) Locate(rec domain.SourceRecord) domain.ContentLocation {
	slug := rec.Slug
	if slug == "" {
		slug = strings.ToLower(strings.ReplaceAll(rec.Title, " ", "-"))
	}
	url := rec.Attr("url")
	if url == "" {
		url = "/services/" + slug
	}
	tags := rec.Tags
	if len(tags) == 0 && rec.Category != "" {
		tags = []string{rec.Category}
	}
	return domain.ContentLocation{
		Slug:     slug,
		URL:      url,
		Category: rec.Category,
		Tags:     tags,
	}
}
