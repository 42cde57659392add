package extractors

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

var _ driven.ContentExtractor = (*FAQ)(nil)

// FAQ extracts active frequently asked questions.
// Title is the question, Body the answer, Category the display category.
type FAQ struct {
	base
}

// NewFAQ creates an FAQ extractor.
func NewFAQ(priority int) *FAQ {
	return &FAQ{base: base{contentType: domain.ContentTypeFAQ, priority: priority}}
}

// IsActive reports the FAQ's active flag.
func (f *FAQ) IsActive(rec domain.SourceRecord) bool {
	return rec.Active
}

// Title returns the question.
func (f *FAQ) Title(rec domain.SourceRecord) string {
	return rec.Title
}

// Body returns the question and answer with category context.
func (f *FAQ) Body(rec domain.SourceRecord) string {
	details := fmt.Sprintf("Question: %s\nCategory: %s", rec.Title, rec.Category)
	if updated := monthYear(rec); updated != "" {
		details += "\nLast Updated: " + updated
	}
	return lines(
		"FAQ: "+rec.Title,
		"Category: "+rec.Category,
		"Answer: "+rec.Body,
		details,
		fmt.Sprintf("Related Topics: %s, help, support, information", rec.Category),
	)
}

// Summary prefixes the start of the question.
func (f *FAQ) Summary(rec domain.SourceRecord) string {
	return "FAQ: " + domain.Truncate(rec.Title, 100) + "..."
}

// Keywords returns help vocabulary and the category.
func (f *FAQ) Keywords(rec domain.SourceRecord) []string {
	return keywordList("faq", "question", "help", "support", rec.Category)
}

// Locate places the FAQ under /faq.
func (f *FAQ) Locate(rec domain.SourceRecord) domain.ContentLocation {
	return domain.ContentLocation{
		Slug:     "faq-" + rec.ID,
		URL:      "/faq/" + rec.ID,
		Category: rec.Category,
		Tags:     keywordList("faq", "help", "support", categoryKey(rec)),
	}
}

// categoryKey returns the source's raw category key when present, else a
// lowercased form of the display category.
func categoryKey(rec domain.SourceRecord) string {
	return rec.AttrOr("category_key", strings.ToLower(strings.ReplaceAll(rec.Category, " ", "_")))
}
