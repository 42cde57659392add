package extractors

import (
	"strconv"
	"strings"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

// base carries the fields every extractor shares.
type base struct {
	contentType domain.ContentType
	priority    int
}

// ContentType returns the type this extractor handles.
func (b base) ContentType() domain.ContentType {
	return b.contentType
}

// Priority returns the configured importance of the type.
func (b base) Priority(domain.SourceRecord) int {
	return b.priority
}

// lines joins text blocks with a blank line between each,
// skipping empty ones.
func lines(blocks ...string) string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return strings.Join(out, "\n\n")
}

// orDefault returns s, or fallback when s is blank.
func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// groupThousands formats n with comma separators: 45000 -> "45,000".
func groupThousands(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.Itoa(n)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + b.String()
}

// keywordList drops blank entries.
func keywordList(items ...string) []string {
	return domain.SplitList(domain.JoinList(items...))
}

// monthYear renders a month and year, or "" for a zero time.
func monthYear(rec domain.SourceRecord) string {
	if rec.UpdatedAt.IsZero() {
		return ""
	}
	return rec.UpdatedAt.Format("January 2006")
}
