package domain

import (
	"sort"
	"strings"
)

// DefaultSearchLimit is used when a search does not specify a limit.
const DefaultSearchLimit = 10

// SearchOptions configures a content search.
type SearchOptions struct {
	// Limit is the maximum number of results. Zero means DefaultSearchLimit.
	Limit int

	// ContentTypes restricts candidates to these types. Empty means all.
	ContentTypes []ContentType
}

// Normalised returns a copy with a positive limit and sorted, de-duplicated
// content types, so logically identical options compare equal.
func (o SearchOptions) Normalised() SearchOptions {
	out := SearchOptions{Limit: o.Limit}
	if out.Limit <= 0 {
		out.Limit = DefaultSearchLimit
	}
	if len(o.ContentTypes) == 0 {
		return out
	}
	seen := make(map[ContentType]bool, len(o.ContentTypes))
	for _, t := range o.ContentTypes {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out.ContentTypes = append(out.ContentTypes, t)
	}
	sort.Slice(out.ContentTypes, func(i, j int) bool {
		return out.ContentTypes[i] < out.ContentTypes[j]
	})
	return out
}

// Allows reports whether content type t passes the filter.
func (o SearchOptions) Allows(t ContentType) bool {
	if len(o.ContentTypes) == 0 {
		return true
	}
	for _, allowed := range o.ContentTypes {
		if allowed == t {
			return true
		}
	}
	return false
}

// NormaliseQuery lowercases the query and collapses whitespace.
func NormaliseQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// SearchResult is a ranked (content, score) pair.
// Scores are only comparable within a single search invocation.
type SearchResult struct {
	// Content is the matched record.
	Content IndexedContent `json:"content"`

	// Score is the relevance score, higher is better.
	Score float64 `json:"score"`
}

// FormattedResult is the flat result shape handed to reply generation.
// The shape is identical whichever ranking path produced it.
type FormattedResult struct {
	Title          string      `json:"title"`
	Summary        string      `json:"summary"`
	URL            string      `json:"url"`
	Category       string      `json:"category"`
	RelevanceScore float64     `json:"relevance_score"`
	ContentType    ContentType `json:"content_type"`
}

// SummaryFallbackLength is how much body text stands in for a missing summary.
const SummaryFallbackLength = 300

// Format converts a result into its flat shape.
func (r SearchResult) Format() FormattedResult {
	return FormattedResult{
		Title:          r.Content.Title,
		Summary:        r.Content.DisplaySummary(SummaryFallbackLength),
		URL:            r.Content.URL,
		Category:       r.Content.Category,
		RelevanceScore: r.Score,
		ContentType:    r.Content.ContentType,
	}
}

// RankingPath names the strategy that produced a result set.
type RankingPath string

// Ranking paths.
const (
	RankingPrimary  RankingPath = "primary"
	RankingFallback RankingPath = "fallback"
)

// SearchOutcome is the result of asking the primary ranking backend.
// Either Results is set, or Err explains why the backend could not serve
// the query (wrapping ErrBackendUnavailable).
type SearchOutcome struct {
	Results []SearchResult
	Err     error
}

// Ranked wraps a successful backend result.
func Ranked(results []SearchResult) SearchOutcome {
	if results == nil {
		results = []SearchResult{}
	}
	return SearchOutcome{Results: results}
}

// Unavailable wraps a backend failure.
func Unavailable(err error) SearchOutcome {
	if err == nil {
		err = ErrBackendUnavailable
	}
	return SearchOutcome{Err: err}
}

// OK reports whether the backend produced results.
func (o SearchOutcome) OK() bool {
	return o.Err == nil
}
