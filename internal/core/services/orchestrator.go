package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
	"github.com/custodia-labs/relevance/internal/core/ports/driving"
	"github.com/custodia-labs/relevance/internal/logger"
)

// Ensure Orchestrator implements the interface.
var _ driving.Orchestrator = (*Orchestrator)(nil)

// Orchestrator assembles the context handed to reply generation.
//
// Tiers are tried in order and the first that yields text wins:
// indexed search, topic sections, booking and sales vocabulary, the default
// section, and finally a built-in company description. The result is never
// empty and no error reaches the caller.
type Orchestrator struct {
	search    driving.SearchService
	contexts  driving.ContextService
	settings  domain.OrchestratorSettings
	telemetry driven.Telemetry
}

// NewOrchestrator creates an orchestrator. telemetry is optional.
func NewOrchestrator(
	search driving.SearchService,
	contexts driving.ContextService,
	settings domain.OrchestratorSettings,
	telemetry driven.Telemetry,
) *Orchestrator {
	if strings.TrimSpace(settings.FallbackContext) == "" {
		settings.FallbackContext = domain.DefaultFallbackContext
	}
	return &Orchestrator{
		search:    search,
		contexts:  contexts,
		settings:  settings,
		telemetry: telemetry,
	}
}

// BuildContext returns a non-empty context for a message.
func (o *Orchestrator) BuildContext(ctx context.Context, message string) string {
	return o.Explain(ctx, message).Context
}

// BuildContextAsync runs BuildContext in the background so callers can
// await it alongside other work. The channel receives one value and closes.
func (o *Orchestrator) BuildContextAsync(ctx context.Context, message string) <-chan string {
	out := make(chan string, 1)
	go func() {
		defer close(out)
		out <- o.BuildContext(ctx, message)
	}()
	return out
}

// Explain returns the context together with the tier that produced it and
// any contact details found in the message.
func (o *Orchestrator) Explain(ctx context.Context, message string) domain.ContextResult {
	result := o.resolve(ctx, message)
	result.Contact = ExtractContactInfo(message)

	logger.Debug("Context tier %s (section %q, %d chars)", result.Tier, result.Section, len(result.Context))
	if o.telemetry != nil {
		o.telemetry.ContextServed(result.Tier)
	}
	return result
}

func (o *Orchestrator) resolve(ctx context.Context, message string) domain.ContextResult {
	// Tier 1: indexed content.
	if combined := o.combine(o.searchContent(ctx, message), message); runeLen(combined) > o.settings.SubstantialLength {
		return domain.ContextResult{Context: combined, Tier: domain.TierSearch}
	}

	msg := strings.ToLower(message)

	// Tier 2: topic sections, first matching rule wins.
	for _, rule := range o.settings.Topics {
		if !containsAny(msg, rule.Keywords) {
			continue
		}
		if content, ok := o.section(ctx, rule.Section); ok {
			return domain.ContextResult{Context: content, Tier: domain.TierTopic, Section: rule.Section}
		}
	}

	// Tier 3: booking, then sales.
	if containsAny(msg, o.settings.BookingKeywords) {
		if content, ok := o.section(ctx, o.settings.BookingSection); ok {
			return domain.ContextResult{Context: content, Tier: domain.TierBooking, Section: o.settings.BookingSection}
		}
	}
	if containsAny(msg, o.settings.SalesKeywords) {
		combined := o.combine(o.searchContent(ctx, message), message)
		if runeLen(combined) > o.settings.SalesSubstantialLength {
			return domain.ContextResult{Context: combined, Tier: domain.TierSales}
		}
		if content, ok := o.section(ctx, o.settings.SalesSection); ok {
			return domain.ContextResult{Context: content, Tier: domain.TierSales, Section: o.settings.SalesSection}
		}
	}

	// Tier 4: default section.
	if content, ok := o.section(ctx, o.settings.DefaultSection); ok {
		return domain.ContextResult{Context: content, Tier: domain.TierDefault, Section: o.settings.DefaultSection}
	}

	return domain.ContextResult{Context: o.settings.FallbackContext, Tier: domain.TierFallback}
}

// searchContent asks the search engine, degrading to keyword search and
// then to nothing. Failures are logged, never returned.
func (o *Orchestrator) searchContent(ctx context.Context, message string) []domain.SearchResult {
	opts := domain.SearchOptions{Limit: o.settings.SearchLimit}
	results, err := o.search.Search(ctx, message, opts)
	if err == nil {
		return results
	}
	logger.Warn("Content search failed: %v", err)

	results, err = o.search.KeywordSearch(ctx, message, opts)
	if err != nil {
		logger.Warn("Keyword search failed: %v", err)
		return nil
	}
	return results
}

func (o *Orchestrator) section(ctx context.Context, key string) (string, bool) {
	if key == "" {
		return "", false
	}
	content, ok := o.contexts.GetContextContent(ctx, key)
	if !ok || strings.TrimSpace(content) == "" {
		return "", false
	}
	return content, true
}

// combine renders results as one block, skipping repeated titles.
// Returns "" when there is nothing to combine.
func (o *Orchestrator) combine(results []domain.SearchResult, message string) string {
	if len(results) == 0 {
		return ""
	}

	seen := make(map[string]bool, len(results))
	parts := make([]string, 0, len(results))
	for _, r := range results {
		c := r.Content
		if seen[c.Title] {
			continue
		}
		seen[c.Title] = true

		body := c.Summary
		if body == "" {
			body = domain.Truncate(c.ContentText, o.settings.ExcerptLength)
		}
		parts = append(parts, fmt.Sprintf("\n**%s**\n\n%s\n\nSource: %s\n---\n", c.Title, body, c.URL))
	}

	echo := domain.Truncate(message, o.settings.MessageEchoLength)
	if runeLen(message) > o.settings.MessageEchoLength {
		echo += "..."
	}

	return fmt.Sprintf("\nBased on your question about: \"%s\"\n\nHere is the most relevant information from our website:\n%s\n\nThis information is current as of our last content update.\n",
		echo, strings.Join(parts, "\n"))
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
