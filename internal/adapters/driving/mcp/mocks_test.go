package mcp

import (
	"context"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driving"
)

var (
	_ driving.SearchService  = (*mockSearchService)(nil)
	_ driving.Orchestrator   = (*mockOrchestrator)(nil)
	_ driving.ContextService = (*mockContextService)(nil)
	_ driving.Indexer        = (*mockIndexer)(nil)
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	formatted []domain.FormattedResult
	lastOpts  domain.SearchOptions
	err       error
}

func (m *mockSearchService) Search(context.Context, string, domain.SearchOptions) ([]domain.SearchResult, error) {
	return nil, m.err
}

func (m *mockSearchService) SearchWithFallback(_ context.Context, _ string, opts domain.SearchOptions) []domain.FormattedResult {
	m.lastOpts = opts
	return m.formatted
}

func (m *mockSearchService) KeywordSearch(context.Context, string, domain.SearchOptions) ([]domain.SearchResult, error) {
	return nil, m.err
}

// mockOrchestrator returns a fixed result.
type mockOrchestrator struct {
	result domain.ContextResult
}

func (m *mockOrchestrator) BuildContext(context.Context, string) string {
	return m.result.Context
}

func (m *mockOrchestrator) BuildContextAsync(ctx context.Context, message string) <-chan string {
	ch := make(chan string, 1)
	ch <- m.BuildContext(ctx, message)
	close(ch)
	return ch
}

func (m *mockOrchestrator) Explain(context.Context, string) domain.ContextResult {
	return m.result
}

// mockContextService is a mock implementation of driving.ContextService.
type mockContextService struct {
	sections []domain.ContextSection
	matches  []domain.ContextMatch
}

func (m *mockContextService) GetContextContent(_ context.Context, key string) (string, bool) {
	for _, s := range m.sections {
		if s.Section == key {
			return s.Content, true
		}
	}
	return "", false
}

func (m *mockContextService) FindRelevant(context.Context, string, int) []domain.ContextMatch {
	return m.matches
}

func (m *mockContextService) List(context.Context) []domain.ContextSection {
	return m.sections
}

func (m *mockContextService) Refresh(context.Context) error { return nil }

func (m *mockContextService) Save(context.Context, domain.ContextSection) error { return nil }

func (m *mockContextService) Delete(context.Context, string) error { return nil }

func (m *mockContextService) Metadata(context.Context, string) (domain.ContextMetadata, bool) {
	return domain.ContextMetadata{}, false
}

func (m *mockContextService) Seed(context.Context, bool, []string) (domain.SeedResult, error) {
	return domain.SeedResult{}, nil
}

// mockIndexer is a mock implementation of driving.Indexer.
type mockIndexer struct {
	stats  []domain.ContentStats
	status []domain.IndexStatus
	err    error
}

func (m *mockIndexer) IndexAll(context.Context) (domain.IndexStats, error) {
	return domain.IndexStats{}, m.err
}

func (m *mockIndexer) IndexContentType(context.Context, domain.ContentType) (domain.IndexStats, error) {
	return domain.IndexStats{}, m.err
}

func (m *mockIndexer) IndexRecord(context.Context, domain.ContentType, string) (domain.IndexStats, error) {
	return domain.IndexStats{}, m.err
}

func (m *mockIndexer) RemoveRecord(context.Context, domain.ContentType, string) error {
	return m.err
}

func (m *mockIndexer) Clear(context.Context, []domain.ContentType) (int, error) {
	return 0, m.err
}

func (m *mockIndexer) Stats(context.Context) ([]domain.ContentStats, error) {
	return m.stats, m.err
}

func (m *mockIndexer) Status(context.Context) []domain.IndexStatus {
	return m.status
}
