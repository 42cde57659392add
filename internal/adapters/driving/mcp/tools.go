package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string   `json:"query" jsonschema:"the visitor question or keywords to search for"`
	Limit int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Types []string `json:"types,omitempty" jsonschema:"restrict results to these content types, e.g. blog, vehicle, faq"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []domain.FormattedResult `json:"results"`
	Count   int                      `json:"count"`
}

// BuildContextInput is the input schema for the build_context tool.
type BuildContextInput struct {
	Message string `json:"message" jsonschema:"the chat message to assemble context for"`
}

// FindContextInput is the input schema for the find_context tool.
type FindContextInput struct {
	Message    string `json:"message" jsonschema:"the chat message to match against curated sections"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"maximum number of sections to return (default 3)"`
}

// FindContextOutput is the output schema for the find_context tool.
type FindContextOutput struct {
	Sections []SectionMatch `json:"sections"`
}

// SectionMatch is one curated section scored against a message.
type SectionMatch struct {
	Section string  `json:"section"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
}

// IndexStatsInput is the (empty) input schema for the index_stats tool.
type IndexStatsInput struct{}

// IndexStatsOutput is the output schema for the index_stats tool.
type IndexStatsOutput struct {
	Content []domain.ContentStats `json:"content"`
	Runs    []RunStatus           `json:"runs"`
}

// RunStatus is the last index run for one content type.
// Timestamps are RFC 3339 and empty when the run has not happened.
type RunStatus struct {
	ContentType string `json:"content_type"`
	Running     bool   `json:"running"`
	Indexed     int    `json:"indexed"`
	Updated     int    `json:"updated"`
	Deleted     int    `json:"deleted"`
	Errors      int    `json:"errors"`
	FinishedAt  string `json:"finished_at,omitempty"`
	LastError   string `json:"last_error,omitempty"`
}

// registerTools registers tool handlers for every wired port.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search indexed website content (blog posts, vehicles, services, FAQs and more)",
	}, s.handleSearch)

	if s.ports.Orchestrator != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "build_context",
			Description: "Assemble the reference context a reply to this chat message should be grounded in",
		}, s.handleBuildContext)
	}

	if s.ports.Contexts != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "find_context",
			Description: "Rank curated company sections by keyword overlap with a chat message",
		}, s.handleFindContext)
	}

	if s.ports.Indexer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "index_stats",
			Description: "Report indexed content counts and the last run per content type",
		}, s.handleIndexStats)
	}
}

// handleSearch handles the search tool invocation. It never fails on a
// ranking backend error; keyword scoring takes over.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{Limit: input.Limit}
	for _, t := range input.Types {
		opts.ContentTypes = append(opts.ContentTypes, domain.ContentType(strings.ToLower(strings.TrimSpace(t))))
	}

	results := s.ports.Search.SearchWithFallback(ctx, input.Query, opts)
	return nil, SearchOutput{Results: results, Count: len(results)}, nil
}

// handleBuildContext handles the build_context tool invocation.
func (s *Server) handleBuildContext(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BuildContextInput,
) (*mcp.CallToolResult, domain.ContextResult, error) {
	return nil, s.ports.Orchestrator.Explain(ctx, input.Message), nil
}

// handleFindContext handles the find_context tool invocation.
func (s *Server) handleFindContext(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindContextInput,
) (*mcp.CallToolResult, FindContextOutput, error) {
	matches := s.ports.Contexts.FindRelevant(ctx, input.Message, input.MaxResults)

	output := FindContextOutput{Sections: make([]SectionMatch, len(matches))}
	for i, m := range matches {
		output.Sections[i] = SectionMatch{
			Section: m.Section.Section,
			Title:   m.Section.Title,
			Score:   m.Score,
		}
	}
	return nil, output, nil
}

// handleIndexStats handles the index_stats tool invocation.
func (s *Server) handleIndexStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ IndexStatsInput,
) (*mcp.CallToolResult, IndexStatsOutput, error) {
	if s.ports.Indexer == nil {
		return nil, IndexStatsOutput{}, ErrMissingIndexer
	}

	stats, err := s.ports.Indexer.Stats(ctx)
	if err != nil {
		return nil, IndexStatsOutput{}, err
	}
	output := IndexStatsOutput{Content: stats}
	for _, st := range s.ports.Indexer.Status(ctx) {
		run := RunStatus{
			ContentType: string(st.ContentType),
			Running:     st.Running,
			Indexed:     st.Stats.Indexed,
			Updated:     st.Stats.Updated,
			Deleted:     st.Stats.Deleted,
			Errors:      st.Stats.Errors,
			LastError:   st.LastError,
		}
		if !st.FinishedAt.IsZero() {
			run.FinishedAt = st.FinishedAt.Format(time.RFC3339)
		}
		output.Runs = append(output.Runs, run)
	}
	return nil, output, nil
}
