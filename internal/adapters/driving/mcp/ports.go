package mcp

import (
	"github.com/custodia-labs/relevance/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server exposes.
type Ports struct {
	// Search ranks indexed content. Required.
	Search driving.SearchService

	// Orchestrator assembles reply context. Enables build_context.
	Orchestrator driving.Orchestrator

	// Contexts serves curated sections. Enables find_context and the
	// section resources.
	Contexts driving.ContextService

	// Indexer reports index state. Enables index_stats.
	Indexer driving.Indexer
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
