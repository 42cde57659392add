package driven

import (
	"time"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

// Telemetry records search and indexing observations.
type Telemetry interface {
	// SearchServed records one search: which path ranked it, how many
	// results it returned, and how long it took.
	SearchServed(path domain.RankingPath, results int, elapsed time.Duration)

	// CacheLookup records a search cache hit or miss.
	CacheLookup(hit bool)

	// IndexCompleted records the outcome of an index run for a content type.
	IndexCompleted(contentType domain.ContentType, stats domain.IndexStats, elapsed time.Duration)

	// ContextServed records which orchestrator tier produced a context.
	ContextServed(tier string)
}
