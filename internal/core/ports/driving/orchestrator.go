package driving

import (
	"context"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

// Orchestrator assembles the context handed to reply generation.
type Orchestrator interface {
	// BuildContext returns a non-empty context for a message.
	BuildContext(ctx context.Context, message string) string

	// BuildContextAsync runs BuildContext in the background.
	// The channel receives exactly one value and is then closed.
	BuildContextAsync(ctx context.Context, message string) <-chan string

	// Explain returns the context together with the tier that produced it.
	Explain(ctx context.Context, message string) domain.ContextResult
}
