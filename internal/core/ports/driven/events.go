package driven

import (
	"context"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

// ChangeHandler processes one change event.
type ChangeHandler func(ctx context.Context, event domain.ChangeEvent)

// EventBus carries content change notifications from publishers to the indexer.
type EventBus interface {
	// Publish sends an event. An empty ID is assigned before delivery.
	Publish(ctx context.Context, event domain.ChangeEvent) error

	// Subscribe registers a handler. The returned function unsubscribes.
	Subscribe(handler ChangeHandler) (unsubscribe func(), err error)

	// Close stops delivery and releases resources.
	Close() error
}
