package services

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
	"github.com/custodia-labs/relevance/internal/core/ports/driving"
	"github.com/custodia-labs/relevance/internal/logger"
)

// ChangeSubscriber applies change events to the index and context sections.
// Events are applied at a bounded rate so a burst of edits cannot starve
// searches of the store.
type ChangeSubscriber struct {
	indexer  driving.Indexer
	contexts driving.ContextService
	limiter  *rate.Limiter
}

// NewChangeSubscriber creates a subscriber. A non-positive rate disables
// throttling. contexts is optional.
func NewChangeSubscriber(indexer driving.Indexer, contexts driving.ContextService, settings domain.EventSettings) *ChangeSubscriber {
	limit := rate.Inf
	if settings.RatePerSecond > 0 {
		limit = rate.Limit(settings.RatePerSecond)
	}
	burst := settings.Burst
	if burst <= 0 {
		burst = 1
	}
	return &ChangeSubscriber{
		indexer:  indexer,
		contexts: contexts,
		limiter:  rate.NewLimiter(limit, burst),
	}
}

// Subscribe attaches the subscriber to a bus. The returned function detaches it.
func (s *ChangeSubscriber) Subscribe(bus driven.EventBus) (func(), error) {
	return bus.Subscribe(func(ctx context.Context, event domain.ChangeEvent) {
		if err := s.Handle(ctx, event); err != nil {
			logger.Error(err, "Failed to apply %s event %s", event.Kind, event.ID)
		}
	})
}

// Handle applies one event, waiting for the rate limiter first.
func (s *ChangeSubscriber) Handle(ctx context.Context, event domain.ChangeEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("event %s: %w", event.ID, err)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	logger.Debug("Applying %s %s %s", event.Kind, event.ContentType, event.SourceID)

	switch event.Kind {
	case domain.ChangeSaved:
		_, err := s.indexer.IndexRecord(ctx, event.ContentType, event.SourceID)
		return err
	case domain.ChangeDeleted:
		return s.indexer.RemoveRecord(ctx, event.ContentType, event.SourceID)
	case domain.ChangeReindex:
		_, err := s.indexer.IndexContentType(ctx, event.ContentType)
		return err
	case domain.ChangeContext:
		if s.contexts == nil {
			return nil
		}
		return s.contexts.Refresh(ctx)
	}
	return nil
}
