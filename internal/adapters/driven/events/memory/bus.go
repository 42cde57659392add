// Package memory provides an in-process event bus.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

// Ensure Bus implements the interface.
var _ driven.EventBus = (*Bus)(nil)

// Bus delivers events synchronously to every subscriber, in subscription
// order, on the publisher's goroutine.
type Bus struct {
	mu       sync.RWMutex
	handlers map[int]driven.ChangeHandler
	order    []int
	nextID   int
	closed   bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[int]driven.ChangeHandler)}
}

// Publish validates the event, assigns an ID and timestamp when missing,
// and delivers it.
func (b *Bus) Publish(ctx context.Context, event domain.ChangeEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return domain.ErrBusClosed
	}
	handlers := make([]driven.ChangeHandler, 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, event)
	}
	return nil
}

// Subscribe registers a handler.
func (b *Bus) Subscribe(handler driven.ChangeHandler) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, domain.ErrBusClosed
	}
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}, nil
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Close drops all subscribers. Further publishes fail with domain.ErrBusClosed.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = make(map[int]driven.ChangeHandler)
	b.order = nil
	return nil
}
