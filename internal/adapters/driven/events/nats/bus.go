// Package nats provides a driven.EventBus over NATS core pub/sub.
package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
	"github.com/custodia-labs/relevance/internal/logger"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "relevance.changes"

// msgIDHeader carries the event ID for de-duplication.
const msgIDHeader = "Nats-Msg-Id"

// Ensure Bus implements the interface.
var _ driven.EventBus = (*Bus)(nil)

// Bus publishes change events as JSON on a single subject.
type Bus struct {
	nc      *natsgo.Conn
	subject string
	ownConn bool

	mu     sync.Mutex
	subs   []*natsgo.Subscription
	closed bool
}

// Connect dials url and returns a bus that owns the connection.
func Connect(url, subject string) (*Bus, error) {
	nc, err := natsgo.Connect(url,
		natsgo.Name("relevance"),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}
	bus := NewBus(nc, subject)
	bus.ownConn = true
	return bus, nil
}

// NewBus wraps an existing connection. The caller keeps ownership of nc.
func NewBus(nc *natsgo.Conn, subject string) *Bus {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Bus{nc: nc, subject: subject}
}

// Publish validates, stamps, and sends an event.
func (b *Bus) Publish(_ context.Context, event domain.ChangeEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}
	if b.isClosed() {
		return domain.ErrBusClosed
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding change event: %w", err)
	}
	msg := &natsgo.Msg{
		Subject: b.subject,
		Data:    data,
		Header:  natsgo.Header{},
	}
	msg.Header.Set(msgIDHeader, event.ID)
	if err := b.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publishing change event: %w", err)
	}
	return nil
}

// Subscribe registers a handler. Malformed messages are logged and dropped.
func (b *Bus) Subscribe(handler driven.ChangeHandler) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, domain.ErrBusClosed
	}

	sub, err := b.nc.Subscribe(b.subject, func(msg *natsgo.Msg) {
		var event domain.ChangeEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Warn("dropping malformed change event on %s: %v", msg.Subject, err)
			return
		}
		if err := event.Validate(); err != nil {
			logger.Warn("dropping invalid change event %s: %v", event.ID, err)
			return
		}
		handler(context.Background(), event)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", b.subject, err)
	}
	b.subs = append(b.subs, sub)

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := sub.Unsubscribe(); err != nil && !errors.Is(err, natsgo.ErrConnectionClosed) {
				logger.Warn("unsubscribing from %s: %v", b.subject, err)
			}
		})
	}, nil
}

// Flush waits until the server has processed all published messages.
func (b *Bus) Flush() error {
	return b.nc.Flush()
}

// Close drains subscriptions and, when the bus owns it, the connection.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	var errs []error
	for _, sub := range subs {
		if err := sub.Drain(); err != nil && !errors.Is(err, natsgo.ErrConnectionClosed) && !errors.Is(err, natsgo.ErrBadSubscription) {
			errs = append(errs, err)
		}
	}
	if b.ownConn {
		if err := b.nc.Drain(); err != nil && !errors.Is(err, natsgo.ErrConnectionClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Bus) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
