// Package app contains the application services of the integration core:
// the registry, connection lifecycle, webhook authentication and ingestion,
// action dispatch, and the in-process event bus.
package app

import (
	"sync"

	"github.com/hookhubio/api/internal/metrics"
	"github.com/hookhubio/api/pkg/domain/event"
	"github.com/hookhubio/api/pkg/logger"
)

// Handler receives published integration events.
type Handler func(event.Event)

// Publisher is the minimal publishing side of the event bus. Components
// that only emit events depend on this, not on the full bus.
type Publisher interface {
	Publish(evt event.Event)
}

// EventBus is a synchronous in-process publish/subscribe bus with a
// bounded event history. A panicking subscriber never affects other
// subscribers or the publisher.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[int]Handler
	nextID      int
	history     []event.Event
	historyCap  int
	logger      *logger.Logger
}

// Ensure EventBus implements Publisher.
var _ Publisher = (*EventBus)(nil)

// NewEventBus creates a bus with the given history capacity.
func NewEventBus(historyCap int, log *logger.Logger) *EventBus {
	if historyCap < 1 {
		historyCap = 100
	}
	return &EventBus{
		subscribers: make(map[int]Handler),
		history:     make([]event.Event, 0, historyCap),
		historyCap:  historyCap,
		logger:      log.With("component", "event_bus"),
	}
}

// Subscribe registers a handler and returns its subscription ID.
func (b *EventBus) Subscribe(h Handler) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subscribers[b.nextID] = h
	return b.nextID
}

// Unsubscribe removes the handler with the given subscription ID.
func (b *EventBus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subscribers, id)
}

// Publish appends the event to the history and delivers it synchronously
// to all subscribers. Events published by a single call chain are observed
// in causal order; no cross-call ordering is guaranteed.
func (b *EventBus) Publish(evt event.Event) {
	b.mu.Lock()
	b.history = append(b.history, evt)
	if len(b.history) > b.historyCap {
		b.history = b.history[len(b.history)-b.historyCap:]
	}
	handlers := make([]Handler, 0, len(b.subscribers))
	for _, h := range b.subscribers {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	metrics.EventsPublishedTotal.WithLabelValues(evt.Type.String()).Inc()

	for _, h := range handlers {
		b.deliver(h, evt)
	}
}

// deliver invokes one handler, isolating panics from the rest.
func (b *EventBus) deliver(h Handler, evt event.Event) {
	defer func() {
		if r := recover(); r != nil {
			metrics.SubscriberPanicsTotal.Inc()
			b.logger.Error("event subscriber panicked",
				"event_type", evt.Type,
				"integration_id", evt.IntegrationID,
				"panic", r,
			)
		}
	}()
	h(evt)
}

// History returns a copy of the retained events, oldest first.
func (b *EventBus) History() []event.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]event.Event, len(b.history))
	copy(out, b.history)
	return out
}

// NopPublisher discards all events. Used in headless contexts and tests
// where no listener set exists.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(event.Event) {}
