package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Event interface {
	EventType() string
	EventID() string
	OccurredAt() time.Time
	Payload() interface{}
}

type BaseEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) EventID() string {
	return e.ID
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

func (e BaseEvent) Payload() interface{} {
	return e.Data
}

type Handler func(ctx context.Context, event Event) error

// Compensation reverts what one handler did for one event.
type Compensation func(ctx context.Context) error

// CompensatingHandler handles an event and returns how to revert it. A nil
// Compensation means there is nothing to revert.
type CompensatingHandler func(ctx context.Context, event Event) (Compensation, error)

// Publisher is the side of the bus that services depend on.
type Publisher interface {
	PublishCompensable(ctx context.Context, event Event) (Compensation, error)
}

// EventBus dispatches domain events to in-process subscribers. Handlers run
// on the publisher's goroutine in subscription order and the first failure
// stops the dispatch, reverting the handlers that already ran.
type EventBus struct {
	handlers map[string][]namedHandler
	logger   *slog.Logger
	mu       sync.RWMutex
}

type namedHandler struct {
	name string
	fn   CompensatingHandler
}

type namedCompensation struct {
	name string
	fn   Compensation
}

func NewEventBus(logger *slog.Logger) *EventBus {
	return &EventBus{
		handlers: make(map[string][]namedHandler),
		logger:   logger,
	}
}

// Subscribe registers fn for eventType. name only appears in logs and errors.
func (eb *EventBus) Subscribe(eventType, name string, fn Handler) {
	eb.SubscribeCompensating(eventType, name, func(ctx context.Context, event Event) (Compensation, error) {
		return nil, fn(ctx, event)
	})
}

// SubscribeCompensating registers a handler whose work can be reverted when a
// later handler, or the publisher itself, fails.
func (eb *EventBus) SubscribeCompensating(eventType, name string, fn CompensatingHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], namedHandler{name: name, fn: fn})
	eb.logger.Debug("event handler registered",
		"event_type", eventType,
		"handler", name,
		"total_handlers", len(eb.handlers[eventType]))
}

func (eb *EventBus) HandlerCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.handlers[eventType])
}

func (eb *EventBus) PublishSync(ctx context.Context, event Event) error {
	_, err := eb.PublishCompensable(ctx, event)
	return err
}

// PublishCompensable runs every handler for event. When one fails, the
// handlers that already ran are reverted in reverse order and the error is
// returned. On success the returned Compensation reverts all of them, for
// publishers whose own write fails afterwards.
func (eb *EventBus) PublishCompensable(ctx context.Context, event Event) (Compensation, error) {
	eb.mu.RLock()
	handlers := append([]namedHandler(nil), eb.handlers[event.EventType()]...)
	eb.mu.RUnlock()

	noop := func(context.Context) error { return nil }
	if len(handlers) == 0 {
		eb.logger.Debug("no handlers for event type", "event_type", event.EventType())
		return noop, nil
	}

	eb.logger.Info("publishing event",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"handlers_count", len(handlers))

	var done []namedCompensation
	for _, h := range handlers {
		undo, err := h.fn(ctx, event)
		if err != nil {
			eb.logger.Error("event handler failed",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"handler", h.name,
				"error", err)
			err = fmt.Errorf("%s handler for %s: %w", h.name, event.EventType(), err)
			if rbErr := eb.compensate(ctx, event, done); rbErr != nil {
				return nil, errors.Join(err, rbErr)
			}
			return nil, err
		}
		if undo != nil {
			done = append(done, namedCompensation{name: h.name, fn: undo})
		}
	}

	if len(done) == 0 {
		return noop, nil
	}
	return func(ctx context.Context) error {
		return eb.compensate(ctx, event, done)
	}, nil
}

// compensate reverts done from last to first. Every compensation runs even
// when an earlier one fails.
func (eb *EventBus) compensate(ctx context.Context, event Event, done []namedCompensation) error {
	var errs []error
	for i := len(done) - 1; i >= 0; i-- {
		c := done[i]
		if err := c.fn(ctx); err != nil {
			eb.logger.Error("event compensation failed",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"handler", c.name,
				"error", err)
			errs = append(errs, fmt.Errorf("reverting %s for %s: %w", c.name, event.EventType(), err))
			continue
		}
		eb.logger.Info("event handler reverted",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"handler", c.name)
	}
	return errors.Join(errs...)
}
