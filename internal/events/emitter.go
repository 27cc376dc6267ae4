package events

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/phrazzld/spelldeck-api/internal/redact"
)

// subscription is a handler and the event types it receives; no types
// means every event.
type subscription struct {
	handler EventHandler
	types   []string
}

func (s subscription) wants(eventType string) bool {
	return len(s.types) == 0 || slices.Contains(s.types, eventType)
}

// InMemoryEventEmitter dispatches events synchronously to handlers registered
// in memory. Handler errors are returned to the caller, which lets the batch
// service react to a full task queue within the same request.
type InMemoryEventEmitter struct {
	mu     sync.RWMutex
	subs   []subscription
	logger *slog.Logger
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)

// NewInMemoryEventEmitter creates an emitter with no handlers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		logger: logger.With("component", "event_emitter"),
	}
}

// RegisterHandler subscribes handler to the given event types, or to all
// events when none are given.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler, eventTypes ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, subscription{handler: handler, types: eventTypes})
	e.logger.Debug("registered event handler",
		"event_types", eventTypes,
		"handler_count", len(e.subs))
}

// EmitEvent delivers event to every subscribed handler in registration
// order. A failing handler does not stop delivery; the failures are joined
// into the returned error so errors.Is sees each of them.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *Event) error {
	e.mu.RLock()
	subs := slices.Clone(e.subs)
	e.mu.RUnlock()

	log := e.logger.With("event_id", event.ID, "event_type", event.Type)

	var errs []error
	delivered := 0
	for _, sub := range subs {
		if !sub.wants(event.Type) {
			continue
		}
		delivered++
		if err := sub.handler.HandleEvent(ctx, event); err != nil {
			log.WarnContext(ctx, "event handler failed", "error", redact.Error(err))
			errs = append(errs, err)
		}
	}

	if delivered == 0 {
		log.WarnContext(ctx, "no handler subscribed to event")
		return nil
	}
	log.DebugContext(ctx, "event delivered", "handlers", delivered, "failures", len(errs))
	return errors.Join(errs...)
}
