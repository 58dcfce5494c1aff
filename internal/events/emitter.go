package events

import (
	"context"
	"log/slog"
	"sync"
)

// InMemoryEmitter is a simple Emitter that holds registered handlers in
// memory and dispatches events to them synchronously, in registration order.
type InMemoryEmitter struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *slog.Logger
}

// NewInMemoryEmitter creates a new InMemoryEmitter.
func NewInMemoryEmitter(logger *slog.Logger) *InMemoryEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEmitter{
		handlers: make([]Handler, 0),
		logger:   logger.With(slog.String("component", "progress_event_emitter")),
	}
}

var _ Emitter = (*InMemoryEmitter)(nil)

// RegisterHandler adds a handler to receive future events.
func (e *InMemoryEmitter) RegisterHandler(handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered progress event handler", "handler_count", len(e.handlers))
}

// Emit publishes the event to all registered handlers. Every handler sees
// the event even if an earlier one fails; the first error is returned.
func (e *InMemoryEmitter) Emit(ctx context.Context, event *ProgressEvent) error {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	if len(handlers) == 0 {
		e.logger.Warn("no handlers registered for progress event",
			"event_id", event.ID,
			"event_kind", event.Kind)
		return nil
	}

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("handler failed to process progress event",
				"error", err,
				"handler_index", i,
				"event_id", event.ID,
				"event_kind", event.Kind)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
