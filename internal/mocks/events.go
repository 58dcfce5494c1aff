package mocks

import (
	"context"
	"sync"

	"github.com/almazbisenbaev/tbilingo-app/internal/events"
)

// MockProgressHandler implements events.Handler and records every event
// it receives.
type MockProgressHandler struct {
	// HandleEventFn allows test cases to mock the HandleEvent behavior
	HandleEventFn func(ctx context.Context, event *events.ProgressEvent) error

	// Err is returned by the default implementation when set
	Err error

	mu       sync.Mutex
	received []*events.ProgressEvent
}

var _ events.Handler = (*MockProgressHandler)(nil)

// HandleEvent implements the events.Handler interface
func (m *MockProgressHandler) HandleEvent(ctx context.Context, event *events.ProgressEvent) error {
	m.mu.Lock()
	m.received = append(m.received, event)
	m.mu.Unlock()

	if m.HandleEventFn != nil {
		return m.HandleEventFn(ctx, event)
	}
	return m.Err
}

// Received returns a snapshot of the events handled so far.
func (m *MockProgressHandler) Received() []*events.ProgressEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*events.ProgressEvent, len(m.received))
	copy(out, m.received)
	return out
}

// MockEmitter implements events.Emitter and records emitted events
// without delivering them anywhere.
type MockEmitter struct {
	// EmitFn allows test cases to mock the Emit behavior
	EmitFn func(ctx context.Context, event *events.ProgressEvent) error

	// Err is returned by the default implementation when set
	Err error

	mu      sync.Mutex
	emitted []*events.ProgressEvent
}

var _ events.Emitter = (*MockEmitter)(nil)

// Emit implements the events.Emitter interface
func (m *MockEmitter) Emit(ctx context.Context, event *events.ProgressEvent) error {
	m.mu.Lock()
	m.emitted = append(m.emitted, event)
	m.mu.Unlock()

	if m.EmitFn != nil {
		return m.EmitFn(ctx, event)
	}
	return m.Err
}

// Emitted returns a snapshot of the events emitted so far.
func (m *MockEmitter) Emitted() []*events.ProgressEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*events.ProgressEvent, len(m.emitted))
	copy(out, m.emitted)
	return out
}
