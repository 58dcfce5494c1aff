// Package task runs progress persistence off the request path. The API
// applies session transitions synchronously in memory and hands the
// matching write to the Dispatcher, which executes writes one at a time
// in arrival order and swallows failures after logging them. A failed
// write leaves the optimistic in-memory state standing; the divergence
// is reconciled on the next successful read.
package task

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/almazbisenbaev/tbilingo-app/internal/events"
)

// ProgressApplier is the slice of the progress service the dispatcher needs.
type ProgressApplier interface {
	ApplyLearned(ctx context.Context, userID uuid.UUID, courseID, itemID string) error
	ApplyMasteryDelta(ctx context.Context, userID uuid.UUID, courseID, itemID string, delta int) error
	MarkFinished(ctx context.Context, userID uuid.UUID, courseID string) error
}

// Dispatcher is an events.Handler backed by a bounded queue and a single
// worker goroutine. The single worker is what guarantees that progress
// mutations for a given user and course are issued sequentially: each
// write's read-modify-write cycle completes before the next one begins.
type Dispatcher struct {
	applier ProgressApplier
	queue   chan *events.ProgressEvent
	logger  *slog.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// NewDispatcher creates a Dispatcher with the given queue capacity.
func NewDispatcher(applier ProgressApplier, queueSize int, logger *slog.Logger) *Dispatcher {
	if applier == nil {
		panic("applier cannot be nil")
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		applier: applier,
		queue:   make(chan *events.ProgressEvent, queueSize),
		logger:  logger.With(slog.String("component", "progress_write_dispatcher")),
		done:    make(chan struct{}),
	}
}

var _ events.Handler = (*Dispatcher)(nil)

// Start launches the worker goroutine. Safe to call once; subsequent
// calls are no-ops.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		go d.run()
	})
}

// Stop closes the queue and waits for the worker to drain in-flight
// writes. Aborting a session never cancels writes already queued.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}

// HandleEvent implements events.Handler by enqueueing the event for the
// worker. A full queue drops the event with an error log rather than
// blocking the request path.
func (d *Dispatcher) HandleEvent(ctx context.Context, event *events.ProgressEvent) error {
	select {
	case d.queue <- event:
		return nil
	default:
		d.logger.Error("progress write queue full, dropping event",
			"event_id", event.ID,
			"event_kind", event.Kind,
			"user_id", event.UserID,
			"course_id", event.CourseID)
		return nil
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for event := range d.queue {
		d.apply(event)
	}
}

// apply executes one persistence command. Writes run under a background
// context: navigating away or finishing the request must not cancel them.
func (d *Dispatcher) apply(event *events.ProgressEvent) {
	ctx := context.Background()

	var err error
	switch event.Kind {
	case events.KindItemLearned:
		err = d.applier.ApplyLearned(ctx, event.UserID, event.CourseID, event.ItemID)
	case events.KindMasteryDelta:
		err = d.applier.ApplyMasteryDelta(ctx, event.UserID, event.CourseID, event.ItemID, event.Delta)
	case events.KindCourseFinished:
		err = d.applier.MarkFinished(ctx, event.UserID, event.CourseID)
	default:
		d.logger.Warn("unknown progress event kind",
			"event_id", event.ID,
			"event_kind", event.Kind)
		return
	}

	if err != nil {
		// Swallowed: the UI already applied its optimistic update.
		d.logger.Error("progress write failed",
			"error", err,
			"event_id", event.ID,
			"event_kind", event.Kind,
			"user_id", event.UserID,
			"course_id", event.CourseID,
			"item_id", event.ItemID)
	}
}
