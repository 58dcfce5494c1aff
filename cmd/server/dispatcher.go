package main

import (
	"log/slog"

	"github.com/almazbisenbaev/tbilingo-app/internal/task"
)

// newWriteDispatcher builds and starts the background progress-write
// dispatcher and returns a handle for stopping it during shutdown.
func newWriteDispatcher(applier task.ProgressApplier, queueSize int, log *slog.Logger) *dispatcherHandle {
	d := task.NewDispatcher(applier, queueSize, log)
	d.Start()
	return &dispatcherHandle{
		handler: d,
		stop:    d.Stop,
	}
}
