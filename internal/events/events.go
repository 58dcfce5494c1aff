// Package events decouples the session engine from progress persistence:
// the engine applies its in-memory transition synchronously and emits a
// progress event, and registered handlers (the background write
// dispatcher, observers) act on it.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProgressEventKind identifies what a session recorded about an item.
type ProgressEventKind string

// Supported progress event kinds.
const (
	// KindItemLearned marks the one-way "I know this" action of the
	// characters/numbers/words variants.
	KindItemLearned ProgressEventKind = "item_learned"

	// KindMasteryDelta carries a ±1 mastery adjustment from a phrase answer.
	KindMasteryDelta ProgressEventKind = "mastery_delta"

	// KindCourseFinished marks a story course read to the end.
	KindCourseFinished ProgressEventKind = "course_finished"
)

// ProgressEvent is one persistence command produced by a session.
// Delta is meaningful only for KindMasteryDelta.
type ProgressEvent struct {
	ID        uuid.UUID         `json:"id"`
	Kind      ProgressEventKind `json:"kind"`
	UserID    uuid.UUID         `json:"user_id"`
	CourseID  string            `json:"course_id"`
	ItemID    string            `json:"item_id,omitempty"`
	Delta     int               `json:"delta,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewProgressEvent creates a ProgressEvent with a fresh ID and timestamp.
func NewProgressEvent(kind ProgressEventKind, userID uuid.UUID, courseID, itemID string, delta int) *ProgressEvent {
	return &ProgressEvent{
		ID:        uuid.New(),
		Kind:      kind,
		UserID:    userID,
		CourseID:  courseID,
		ItemID:    itemID,
		Delta:     delta,
		CreatedAt: time.Now().UTC(),
	}
}

// Handler processes progress events.
type Handler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *ProgressEvent) error
}

// Emitter publishes progress events to registered handlers.
type Emitter interface {
	// Emit publishes the given event to all registered handlers.
	Emit(ctx context.Context, event *ProgressEvent) error
}
