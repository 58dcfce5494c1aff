package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/almazbisenbaev/tbilingo-app/internal/domain"
)

// ProgressStore defines persistence for per-user, per-course progress
// records. Mutating callers MUST follow the read-before-write discipline:
// fetch the latest record, apply the change, and save it back inside one
// transaction, so that a concurrent session's writes are not clobbered.
type ProgressStore interface {
	// Get retrieves the progress record for the (user, course) pair.
	// Returns ErrProgressNotFound if no record has been written yet.
	Get(ctx context.Context, userID uuid.UUID, courseID string) (*domain.ProgressRecord, error)

	// Save upserts the record with merge semantics: CreatedAt is assigned
	// by the store on first write and preserved on every later write, and
	// LastUpdated is refreshed on every successful write.
	Save(ctx context.Context, record *domain.ProgressRecord) error

	// WithTx returns a ProgressStore bound to the given transaction.
	// The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ProgressStore
}
