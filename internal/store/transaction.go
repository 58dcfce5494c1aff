package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/almazbisenbaev/tbilingo-app/internal/platform/logger"
)

// TxFn is a function that executes within a database transaction.
// The transaction is committed if the function returns nil, rolled back
// if it returns an error.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// ProgressTxRunner runs a function against a ProgressStore bound to a
// single transaction. It is the seam between services that need the
// read-before-write discipline and the storage backend providing it.
type ProgressTxRunner interface {
	RunProgressTx(ctx context.Context, fn func(ctx context.Context, progress ProgressStore) error) error
}

// RunInTransaction executes the given function within a database
// transaction, rolling back on error or panic and committing otherwise.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if txErr := tx.Rollback(); txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("error rolling back transaction: %v (original error: %w)", rollbackErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
