package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/almazbisenbaev/tbilingo-app/internal/store"
)

// ProgressTxRunner implements store.ProgressTxRunner by wrapping each
// call in a real database transaction and handing the callback a
// transaction-bound ProgressStore.
type ProgressTxRunner struct {
	db       *sql.DB
	progress *PostgresProgressStore
	logger   *slog.Logger
}

// NewProgressTxRunner creates a transaction runner over the given pool.
func NewProgressTxRunner(db *sql.DB, progress *PostgresProgressStore, logger *slog.Logger) *ProgressTxRunner {
	if db == nil {
		panic("db cannot be nil")
	}
	if progress == nil {
		panic("progress store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressTxRunner{
		db:       db,
		progress: progress,
		logger:   logger.With(slog.String("component", "progress_tx_runner")),
	}
}

var _ store.ProgressTxRunner = (*ProgressTxRunner)(nil)

// RunProgressTx implements store.ProgressTxRunner.
func (r *ProgressTxRunner) RunProgressTx(ctx context.Context, fn func(ctx context.Context, progress store.ProgressStore) error) error {
	return store.RunInTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, r.progress.WithTx(tx))
	})
}
