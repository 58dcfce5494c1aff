package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/almazbisenbaev/tbilingo-app/internal/domain"
	"github.com/almazbisenbaev/tbilingo-app/internal/store"
)

// PostgresProgressStore implements store.ProgressStore on PostgreSQL.
// The learned-id list and mastery counters are stored as JSONB documents,
// matching their shape in the domain record.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a PostgreSQL ProgressStore.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// WithTx implements store.ProgressStore.WithTx.
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{
		db:     tx,
		logger: s.logger,
	}
}

// Get implements store.ProgressStore.Get.
// Returns store.ErrProgressNotFound if no record has been written yet.
func (s *PostgresProgressStore) Get(ctx context.Context, userID uuid.UUID, courseID string) (*domain.ProgressRecord, error) {
	var (
		record      domain.ProgressRecord
		learnedJSON []byte
		masteryJSON []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, course_id, learned_item_ids, item_progress, is_finished, created_at, last_updated
		 FROM course_progress
		 WHERE user_id = $1 AND course_id = $2`,
		userID, courseID,
	).Scan(&record.UserID, &record.CourseID, &learnedJSON, &masteryJSON,
		&record.IsFinished, &record.CreatedAt, &record.LastUpdated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to query progress record: %w", err)
	}

	if err := json.Unmarshal(learnedJSON, &record.LearnedItemIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal learned item IDs: %w", err)
	}
	if err := json.Unmarshal(masteryJSON, &record.ItemProgress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item progress: %w", err)
	}
	if record.LearnedItemIDs == nil {
		record.LearnedItemIDs = []string{}
	}
	if record.ItemProgress == nil {
		record.ItemProgress = map[string]int{}
	}
	record.NormalizeIDs()
	return &record, nil
}

// Save implements store.ProgressStore.Save. The upsert preserves
// created_at from the first write and refreshes last_updated; all other
// fields take the incoming record's values.
func (s *PostgresProgressStore) Save(ctx context.Context, record *domain.ProgressRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	learnedJSON, err := json.Marshal(record.LearnedItemIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal learned item IDs: %w", err)
	}
	masteryJSON, err := json.Marshal(record.ItemProgress)
	if err != nil {
		return fmt.Errorf("failed to marshal item progress: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO course_progress (user_id, course_id, learned_item_ids, item_progress, is_finished, created_at, last_updated)
		 VALUES ($1, $2, $3, $4, $5, now(), now())
		 ON CONFLICT (user_id, course_id) DO UPDATE SET
		   learned_item_ids = EXCLUDED.learned_item_ids,
		   item_progress = EXCLUDED.item_progress,
		   is_finished = EXCLUDED.is_finished,
		   last_updated = now()`,
		record.UserID, record.CourseID, learnedJSON, masteryJSON, record.IsFinished,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert progress record: %w", err)
	}
	return nil
}
