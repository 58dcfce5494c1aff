// Package progress implements the progress store contract: reading a
// user's per-course record with a safe empty fallback, and the
// transactional read-modify-write mutations that keep concurrent
// sessions from clobbering each other's writes.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/almazbisenbaev/tbilingo-app/internal/domain"
	"github.com/almazbisenbaev/tbilingo-app/internal/platform/logger"
	"github.com/almazbisenbaev/tbilingo-app/internal/store"
)

// Service mediates all access to progress records. Every mutation fetches
// the latest stored record inside a transaction before writing, so the
// in-memory mirror a session holds is never treated as authoritative for
// the write path.
type Service struct {
	progress store.ProgressStore
	txRunner store.ProgressTxRunner
	items    store.ItemStore
	logger   *slog.Logger
}

// NewService creates a progress Service.
func NewService(progressStore store.ProgressStore, txRunner store.ProgressTxRunner, itemStore store.ItemStore, log *slog.Logger) *Service {
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if txRunner == nil {
		panic("txRunner cannot be nil")
	}
	if itemStore == nil {
		panic("itemStore cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		progress: progressStore,
		txRunner: txRunner,
		items:    itemStore,
		logger:   log.With(slog.String("component", "progress_service")),
	}
}

// Read returns the user's progress for a course. An absent record or a
// read failure both degrade to an empty record: the session proceeds on
// the conservative "nothing learned yet" assumption, and a failure is
// logged rather than surfaced. An anonymous user always reads empty.
func (s *Service) Read(ctx context.Context, userID uuid.UUID, courseID string) *domain.ProgressRecord {
	if userID == uuid.Nil {
		return domain.NewProgressRecord(userID, courseID)
	}

	record, err := s.progress.Get(ctx, userID, courseID)
	if err != nil {
		if !errors.Is(err, store.ErrProgressNotFound) {
			log := logger.FromContextOrDefault(ctx, s.logger)
			log.Error("failed to read progress, falling back to empty",
				"error", err,
				"user_id", userID,
				"course_id", courseID)
		}
		return domain.NewProgressRecord(userID, courseID)
	}
	return record
}

// ApplyLearned adds the item to the user's learned set and recomputes the
// completion flag. Idempotent: applying an already-learned item changes
// nothing. Anonymous users are a silent no-op.
func (s *Service) ApplyLearned(ctx context.Context, userID uuid.UUID, courseID, itemID string) error {
	if userID == uuid.Nil {
		return nil
	}

	itemID = domain.NormalizeItemID(itemID)
	total, err := s.countItems(ctx, courseID)
	if err != nil {
		return err
	}

	return s.mutate(ctx, userID, courseID, func(record *domain.ProgressRecord) {
		record.Learn(itemID)
		record.RecomputeFinished(total)
	})
}

// ApplyMasteryDelta adjusts the item's mastery counter by delta, clamped
// to the [0,3] bounds, keeping learned-set membership in lockstep with
// the counter-at-cap rule. Used only by the phrases variant. Anonymous
// users are a silent no-op.
func (s *Service) ApplyMasteryDelta(ctx context.Context, userID uuid.UUID, courseID, itemID string, delta int) error {
	if userID == uuid.Nil {
		return nil
	}

	itemID = domain.NormalizeItemID(itemID)
	total, err := s.countItems(ctx, courseID)
	if err != nil {
		return err
	}

	return s.mutate(ctx, userID, courseID, func(record *domain.ProgressRecord) {
		record.SetMastery(itemID, record.Mastery(itemID)+delta)
		record.RecomputeFinished(total)
	})
}

// MarkFinished sets the completion flag directly, without learned-id
// accounting. The story variant finishes this way: reading the last slide
// completes the course. Anonymous users are a silent no-op.
func (s *Service) MarkFinished(ctx context.Context, userID uuid.UUID, courseID string) error {
	if userID == uuid.Nil {
		return nil
	}

	return s.mutate(ctx, userID, courseID, func(record *domain.ProgressRecord) {
		record.IsFinished = true
	})
}

// mutate runs one read-modify-write cycle in a transaction: fetch the
// latest record (or start empty), apply fn, save with merge semantics.
func (s *Service) mutate(ctx context.Context, userID uuid.UUID, courseID string, fn func(*domain.ProgressRecord)) error {
	return s.txRunner.RunProgressTx(ctx, func(ctx context.Context, progressStore store.ProgressStore) error {
		record, err := progressStore.Get(ctx, userID, courseID)
		if err != nil {
			if !errors.Is(err, store.ErrProgressNotFound) {
				return fmt.Errorf("failed to get progress: %w", err)
			}
			record = domain.NewProgressRecord(userID, courseID)
		}

		fn(record)

		if err := progressStore.Save(ctx, record); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}
		return nil
	})
}

func (s *Service) countItems(ctx context.Context, courseID string) (int, error) {
	items, err := s.items.ListByCourse(ctx, courseID)
	if err != nil {
		return 0, fmt.Errorf("failed to count course items: %w", err)
	}
	return len(items), nil
}
