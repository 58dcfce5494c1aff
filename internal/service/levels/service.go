package levels

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/almazbisenbaev/tbilingo-app/internal/domain"
	"github.com/almazbisenbaev/tbilingo-app/internal/store"
)

// ProgressReader is the read-side slice of the progress service the
// overview needs.
type ProgressReader interface {
	Read(ctx context.Context, userID uuid.UUID, courseID string) *domain.ProgressRecord
}

// Status is one level's aggregate state for the level map screen.
type Status struct {
	Level           domain.Level `json:"level"`
	Description     string       `json:"description,omitempty"`
	TotalItems      int          `json:"total_items"`
	LearnedItems    int          `json:"learned_items"`
	Completed       bool         `json:"completed"`
	Locked          bool         `json:"locked"`
	ProgressPercent int          `json:"progress_percent"`
}

// Service aggregates per-level progress across the whole learning path.
type Service struct {
	registry Registry
	courses  store.CourseStore
	items    store.ItemStore
	progress ProgressReader
	logger   *slog.Logger
}

// NewService creates a levels Service over the given registry.
func NewService(registry Registry, courses store.CourseStore, items store.ItemStore, progress ProgressReader, log *slog.Logger) *Service {
	if len(registry) == 0 {
		panic("registry cannot be empty")
	}
	if courses == nil {
		panic("courses cannot be nil")
	}
	if items == nil {
		panic("items cannot be nil")
	}
	if progress == nil {
		panic("progress cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		registry: registry,
		courses:  courses,
		items:    items,
		progress: progress,
		logger:   log.With(slog.String("component", "levels_service")),
	}
}

// Registry returns the declared learning path.
func (s *Service) Registry() Registry { return s.registry }

// Overview computes the gated level map for one user: per level, the
// item total, the learned count, completion, and the lock state derived
// from the prerequisite chain. Course metadata from the store overrides
// the registry's static title/description/icon/type where present.
// Failures on a single level degrade that level to an empty, safe state
// rather than failing the whole overview.
func (s *Service) Overview(ctx context.Context, userID uuid.UUID) []Status {
	statuses := make([]Status, 0, len(s.registry))
	progressByLevelID := make(map[string]*domain.ProgressRecord, len(s.registry))
	totalsByLevelID := make(map[string]int, len(s.registry))

	for _, level := range s.registry {
		status := Status{Level: level}

		course, err := s.courses.GetByID(ctx, level.CourseID)
		if err != nil {
			if !errors.Is(err, store.ErrCourseNotFound) {
				s.logger.Error("failed to load course for level",
					"error", err,
					"level_id", level.ID,
					"course_id", level.CourseID)
			}
		} else {
			if course.Title != "" {
				status.Level.Title = course.Title
			}
			if course.Icon != "" {
				status.Level.Icon = course.Icon
			}
			if course.Type.Valid() {
				status.Level.Type = course.Type
			}
			status.Description = course.Description
		}

		items, err := s.items.ListByCourse(ctx, level.CourseID)
		if err != nil {
			s.logger.Error("failed to list items for level",
				"error", err,
				"level_id", level.ID,
				"course_id", level.CourseID)
		} else {
			status.TotalItems = len(items)
		}
		totalsByLevelID[level.ID] = status.TotalItems

		record := s.progress.Read(ctx, userID, level.CourseID)
		progressByLevelID[level.ID] = record

		status.LearnedItems = len(record.LearnedItemIDs)
		status.Completed = effectivelyComplete(record, status.TotalItems)
		if status.TotalItems > 0 {
			pct := status.LearnedItems * 100 / status.TotalItems
			if status.Completed {
				pct = 100
			}
			status.ProgressPercent = min(pct, 100)
		} else if status.Completed {
			status.ProgressPercent = 100
		}

		statuses = append(statuses, status)
	}

	// Locks resolve after all records are in hand: a level may reference
	// any earlier (or later) level as its prerequisite.
	for i := range statuses {
		statuses[i].Locked = IsLocked(&statuses[i].Level, progressByLevelID, totalsByLevelID)
	}

	return statuses
}

// Level returns the registry entry with the given ID.
func (s *Service) Level(id string) (*domain.Level, error) {
	level, ok := s.registry.ByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: level %s", store.ErrNotFound, id)
	}
	return level, nil
}
