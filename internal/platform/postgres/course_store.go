package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/almazbisenbaev/tbilingo-app/internal/domain"
	"github.com/almazbisenbaev/tbilingo-app/internal/store"
)

// PostgresCourseStore implements store.CourseStore on PostgreSQL.
type PostgresCourseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCourseStore creates a PostgreSQL CourseStore. The connection
// is initialized and managed by the caller. A nil logger falls back to
// the default.
func NewPostgresCourseStore(db store.DBTX, logger *slog.Logger) *PostgresCourseStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCourseStore{
		db:     db,
		logger: logger.With(slog.String("component", "course_store")),
	}
}

var _ store.CourseStore = (*PostgresCourseStore)(nil)

// GetByID implements store.CourseStore.GetByID.
// Returns store.ErrCourseNotFound if the course does not exist.
func (s *PostgresCourseStore) GetByID(ctx context.Context, courseID string) (*domain.Course, error) {
	var course domain.Course
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, icon, type
		 FROM courses
		 WHERE id = $1`,
		courseID,
	).Scan(&course.ID, &course.Title, &course.Description, &course.Icon, &course.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to query course: %w", err)
	}
	return &course, nil
}
