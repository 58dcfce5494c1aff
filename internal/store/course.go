package store

import (
	"context"

	"github.com/almazbisenbaev/tbilingo-app/internal/domain"
)

// CourseStore defines read access to course metadata.
type CourseStore interface {
	// GetByID retrieves a course by its ID.
	// Returns ErrCourseNotFound if the course does not exist.
	GetByID(ctx context.Context, courseID string) (*domain.Course, error)
}

// ItemStore defines read access to the learnable items of a course.
type ItemStore interface {
	// ListByCourse retrieves all items of a course in the canonical
	// ascending ID order, with IDs normalized to their string form.
	// Returns an empty slice for a course with no items; the session
	// layer decides what that means.
	ListByCourse(ctx context.Context, courseID string) ([]domain.Item, error)
}
