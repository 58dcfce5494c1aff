package mocks

import (
	"context"

	"github.com/almazbisenbaev/tbilingo-app/internal/domain"
	"github.com/almazbisenbaev/tbilingo-app/internal/store"
)

// MockCourseStore implements store.CourseStore for testing
type MockCourseStore struct {
	// GetByIDFn allows test cases to mock the GetByID behavior
	GetByIDFn func(ctx context.Context, courseID string) (*domain.Course, error)

	// Data for default implementation, keyed by course ID
	Courses map[string]*domain.Course
}

// NewMockCourseStore creates a new mock store with initialized defaults
func NewMockCourseStore() *MockCourseStore {
	return &MockCourseStore{
		Courses: make(map[string]*domain.Course),
	}
}

var _ store.CourseStore = (*MockCourseStore)(nil)

// GetByID implements the store.CourseStore interface
func (m *MockCourseStore) GetByID(ctx context.Context, courseID string) (*domain.Course, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, courseID)
	}

	course, exists := m.Courses[courseID]
	if !exists {
		return nil, store.ErrCourseNotFound
	}
	return course, nil
}

// MockItemStore implements store.ItemStore for testing
type MockItemStore struct {
	// ListByCourseFn allows test cases to mock the ListByCourse behavior
	ListByCourseFn func(ctx context.Context, courseID string) ([]domain.Item, error)

	// Data for default implementation, keyed by course ID
	Items map[string][]domain.Item
	Err   error
}

// NewMockItemStore creates a new mock store with initialized defaults
func NewMockItemStore() *MockItemStore {
	return &MockItemStore{
		Items: make(map[string][]domain.Item),
	}
}

var _ store.ItemStore = (*MockItemStore)(nil)

// ListByCourse implements the store.ItemStore interface
func (m *MockItemStore) ListByCourse(ctx context.Context, courseID string) ([]domain.Item, error) {
	if m.ListByCourseFn != nil {
		return m.ListByCourseFn(ctx, courseID)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	items := make([]domain.Item, len(m.Items[courseID]))
	copy(items, m.Items[courseID])
	domain.SortItems(items)
	return items, nil
}
