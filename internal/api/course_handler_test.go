package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almazbisenbaev/tbilingo-app/internal/api/shared"
	"github.com/almazbisenbaev/tbilingo-app/internal/domain"
	"github.com/almazbisenbaev/tbilingo-app/internal/events"
	"github.com/almazbisenbaev/tbilingo-app/internal/mocks"
	"github.com/almazbisenbaev/tbilingo-app/internal/service/progress"
)

type courseAPIFixture struct {
	handler  *CourseHandler
	courses  *mocks.MockCourseStore
	items    *mocks.MockItemStore
	progress *mocks.MockProgressStore
	emitter  *mocks.MockEmitter
	userID   uuid.UUID
}

func newCourseAPIFixture(t *testing.T) *courseAPIFixture {
	t.Helper()

	courses := mocks.NewMockCourseStore()
	items := mocks.NewMockItemStore()
	progressStore := mocks.NewMockProgressStore()
	emitter := &mocks.MockEmitter{}
	progressService := progress.NewService(progressStore, mocks.NewMockProgressTxRunner(progressStore), items, nil)

	return &courseAPIFixture{
		handler:  NewCourseHandler(courses, items, progressService, emitter),
		courses:  courses,
		items:    items,
		progress: progressStore,
		emitter:  emitter,
		userID:   uuid.New(),
	}
}

func (f *courseAPIFixture) request(t *testing.T, method, courseID string, authed bool) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, "/api/courses/"+courseID, nil)
	ctx := req.Context()
	if authed {
		ctx = context.WithValue(ctx, shared.UserIDContextKey, f.userID)
	}
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("courseID", courseID)
	ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	return req.WithContext(ctx)
}

func TestGetCourse(t *testing.T) {
	t.Parallel()

	f := newCourseAPIFixture(t)
	f.courses.Courses["alphabet"] = &domain.Course{ID: "alphabet", Title: "Alphabet", Type: domain.LevelTypeCharacters}

	rec := httptest.NewRecorder()
	f.handler.GetCourse(rec, f.request(t, http.MethodGet, "alphabet", true))
	require.Equal(t, http.StatusOK, rec.Code)

	var course domain.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &course))
	assert.Equal(t, "Alphabet", course.Title)
}

func TestGetCourseNotFound(t *testing.T) {
	t.Parallel()

	f := newCourseAPIFixture(t)
	rec := httptest.NewRecorder()
	f.handler.GetCourse(rec, f.request(t, http.MethodGet, "missing", true))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListItemsReturnsCanonicalOrder(t *testing.T) {
	t.Parallel()

	f := newCourseAPIFixture(t)
	f.courses.Courses["numbers"] = &domain.Course{ID: "numbers", Type: domain.LevelTypeNumbers}
	f.items.Items["numbers"] = []domain.Item{
		{ID: "10", CourseID: "numbers", Type: domain.LevelTypeNumbers, Payload: []byte(`{}`)},
		{ID: "2", CourseID: "numbers", Type: domain.LevelTypeNumbers, Payload: []byte(`{}`)},
	}

	rec := httptest.NewRecorder()
	f.handler.ListItems(rec, f.request(t, http.MethodGet, "numbers", true))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []domain.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "2", items[0].ID)
	assert.Equal(t, "10", items[1].ID)
}

func TestListItemsFetchFailureIsRetryable(t *testing.T) {
	t.Parallel()

	f := newCourseAPIFixture(t)
	f.courses.Courses["numbers"] = &domain.Course{ID: "numbers", Type: domain.LevelTypeNumbers}
	f.items.Err = assert.AnError

	rec := httptest.NewRecorder()
	f.handler.ListItems(rec, f.request(t, http.MethodGet, "numbers", true))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var errResp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "retryable", errResp.Code)
}

func TestGetProgressAbsentReadsEmpty(t *testing.T) {
	t.Parallel()

	f := newCourseAPIFixture(t)

	rec := httptest.NewRecorder()
	f.handler.GetProgress(rec, f.request(t, http.MethodGet, "alphabet", true))
	require.Equal(t, http.StatusOK, rec.Code)

	var record domain.ProgressRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Empty(t, record.LearnedItemIDs)
	assert.False(t, record.IsFinished)
}

func TestGetProgressRequiresAuth(t *testing.T) {
	t.Parallel()

	f := newCourseAPIFixture(t)
	rec := httptest.NewRecorder()
	f.handler.GetProgress(rec, f.request(t, http.MethodGet, "alphabet", false))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFinishEmitsCourseFinished(t *testing.T) {
	t.Parallel()

	f := newCourseAPIFixture(t)
	f.courses.Courses["story-1"] = &domain.Course{ID: "story-1", Type: domain.LevelTypeStory}

	rec := httptest.NewRecorder()
	f.handler.Finish(rec, f.request(t, http.MethodPost, "story-1", true))
	require.Equal(t, http.StatusAccepted, rec.Code)

	emitted := f.emitter.Emitted()
	require.Len(t, emitted, 1)
	assert.Equal(t, events.KindCourseFinished, emitted[0].Kind)
	assert.Equal(t, f.userID, emitted[0].UserID)
	assert.Equal(t, "story-1", emitted[0].CourseID)
}

func TestFinishUnknownCourse(t *testing.T) {
	t.Parallel()

	f := newCourseAPIFixture(t)
	rec := httptest.NewRecorder()
	f.handler.Finish(rec, f.request(t, http.MethodPost, "missing", true))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Empty(t, f.emitter.Emitted())
}
