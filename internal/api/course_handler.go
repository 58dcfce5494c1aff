package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/almazbisenbaev/tbilingo-app/internal/api/shared"
	"github.com/almazbisenbaev/tbilingo-app/internal/events"
	"github.com/almazbisenbaev/tbilingo-app/internal/service/progress"
	"github.com/almazbisenbaev/tbilingo-app/internal/store"
)

// CourseHandler serves course metadata, item lists, and progress reads,
// and accepts the story-variant completion signal.
type CourseHandler struct {
	courses  store.CourseStore
	items    store.ItemStore
	progress *progress.Service
	emitter  events.Emitter
}

// NewCourseHandler creates a new CourseHandler with the given dependencies.
func NewCourseHandler(
	courses store.CourseStore,
	items store.ItemStore,
	progressService *progress.Service,
	emitter events.Emitter,
) *CourseHandler {
	return &CourseHandler{
		courses:  courses,
		items:    items,
		progress: progressService,
		emitter:  emitter,
	}
}

// GetCourse handles GET /api/courses/{courseID}.
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	course, err := h.courses.GetByID(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, store.ErrCourseNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Course not found")
			return
		}
		slog.Error("failed to get course", "error", err, "course_id", courseID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to get course")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, course)
}

// ListItems handles GET /api/courses/{courseID}/items. Items come back in
// the canonical ascending ID order.
func (h *CourseHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	if _, err := h.courses.GetByID(r.Context(), courseID); err != nil {
		if errors.Is(err, store.ErrCourseNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Course not found")
			return
		}
		slog.Error("failed to get course", "error", err, "course_id", courseID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to list items")
		return
	}

	items, err := h.items.ListByCourse(r.Context(), courseID)
	if err != nil {
		slog.Error("failed to list course items", "error", err, "course_id", courseID)
		shared.RespondWithErrorCode(w, r, http.StatusBadGateway, "Failed to load items, try again", "retryable")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, items)
}

// GetProgress handles GET /api/courses/{courseID}/progress. An absent
// record reads as an empty one, never as an error.
func (h *CourseHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	courseID := chi.URLParam(r, "courseID")

	record := h.progress.Read(r.Context(), userID, courseID)
	shared.RespondWithJSON(w, r, http.StatusOK, record)
}

// Finish handles POST /api/courses/{courseID}/finish: the story variant's
// read-to-the-end completion. The write is dispatched asynchronously, so
// the response only acknowledges acceptance.
func (h *CourseHandler) Finish(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	courseID := chi.URLParam(r, "courseID")

	if _, err := h.courses.GetByID(r.Context(), courseID); err != nil {
		if errors.Is(err, store.ErrCourseNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Course not found")
			return
		}
		slog.Error("failed to get course", "error", err, "course_id", courseID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to finish course")
		return
	}

	event := events.NewProgressEvent(events.KindCourseFinished, userID, courseID, "", 0)
	if err := h.emitter.Emit(r.Context(), event); err != nil {
		slog.Error("failed to emit course finished event",
			"error", err,
			"user_id", userID,
			"course_id", courseID)
	}

	w.WriteHeader(http.StatusAccepted)
}
