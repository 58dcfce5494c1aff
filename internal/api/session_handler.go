package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/almazbisenbaev/tbilingo-app/internal/api/shared"
	"github.com/almazbisenbaev/tbilingo-app/internal/service/session"
	"github.com/almazbisenbaev/tbilingo-app/internal/store"
)

// SessionHandler drives the review-session lifecycle over HTTP.
type SessionHandler struct {
	manager   *session.Manager
	validator *validator.Validate
}

// NewSessionHandler creates a new SessionHandler with the given dependencies.
func NewSessionHandler(manager *session.Manager) *SessionHandler {
	return &SessionHandler{
		manager:   manager,
		validator: validator.New(),
	}
}

// Start handles POST /api/sessions. A fully learned course refuses a
// regular session with a course_complete conflict; the client then offers
// the user a review session instead.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	sess, err := h.manager.StartSession(r.Context(), userID, req.CourseID, req.Review)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrCourseComplete):
			shared.RespondWithErrorCode(w, r, http.StatusConflict,
				"All items already learned", "course_complete")
		case errors.Is(err, session.ErrNoItems):
			shared.RespondWithErrorCode(w, r, http.StatusConflict,
				"Course has no items", "no_items")
		case errors.Is(err, store.ErrCourseNotFound):
			shared.RespondWithError(w, r, http.StatusNotFound, "Course not found")
		default:
			slog.Error("failed to start session",
				"error", err,
				"user_id", userID,
				"course_id", req.CourseID)
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to start session")
		}
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewSessionResponse(sess))
}

// Get handles GET /api/sessions/{sessionID}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(sess *session.Session) (*session.Session, error) {
		return sess, nil
	})
}

// Advance handles POST /api/sessions/{sessionID}/advance.
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.ids(w, r)
	if !ok {
		return
	}

	sess, err := h.manager.Advance(sessionID, userID)
	if err != nil {
		h.respondSessionError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewSessionResponse(sess))
}

// Learned handles POST /api/sessions/{sessionID}/learned: the one-way
// "I know this" action of the characters/numbers/words variants.
func (h *SessionHandler) Learned(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.ids(w, r)
	if !ok {
		return
	}

	sess, err := h.manager.RecordLearned(r.Context(), sessionID, userID)
	if err != nil {
		h.respondSessionError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewSessionResponse(sess))
}

// Answer handles POST /api/sessions/{sessionID}/answer: a phrase-variant
// sentence check. The cursor stays put so the client can show feedback
// before advancing.
func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.ids(w, r)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	sess, result, err := h.manager.RecordAnswer(r.Context(), sessionID, userID, req.Answer)
	if err != nil {
		h.respondSessionError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, AnswerResponse{
		Result:  result,
		Session: NewSessionResponse(sess),
	})
}

// Abort handles DELETE /api/sessions/{sessionID}.
func (h *SessionHandler) Abort(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.ids(w, r)
	if !ok {
		return
	}

	if err := h.manager.Abort(sessionID, userID); err != nil {
		h.respondSessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) withSession(w http.ResponseWriter, r *http.Request, fn func(*session.Session) (*session.Session, error)) {
	userID, sessionID, ok := h.ids(w, r)
	if !ok {
		return
	}

	sess, err := h.manager.Get(sessionID, userID)
	if err != nil {
		h.respondSessionError(w, r, err)
		return
	}
	sess, err = fn(sess)
	if err != nil {
		h.respondSessionError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewSessionResponse(sess))
}

func (h *SessionHandler) ids(w http.ResponseWriter, r *http.Request) (userID, sessionID uuid.UUID, ok bool) {
	userID, authed := getUserIDFromContext(r)
	if !authed {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	sessionID, err := getPathUUID(r, "sessionID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return uuid.Nil, uuid.Nil, false
	}
	return userID, sessionID, true
}

func (h *SessionHandler) respondSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		shared.RespondWithError(w, r, http.StatusNotFound, "Session not found")
	case errors.Is(err, session.ErrSessionNotOwned):
		shared.RespondWithError(w, r, http.StatusForbidden, "Session belongs to another user")
	case errors.Is(err, session.ErrSessionNotActive):
		shared.RespondWithErrorCode(w, r, http.StatusConflict,
			"Session is not active", "session_not_active")
	case errors.Is(err, session.ErrWrongVariant):
		shared.RespondWithErrorCode(w, r, http.StatusUnprocessableEntity,
			"Operation does not apply to this course variant", "wrong_variant")
	default:
		slog.Error("session operation failed", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Session operation failed")
	}
}
