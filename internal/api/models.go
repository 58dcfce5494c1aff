package api

import (
	"github.com/google/uuid"

	"github.com/almazbisenbaev/tbilingo-app/internal/domain"
	"github.com/almazbisenbaev/tbilingo-app/internal/service/session"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint. Both tokens rotate on every refresh.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// StartSessionRequest defines the payload for starting a review session.
type StartSessionRequest struct {
	CourseID string `json:"course_id" validate:"required"`
	Review   bool   `json:"review"`
}

// AnswerRequest defines the payload for submitting a phrase answer.
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// SessionResponse is a snapshot of a live session.
type SessionResponse struct {
	ID                  uuid.UUID        `json:"id"`
	CourseID            string           `json:"course_id"`
	Variant             domain.LevelType `json:"variant"`
	Review              bool             `json:"review"`
	State               string           `json:"state"`
	Index               int              `json:"index"`
	Size                int              `json:"size"`
	TotalItems          int              `json:"total_items"`
	CurrentItem         *domain.Item     `json:"current_item,omitempty"`
	SessionLearnedCount int              `json:"session_learned_count"`
	LearnedCount        int              `json:"learned_count"`
}

// AnswerResponse pairs a phrase answer outcome with the updated session
// snapshot.
type AnswerResponse struct {
	Result  *session.AnswerResult `json:"result"`
	Session SessionResponse       `json:"session"`
}

// NewSessionResponse builds the snapshot for a session. The current item
// is included only while the session is active.
func NewSessionResponse(sess *session.Session) SessionResponse {
	resp := SessionResponse{
		ID:                  sess.ID,
		CourseID:            sess.CourseID,
		Variant:             sess.Variant,
		Review:              sess.Review,
		State:               sessionStateLabel(sess.State()),
		Index:               sess.Index(),
		Size:                sess.Len(),
		TotalItems:          sess.TotalItems(),
		SessionLearnedCount: sess.SessionLearnedCount(),
		LearnedCount:        sess.LearnedCount(),
	}
	if item, err := sess.Current(); err == nil {
		resp.CurrentItem = item
	}
	return resp
}

func sessionStateLabel(state session.State) string {
	switch state {
	case session.StateActive:
		return "active"
	case session.StateFinished:
		return "finished"
	default:
		return "idle"
	}
}
