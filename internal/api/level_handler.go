package api

import (
	"net/http"

	"github.com/almazbisenbaev/tbilingo-app/internal/api/shared"
	"github.com/almazbisenbaev/tbilingo-app/internal/service/levels"
)

// LevelHandler serves the gated level map.
type LevelHandler struct {
	levels *levels.Service
}

// NewLevelHandler creates a new LevelHandler with the given dependencies.
func NewLevelHandler(levelService *levels.Service) *LevelHandler {
	return &LevelHandler{levels: levelService}
}

// Overview handles GET /api/levels: every level on the learning path with
// the authenticated user's totals, completion, and lock state.
func (h *LevelHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	statuses := h.levels.Overview(r.Context(), userID)
	shared.RespondWithJSON(w, r, http.StatusOK, statuses)
}
