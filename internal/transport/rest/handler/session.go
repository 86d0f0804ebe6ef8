package handler

import (
	"net/http"
	"strconv"

	"github.com/GauravB09/Diligence-Squared-Assignment/internal/repository"
)

// SessionHandler handles admin session listing
type SessionHandler struct {
	repo repository.SessionRepo
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(repo repository.SessionRepo) *SessionHandler {
	return &SessionHandler{repo: repo}
}

// List handles GET /v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 50)
	if limit > 200 {
		limit = 200
	}
	offset := parseQueryInt(r, "offset", 0)

	sessions, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func parseQueryInt(r *http.Request, key string, def int64) int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return def
	}
	return v
}
