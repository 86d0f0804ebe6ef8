package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/GauravB09/Diligence-Squared-Assignment/internal/service"
)

// InterviewHandler handles voice interview endpoints
type InterviewHandler struct {
	interviewSvc *service.InterviewService
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(interviewSvc *service.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewSvc: interviewSvc}
}

type startRequest struct {
	UserID string `json:"user_id"`
}

// Start handles POST /api/interview/start
func (h *InterviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	result, err := h.interviewSvc.Start(r.Context(), req.UserID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetSession handles GET /api/interview/session/{userID}
func (h *InterviewHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	info, err := h.interviewSvc.GetSession(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// Complete handles POST /api/interview/complete/{userID}
func (h *InterviewHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	result, err := h.interviewSvc.Complete(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type updateIDRequest struct {
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id"`
}

// UpdateConversationID handles POST /api/interview/update-id
func (h *InterviewHandler) UpdateConversationID(w http.ResponseWriter, r *http.Request) {
	var req updateIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.ConversationID == "" {
		writeError(w, http.StatusBadRequest, "user_id and conversation_id are required")
		return
	}

	if err := h.interviewSvc.UpdateConversationID(r.Context(), req.UserID, req.ConversationID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Conversation ID updated",
	})
}

// CheckCompletion handles GET /api/interview/check-completion/{userID}
func (h *InterviewHandler) CheckCompletion(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	status, err := h.interviewSvc.CheckCompletion(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (h *InterviewHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "user session not found")
	case errors.Is(err, service.ErrNoConversation):
		writeError(w, http.StatusNotFound, "no conversation found for this user")
	case errors.Is(err, service.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, "voice provider not configured")
	case errors.Is(err, service.ErrUpstream):
		writeError(w, http.StatusBadGateway, "voice provider request failed")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
