package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/GauravB09/Diligence-Squared-Assignment/internal/model"
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/service"
)

// WebhookHandler handles Typeform webhook submissions
type WebhookHandler struct {
	webhookSvc *service.WebhookService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhookSvc *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookSvc: webhookSvc}
}

// Receive handles POST /webhook
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var payload model.TypeformWebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid webhook payload")
		return
	}

	result, err := h.webhookSvc.Process(r.Context(), &payload)
	if err != nil {
		zap.L().Error("webhook processing failed",
			zap.String("event_id", payload.EventID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to process webhook")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
