package service

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/GauravB09/Diligence-Squared-Assignment/internal/cache"
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/model"
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/repository"
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/segment"
)

// WebhookService processes Typeform submissions: it classifies the
// respondent and persists the result on the user session
type WebhookService struct {
	resolver    *segment.Resolver
	repo        repository.SessionRepo
	cache       cache.SessionCache
	broadcaster Broadcaster
	log         *zap.Logger
}

// NewWebhookService creates a new webhook service
func NewWebhookService(resolver *segment.Resolver, repo repository.SessionRepo, sessionCache cache.SessionCache) *WebhookService {
	return &WebhookService{
		resolver: resolver,
		repo:     repo,
		cache:    sessionCache,
		log:      zap.L().With(zap.String("component", "webhook")),
	}
}

// SetBroadcaster injects the WebSocket broadcaster
func (s *WebhookService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// WebhookResult is the acknowledgment returned to Typeform
type WebhookResult struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`

	UserID  string        `json:"-"`
	Outcome model.Outcome `json:"-"`
}

// Process resolves the submission to a segment and upserts the session.
// Payloads without a user id in hidden fields are acknowledged but not
// stored, so Typeform does not retry them.
func (s *WebhookService) Process(ctx context.Context, payload *model.TypeformWebhookPayload) (*WebhookResult, error) {
	userID := payload.UserID()
	if userID == "" {
		s.log.Warn("webhook without user id in hidden fields",
			zap.String("event_id", payload.EventID))
		return &WebhookResult{Status: "ignored", Reason: "invalid_user_id"}, nil
	}

	answered := payload.FormResponse.AnswersWithQuestions()
	outcome := s.resolver.Resolve(answered)

	s.log.Info("segment resolved",
		zap.String("user_id", userID),
		zap.String("segment", outcome.Segment),
		zap.String("survey_status", string(outcome.Status)),
		zap.Int("answers", len(answered)))

	submittedAt := time.Now().UTC()
	if t, err := time.Parse(time.RFC3339, payload.FormResponse.SubmittedAt); err == nil {
		submittedAt = t
	}

	session := &model.UserSession{
		UserID:       userID,
		SurveyStatus: outcome.Status,
		Segment:      outcome.Segment,
		FormID:       payload.FormResponse.FormID,
		FormToken:    payload.FormResponse.Token,
		EventID:      payload.EventID,
		SubmittedAt:  &submittedAt,
	}
	if err := s.repo.UpsertSurveyResult(ctx, session); err != nil {
		return nil, eris.Wrap(err, "webhook: persist session")
	}

	if err := s.cache.Delete(ctx, userID); err != nil {
		s.log.Warn("cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastSessionEvent(userID, "segment_resolved", map[string]string{
			"segment":      outcome.Segment,
			"surveyStatus": string(outcome.Status),
		})
	}

	return &WebhookResult{Status: "success", UserID: userID, Outcome: outcome}, nil
}
