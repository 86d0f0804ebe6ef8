package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GauravB09/Diligence-Squared-Assignment/internal/cache"
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/model"
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/repository"
)

var (
	ErrSessionNotFound = errors.New("user session not found")
	ErrNoConversation  = errors.New("no conversation id for this session")
	ErrNotConfigured   = errors.New("elevenlabs api key not configured")
	ErrUpstream        = errors.New("elevenlabs request failed")
)

// completionIndicators are transcript phrases that suggest the agent
// wrapped up the interview
var completionIndicators = []string{
	"that's all",
	"completed",
	"all questions answered",
	"concludes",
	"valuable feedback",
	"have a great day",
}

// minExchangesForCompletion: past this many agent and user turns the
// interview is considered finished even without a closing phrase
const minExchangesForCompletion = 13

// conversationResumedSeparator delimits transcripts from separate
// conversation sessions appended to the same record
func conversationResumedSeparator() string {
	line := strings.Repeat("=", 80)
	return "\n\n" + line + "\n--- Conversation Resumed ---\n" + line + "\n\n"
}

// ConversationClient fetches conversation transcripts from the voice
// provider
type ConversationClient interface {
	GetConversation(ctx context.Context, conversationID string) (*Conversation, error)
	IsConfigured() bool
}

// InterviewService tracks the voice interview tied to a user session
type InterviewService struct {
	repo        repository.SessionRepo
	cache       cache.SessionCache
	client      ConversationClient
	broadcaster Broadcaster
	log         *zap.Logger
}

// NewInterviewService creates a new interview service
func NewInterviewService(repo repository.SessionRepo, sessionCache cache.SessionCache, client ConversationClient) *InterviewService {
	return &InterviewService{
		repo:   repo,
		cache:  sessionCache,
		client: client,
		log:    zap.L().With(zap.String("component", "interview")),
	}
}

// SetBroadcaster injects the WebSocket broadcaster
func (s *InterviewService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// StartResult is returned when a conversation is started
type StartResult struct {
	ConversationID string `json:"conversation_id"`
	Status         string `json:"status"`
	Message        string `json:"message"`
}

// Start begins tracking a new conversation for the user. The survey must
// have been completed first, so the session record must already exist.
func (s *InterviewService) Start(ctx context.Context, userID string) (*StartResult, error) {
	session, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.ConversationID != "" {
		// Save the previous conversation's transcript before the new
		// tracking id overwrites it. Failure here must not block the
		// user from starting a fresh interview.
		if _, err := s.Complete(ctx, userID); err != nil {
			s.log.Warn("could not save previous transcript",
				zap.String("user_id", userID), zap.Error(err))
		}
	}

	// The ElevenLabs widget creates the actual conversation; this id
	// tracks the session until update-id reports the real one.
	conversationID := uuid.New().String()

	if err := s.repo.SetConversationID(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	s.broadcastEvent(userID, "conversation_started", map[string]string{
		"conversationId": conversationID,
	})

	return &StartResult{
		ConversationID: conversationID,
		Status:         "success",
		Message:        "Conversation started successfully",
	}, nil
}

// SessionInfo is the public view of a user session
type SessionInfo struct {
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id,omitempty"`
	Segment        string `json:"segment"`
	SurveyStatus   string `json:"survey_status"`
	Transcript     string `json:"transcript,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// GetSession returns session info, preferring the cache
func (s *InterviewService) GetSession(ctx context.Context, userID string) (*SessionInfo, error) {
	session, err := s.cache.Get(ctx, userID)
	if err != nil {
		s.log.Warn("cache read failed", zap.String("user_id", userID), zap.Error(err))
	}
	if session == nil {
		session, err = s.repo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, ErrSessionNotFound
		}
		if err := s.cache.Set(ctx, session); err != nil {
			s.log.Warn("cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	segment := session.Segment
	if segment == "" {
		segment = "Terminated"
	}
	status := string(session.SurveyStatus)
	if status == "" {
		status = string(model.StatusPending)
	}

	info := &SessionInfo{
		UserID:         session.UserID,
		ConversationID: session.ConversationID,
		Segment:        segment,
		SurveyStatus:   status,
		Transcript:     session.Transcript,
	}
	if !session.CreatedAt.IsZero() {
		info.CreatedAt = session.CreatedAt.Format(time.RFC3339)
	}
	return info, nil
}

// CompleteResult is returned after a transcript save
type CompleteResult struct {
	Status        string `json:"status"`
	Transcript    string `json:"transcript"`
	NewTranscript string `json:"new_transcript"`
	Message       string `json:"message"`
}

// Complete fetches the conversation transcript from ElevenLabs and
// appends it to the session record
func (s *InterviewService) Complete(ctx context.Context, userID string) (*CompleteResult, error) {
	if !s.client.IsConfigured() {
		return nil, ErrNotConfigured
	}

	session, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.ConversationID == "" {
		return nil, ErrNoConversation
	}

	conv, err := s.client.GetConversation(ctx, session.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	newTranscript := strings.TrimSpace(formatTranscript(conv.Transcript))
	combined := newTranscript
	if existing := strings.TrimSpace(session.Transcript); existing != "" {
		combined = session.Transcript + conversationResumedSeparator() + newTranscript
	}

	if err := s.repo.SetTranscript(ctx, userID, combined); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	s.broadcastEvent(userID, "transcript_saved", map[string]int{
		"transcriptLength": len(combined),
	})

	return &CompleteResult{
		Status:        "success",
		Transcript:    combined,
		NewTranscript: newTranscript,
		Message:       "Transcript saved successfully",
	}, nil
}

// formatTranscript renders transcript entries as "[ROLE]: text" lines
func formatTranscript(entries []TranscriptEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		text := e.Content()
		if text == "" {
			continue
		}
		role := e.Role
		if role == "" {
			role = "unknown"
		}
		sb.WriteString("[" + strings.ToUpper(role) + "]: " + text + "\n")
	}
	return sb.String()
}

// UpdateConversationID stores the real conversation id reported by the
// ElevenLabs SDK
func (s *InterviewService) UpdateConversationID(ctx context.Context, userID, conversationID string) error {
	session, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}

	if err := s.repo.SetConversationID(ctx, userID, conversationID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// CompletionStatus reports whether the interview looks finished
type CompletionStatus struct {
	IsComplete       bool   `json:"is_complete"`
	HasTranscript    bool   `json:"has_transcript"`
	TranscriptLength int    `json:"transcript_length,omitempty"`
	Message          string `json:"message"`
}

// CheckCompletion decides from the stored transcript whether the
// interview is complete: either a closing phrase appears, or both sides
// have spoken enough turns
func (s *InterviewService) CheckCompletion(ctx context.Context, userID string) (*CompletionStatus, error) {
	session, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	transcript := session.Transcript
	if strings.TrimSpace(transcript) == "" {
		return &CompletionStatus{
			IsComplete:    false,
			HasTranscript: false,
			Message:       "No transcript available",
		}, nil
	}

	lower := strings.ToLower(transcript)
	complete := false
	for _, indicator := range completionIndicators {
		if strings.Contains(lower, indicator) {
			complete = true
			break
		}
	}
	if !complete {
		agentTurns := strings.Count(transcript, "[AGENT]:")
		userTurns := strings.Count(transcript, "[USER]:")
		complete = agentTurns >= minExchangesForCompletion && userTurns >= minExchangesForCompletion
	}

	message := "Incomplete - can resume"
	if complete {
		message = "Complete"
	}
	return &CompletionStatus{
		IsComplete:       complete,
		HasTranscript:    true,
		TranscriptLength: len(transcript),
		Message:          message,
	}, nil
}

func (s *InterviewService) invalidate(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.log.Warn("cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *InterviewService) broadcastEvent(userID, event string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastSessionEvent(userID, event, payload)
	}
}
