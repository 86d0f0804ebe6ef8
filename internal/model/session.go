package model

import "time"

// SurveyStatus is the lifecycle state of a user's survey session
type SurveyStatus string

const (
	StatusPending    SurveyStatus = "pending"
	StatusInProgress SurveyStatus = "in_progress"
	StatusCompleted  SurveyStatus = "completed"
	StatusTerminated SurveyStatus = "terminated"
	StatusFailed     SurveyStatus = "failed"
)

// ParseSurveyStatus maps a configured status string to a known status.
// Unknown values fall back to terminated.
func ParseSurveyStatus(s string) SurveyStatus {
	if IsValidSurveyStatus(s) {
		return SurveyStatus(s)
	}
	return StatusTerminated
}

// IsValidSurveyStatus reports whether s names a known status
func IsValidSurveyStatus(s string) bool {
	switch SurveyStatus(s) {
	case StatusPending, StatusInProgress, StatusCompleted, StatusTerminated, StatusFailed:
		return true
	}
	return false
}

// UserSession is the per-user record tying a survey submission to its
// segmentation outcome and the voice interview tracked for the same user
type UserSession struct {
	ID             string       `json:"id,omitempty" bson:"_id,omitempty"`
	UserID         string       `json:"userId" bson:"user_id"`
	SurveyStatus   SurveyStatus `json:"surveyStatus" bson:"survey_status"`
	Segment        string       `json:"segment,omitempty" bson:"segment,omitempty"`
	ConversationID string       `json:"conversationId,omitempty" bson:"conversation_id,omitempty"`
	Transcript     string       `json:"transcript,omitempty" bson:"transcript,omitempty"`
	FormID         string       `json:"formId,omitempty" bson:"form_id,omitempty"`
	FormToken      string       `json:"formToken,omitempty" bson:"form_token,omitempty"`
	EventID        string       `json:"eventId,omitempty" bson:"event_id,omitempty"`
	SubmittedAt    *time.Time   `json:"submittedAt,omitempty" bson:"submitted_at,omitempty"`
	Metadata       string       `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt      time.Time    `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time    `json:"updatedAt" bson:"updated_at"`
}
