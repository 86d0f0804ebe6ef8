package model

// Operators for segmentation rule conditions. The set is closed: config
// validation rejects anything else at load time.
const (
	OperatorEquals      = "equals"
	OperatorIn          = "in"
	OperatorContains    = "contains"
	OperatorContainsAny = "contains_any"
	OperatorNotContains = "not_contains"
)

// Question answer shapes as they appear in the configuration file. Any
// other value means the raw answer passes through untouched.
const (
	QuestionTypeChoice  = "choice"
	QuestionTypeChoices = "choices"
)

// QuestionConfig maps a logical question key to a real survey question.
// PartialTitle is matched as a case-insensitive substring against the
// displayed question title, which keeps the config stable across survey
// copy edits.
type QuestionConfig struct {
	PartialTitle string `json:"partial_title"`
	Type         string `json:"type"`
}

// Condition is one predicate inside a segmentation rule
type Condition struct {
	Operator string   `json:"operator"`
	Values   []string `json:"values,omitempty"`
	Exclude  []string `json:"exclude,omitempty"`
	Type     string   `json:"type,omitempty"`
}

// IsList reports whether the condition targets a list-valued answer
func (c Condition) IsList() bool {
	return c.Type == "list"
}

// SegmentRule maps an answer pattern to a segment/status outcome. All
// conditions must hold for the rule to fire.
type SegmentRule struct {
	Conditions map[string]Condition `json:"conditions"`
	Segment    string               `json:"segment"`
	Status     string               `json:"status"`
}

// Segmentation is the ordered rule list plus the terminal fallback.
// Earlier rules win.
type Segmentation struct {
	Rules          []SegmentRule `json:"rules"`
	DefaultSegment string        `json:"default_segment"`
	DefaultStatus  string        `json:"default_status"`
}

// SurveyConfig is the full survey configuration, loaded once at startup
// and read-only afterwards
type SurveyConfig struct {
	Questions    map[string]QuestionConfig `json:"questions"`
	Segmentation Segmentation              `json:"segmentation"`
}

// Outcome is the segmentation result for one submission
type Outcome struct {
	Segment string       `json:"segment"`
	Status  SurveyStatus `json:"status"`
}
