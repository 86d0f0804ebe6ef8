package model

// TypeformField is a form field/question definition
type TypeformField struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Type  string `json:"type,omitempty"`
	Ref   string `json:"ref,omitempty"`
}

// TypeformDefinition is the form definition section containing the field list
type TypeformDefinition struct {
	Fields []TypeformField `json:"fields"`
}

// FieldTitles returns a mapping of field IDs to question titles
func (d TypeformDefinition) FieldTitles() map[string]string {
	titles := make(map[string]string, len(d.Fields))
	for _, f := range d.Fields {
		titles[f.ID] = f.Title
	}
	return titles
}

// ChoiceAnswer is a single-choice answer object
type ChoiceAnswer struct {
	ID    string `json:"id,omitempty"`
	Label string `json:"label"`
	Other string `json:"other,omitempty"`
}

// ChoicesAnswer is a multi-choice answer object
type ChoicesAnswer struct {
	IDs    []string `json:"ids,omitempty"`
	Labels []string `json:"labels"`
	Other  string   `json:"other,omitempty"`
}

// TypeformAnswer is a single answer in the form response
type TypeformAnswer struct {
	Field   TypeformField  `json:"field"`
	Type    string         `json:"type"`
	Choice  *ChoiceAnswer  `json:"choice,omitempty"`
	Choices *ChoicesAnswer `json:"choices,omitempty"`
	Text    string         `json:"text,omitempty"`
	Email   string         `json:"email,omitempty"`
	URL     string         `json:"url,omitempty"`
	Number  *float64       `json:"number,omitempty"`
	Boolean *bool          `json:"boolean,omitempty"`
	Date    string         `json:"date,omitempty"`
}

// Value extracts the shape-dependent answer value
func (a TypeformAnswer) Value() interface{} {
	switch {
	case a.Choice != nil:
		return a.Choice
	case a.Choices != nil:
		return a.Choices
	case a.Number != nil:
		return *a.Number
	case a.Boolean != nil:
		return *a.Boolean
	case a.Text != "":
		return a.Text
	case a.Email != "":
		return a.Email
	case a.URL != "":
		return a.URL
	case a.Date != "":
		return a.Date
	}
	return nil
}

// AnsweredQuestion pairs an answer value with the title of the question
// it belongs to. This is the normalized input the segmentation engine
// consumes.
type AnsweredQuestion struct {
	QuestionID    string      `json:"question_id"`
	QuestionTitle string      `json:"question_title"`
	Answer        interface{} `json:"answer"`
	AnswerType    string      `json:"answer_type"`
}

// TypeformHidden is the hidden-fields section of the payload
type TypeformHidden struct {
	UserID string `json:"user_id,omitempty"`
}

// TypeformFormResponse is the form response section of the webhook
type TypeformFormResponse struct {
	FormID      string             `json:"form_id,omitempty"`
	Token       string             `json:"token,omitempty"`
	SubmittedAt string             `json:"submitted_at,omitempty"`
	Hidden      TypeformHidden     `json:"hidden"`
	Definition  TypeformDefinition `json:"definition"`
	Answers     []TypeformAnswer   `json:"answers"`
}

// AnswersWithQuestions joins answers to their question titles via the
// definition section
func (fr TypeformFormResponse) AnswersWithQuestions() []AnsweredQuestion {
	titles := fr.Definition.FieldTitles()
	result := make([]AnsweredQuestion, 0, len(fr.Answers))
	for _, ans := range fr.Answers {
		title, ok := titles[ans.Field.ID]
		if !ok || title == "" {
			title = "Unknown Question"
		}
		result = append(result, AnsweredQuestion{
			QuestionID:    ans.Field.ID,
			QuestionTitle: title,
			Answer:        ans.Value(),
			AnswerType:    ans.Type,
		})
	}
	return result
}

// TypeformWebhookPayload is the top-level webhook payload
type TypeformWebhookPayload struct {
	EventID      string               `json:"event_id"`
	EventType    string               `json:"event_type"`
	FormResponse TypeformFormResponse `json:"form_response"`
}

// UserID extracts the user id from the hidden section
func (p TypeformWebhookPayload) UserID() string {
	return p.FormResponse.Hidden.UserID
}
