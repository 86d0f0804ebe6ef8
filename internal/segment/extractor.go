// Package segment implements the survey segmentation rule engine. It
// extracts the configured answers from one submission and evaluates an
// ordered rule list against them to produce a (segment, status) outcome.
//
// The engine is pure: configuration is read-only after load, every
// evaluation builds its own answer map, and a missing answer is a
// non-match, never an error.
package segment

import (
	"fmt"
	"strings"

	"github.com/GauravB09/Diligence-Squared-Assignment/internal/model"
)

// AnswerMap maps logical question keys to extracted answer values. A nil
// value means the respondent did not answer the question.
type AnswerMap map[string]interface{}

// ExtractAnswers builds the answer map for one submission. For each
// configured key, the first response whose title contains the key's
// partial title (case-insensitive) wins.
func ExtractAnswers(responses []model.AnsweredQuestion, questions map[string]model.QuestionConfig) AnswerMap {
	answers := make(AnswerMap, len(questions))
	for key, q := range questions {
		answers[key] = findAnswer(responses, q)
	}
	return answers
}

func findAnswer(responses []model.AnsweredQuestion, q model.QuestionConfig) interface{} {
	partial := strings.ToLower(q.PartialTitle)
	for _, resp := range responses {
		if !strings.Contains(strings.ToLower(resp.QuestionTitle), partial) {
			continue
		}
		switch q.Type {
		case model.QuestionTypeChoice:
			return choiceLabel(resp.Answer)
		case model.QuestionTypeChoices:
			return choiceLabels(resp.Answer)
		default:
			return resp.Answer
		}
	}
	return nil
}

// choiceLabel unwraps a single-choice answer to its label. Raw values
// pass through untouched.
func choiceLabel(answer interface{}) interface{} {
	switch v := answer.(type) {
	case *model.ChoiceAnswer:
		return v.Label
	case map[string]interface{}:
		return v["label"]
	}
	return answer
}

// choiceLabels unwraps a multi-choice answer to its label list, passing
// plain lists through and wrapping a lone scalar.
func choiceLabels(answer interface{}) interface{} {
	switch v := answer.(type) {
	case *model.ChoicesAnswer:
		return v.Labels
	case map[string]interface{}:
		return toStringSlice(v["labels"])
	case []string:
		return v
	case []interface{}:
		return toStringSlice(v)
	case nil:
		return nil
	}
	return []string{stringify(answer)}
}

func toStringSlice(v interface{}) []string {
	switch list := v.(type) {
	case nil:
		return nil
	case []string:
		return list
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, stringify(item))
		}
		return out
	}
	return []string{stringify(v)}
}

func stringify(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
