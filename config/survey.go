package config

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/GauravB09/Diligence-Squared-Assignment/internal/model"
)

// LoadSurveyConfig reads and validates the survey configuration file.
// Configuration defects surface here, at startup, never per request.
func LoadSurveyConfig(path string) (*model.SurveyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "survey config: read file")
	}

	var cfg model.SurveyConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, eris.Wrap(err, "survey config: parse json")
	}

	if err := ValidateSurveyConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateSurveyConfig checks the rule set for shape defects: rules that
// reference unknown questions, operators outside the closed set, empty
// expectations, and unknown statuses
func ValidateSurveyConfig(cfg *model.SurveyConfig) error {
	if len(cfg.Questions) == 0 {
		return eris.New("survey config: no questions configured")
	}
	for key, q := range cfg.Questions {
		if q.PartialTitle == "" {
			return eris.Errorf("survey config: question %q has no partial_title", key)
		}
	}

	seg := cfg.Segmentation
	if seg.DefaultSegment == "" {
		return eris.New("survey config: default_segment is required")
	}
	if !model.IsValidSurveyStatus(seg.DefaultStatus) {
		return eris.Errorf("survey config: unknown default_status %q", seg.DefaultStatus)
	}

	for i, rule := range seg.Rules {
		if rule.Segment == "" {
			return eris.Errorf("survey config: rule %d has no segment", i)
		}
		if !model.IsValidSurveyStatus(rule.Status) {
			return eris.Errorf("survey config: rule %d has unknown status %q", i, rule.Status)
		}
		for key, cond := range rule.Conditions {
			if _, ok := cfg.Questions[key]; !ok {
				return eris.Errorf("survey config: rule %d references unknown question %q", i, key)
			}
			if err := validateCondition(cond); err != nil {
				return eris.Wrapf(err, "survey config: rule %d, question %q", i, key)
			}
		}
	}
	return nil
}

func validateCondition(cond model.Condition) error {
	switch cond.Operator {
	case "", model.OperatorEquals, model.OperatorIn, model.OperatorContains, model.OperatorContainsAny:
		if len(cond.Values) == 0 {
			return eris.New("operator requires at least one value")
		}
	case model.OperatorNotContains:
		if len(cond.Exclude) == 0 {
			return eris.New("not_contains requires at least one exclude value")
		}
	default:
		return eris.Errorf("unknown operator %q", cond.Operator)
	}
	return nil
}
