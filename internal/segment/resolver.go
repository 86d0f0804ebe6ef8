package segment

import (
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/model"
)

// SelectOutcome walks the rule list in stored order and returns the
// outcome of the first rule whose conditions all hold. When no rule
// matches it falls back to the configured default, so it always produces
// an outcome for well-formed config.
func SelectOutcome(answers AnswerMap, seg model.Segmentation) model.Outcome {
	for _, rule := range seg.Rules {
		if ruleMatches(answers, rule) {
			return model.Outcome{
				Segment: rule.Segment,
				Status:  model.ParseSurveyStatus(rule.Status),
			}
		}
	}
	return model.Outcome{
		Segment: seg.DefaultSegment,
		Status:  model.ParseSurveyStatus(seg.DefaultStatus),
	}
}

// ruleMatches is a logical AND over the rule's conditions. An empty
// condition set matches everything, which makes a deliberate catch-all
// rule possible.
func ruleMatches(answers AnswerMap, rule model.SegmentRule) bool {
	for key, cond := range rule.Conditions {
		if !conditionMatches(answers[key], cond) {
			return false
		}
	}
	return true
}

// Resolver evaluates submissions against a loaded survey configuration.
// The configuration is read-only after load, so a single Resolver is safe
// for concurrent use.
type Resolver struct {
	cfg *model.SurveyConfig
}

// NewResolver creates a resolver over a validated survey configuration
func NewResolver(cfg *model.SurveyConfig) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve extracts the configured answers from one submission and selects
// its outcome
func (r *Resolver) Resolve(responses []model.AnsweredQuestion) model.Outcome {
	answers := ExtractAnswers(responses, r.cfg.Questions)
	return SelectOutcome(answers, r.cfg.Segmentation)
}
