package segment

import (
	"strings"

	"github.com/GauravB09/Diligence-Squared-Assignment/internal/model"
)

// conditionMatches decides whether one extracted answer value satisfies a
// rule condition. A nil value never matches: a rule cannot fire on a
// question the respondent skipped.
func conditionMatches(value interface{}, cond model.Condition) bool {
	if value == nil {
		return false
	}

	op := cond.Operator
	if op == "" {
		op = model.OperatorEquals
	}

	// not_contains inspects the stringified answer and fails as soon as
	// one excluded value appears in it.
	if op == model.OperatorNotContains {
		text := stringify(value)
		for _, excluded := range cond.Exclude {
			if strings.Contains(text, excluded) {
				return false
			}
		}
		return true
	}

	if cond.IsList() {
		list := toStringSlice(value)
		switch op {
		case model.OperatorContains, model.OperatorContainsAny:
			return intersects(list, cond.Values)
		default:
			// Any other operator on a list field means exact equality.
			return equalSlices(list, cond.Values)
		}
	}

	text, ok := value.(string)
	if !ok {
		return false
	}
	switch op {
	case model.OperatorEquals:
		return len(cond.Values) > 0 && text == cond.Values[0]
	default:
		// in, and the membership fallback for anything else.
		return memberOf(cond.Values, text)
	}
}

// intersects reports whether the answer list shares at least one element
// with the expected values
func intersects(list, values []string) bool {
	for _, v := range values {
		if memberOf(list, v) {
			return true
		}
	}
	return false
}

func memberOf(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
