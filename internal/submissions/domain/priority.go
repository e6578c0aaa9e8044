package domain

import "strings"

// urgencyField is the only form data key that can escalate a submission
// above its type's base priority.
const urgencyField = "urgencyLevel"

// Classify computes the priority for a submission. It is a pure function of
// (type, formData): the type's base priority, overridden to urgent when the
// form carries an explicit urgency flag. No other overrides apply.
func Classify(t Type, formData map[string]any) Priority {
	spec, ok := Spec(t)
	if !ok {
		return PriorityNormal
	}

	if v, ok := formData[urgencyField].(string); ok && strings.EqualFold(strings.TrimSpace(v), "urgent") {
		return PriorityUrgent
	}

	return spec.BasePriority
}
