package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"leadsite_backend/platform/validator"
)

// FieldError is one field-level violation. The validator always returns the
// complete set so callers can fix every problem in a single round trip.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// dateLayouts are the accepted preferredDate formats, most specific first.
var dateLayouts = []string{"2006-01-02", time.RFC3339, "01/02/2006"}

// Validator checks canonical submissions against the type registry rules.
type Validator struct {
	val *validator.Validator
	now func() time.Time
}

// NewValidator creates a submission validator. The now function is injected
// so date-boundary rules are testable without clock skew.
func NewValidator(val *validator.Validator, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{val: val, now: now}
}

// Check returns every violation for the submission, in registry order for
// required fields followed by format rules. An empty slice means valid.
// It never fails fast: the caller gets the full picture in one pass.
func (v *Validator) Check(sub *Submission) []FieldError {
	spec, ok := Spec(sub.Type)
	if !ok {
		return []FieldError{{Field: "type", Reason: "unknown submission type"}}
	}

	var violations []FieldError

	for _, name := range spec.Required {
		if isEmpty(sub, name) {
			violations = append(violations, FieldError{
				Field:  name,
				Reason: fmt.Sprintf("%s is required", name),
			})
		}
	}

	// Format rules only apply to provided values; a missing required field
	// is already reported above and must not double-report as malformed.
	// A value of the wrong JSON type is provided-but-malformed, never a pass.
	if email, nonString := strField(sub, "email"); nonString {
		violations = append(violations, FieldError{Field: "email", Reason: "Invalid email format"})
	} else if email != "" {
		if err := v.val.Var(email, "email"); err != nil {
			violations = append(violations, FieldError{Field: "email", Reason: "Invalid email format"})
		}
	}

	if spec.Scheduling {
		if raw, nonString := strField(sub, "preferredDate"); nonString {
			violations = append(violations, FieldError{Field: "preferredDate", Reason: "Invalid date format; expected YYYY-MM-DD"})
		} else if raw != "" {
			violations = append(violations, v.checkPreferredDate(raw)...)
		}
	}

	if spec.Message != nil {
		if raw, provided := sub.Field(spec.Message.Field); provided && raw != nil {
			// A non-string message fails the lower bound rather than
			// skipping the check.
			text, _ := raw.(string)
			violations = append(violations, checkMessageBounds(text, spec.Message)...)
		}
	}

	return violations
}

// checkPreferredDate requires a parseable date strictly after today.
// Comparison is at day granularity: booking for 23:59 today is still too late.
func (v *Validator) checkPreferredDate(raw string) []FieldError {
	parsed, ok := parseDate(raw)
	if !ok {
		return []FieldError{{Field: "preferredDate", Reason: "Invalid date format; expected YYYY-MM-DD"}}
	}

	now := v.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !parsed.After(today) {
		return []FieldError{{Field: "preferredDate", Reason: "Preferred date must be in the future"}}
	}
	return nil
}

func checkMessageBounds(text string, bounds *MessageBounds) []FieldError {
	length := utf8.RuneCountInString(strings.TrimSpace(text))
	label := titleField(bounds.Field)
	if bounds.MinLength > 0 && length < bounds.MinLength {
		return []FieldError{{
			Field:  bounds.Field,
			Reason: fmt.Sprintf("%s must be at least %d characters long.", label, bounds.MinLength),
		}}
	}
	if bounds.MaxLength > 0 && length > bounds.MaxLength {
		return []FieldError{{
			Field:  bounds.Field,
			Reason: fmt.Sprintf("%s must be at most %d characters long.", label, bounds.MaxLength),
		}}
	}
	return nil
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// isEmpty reports whether a field is absent or carries an empty value.
// Both violate a required-field rule; the adapter keeps absent scalars nil
// so the distinction survives up to this point.
func isEmpty(sub *Submission, name string) bool {
	v, ok := sub.Field(name)
	if !ok || v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val) == ""
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	}
	return false
}

// strField returns the trimmed string value of a field. nonString reports a
// value that is present but not a JSON string, which format rules must treat
// as a violation rather than an absent value.
func strField(sub *Submission, name string) (value string, nonString bool) {
	v, ok := sub.Field(name)
	if !ok || v == nil {
		return "", false
	}
	s, isStr := v.(string)
	if !isStr {
		return "", true
	}
	return strings.TrimSpace(s), false
}

func titleField(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
