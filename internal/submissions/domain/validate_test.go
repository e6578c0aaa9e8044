package domain

import (
	"strings"
	"testing"
	"time"

	"leadsite_backend/platform/validator"
)

// fixedNow pins the clock to mid-2026 so date-boundary cases are stable.
var fixedNow = time.Date(2026, time.August, 15, 13, 30, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return NewValidator(validator.New(), func() time.Time { return fixedNow })
}

func str(s string) *string { return &s }

func validDemo() *Submission {
	return &Submission{
		Type: TypeDemo,
		Contact: Contact{
			Name:    str("Jane"),
			Email:   str("jane@x.com"),
			Company: str("Acme"),
		},
		FormData: map[string]any{
			"demoType":        "product",
			"preferredDate":   "2026-08-16",
			"preferredTime":   "10:00",
			"productInterest": []any{"core"},
		},
	}
}

func fieldSet(violations []FieldError) map[string]string {
	out := make(map[string]string, len(violations))
	for _, v := range violations {
		out[v.Field] = v.Reason
	}
	return out
}

func TestCheckValidDemoPasses(t *testing.T) {
	if violations := newTestValidator().Check(validDemo()); len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}
}

func TestCheckReportsExactlyTheMissingFields(t *testing.T) {
	sub := validDemo()
	sub.Contact.Company = nil
	delete(sub.FormData, "preferredTime")

	violations := newTestValidator().Check(sub)
	got := fieldSet(violations)

	for _, want := range []string{"company", "preferredTime"} {
		if _, ok := got[want]; !ok {
			t.Errorf("expected violation for %q, got %v", want, violations)
		}
	}
	if len(violations) != 2 {
		t.Errorf("expected exactly 2 violations, got %v", violations)
	}
}

func TestCheckCollectsAllViolationsInOnePass(t *testing.T) {
	sub := &Submission{Type: TypeDemo, FormData: map[string]any{}}
	violations := newTestValidator().Check(sub)

	spec, _ := Spec(TypeDemo)
	if len(violations) != len(spec.Required) {
		t.Fatalf("expected %d violations for an empty demo submission, got %d: %v",
			len(spec.Required), len(violations), violations)
	}
	// Required-field violations come back in registry order.
	for i, name := range spec.Required {
		if violations[i].Field != name {
			t.Errorf("violation %d: got field %q, want %q", i, violations[i].Field, name)
		}
	}
}

func TestCheckEmptyStringViolatesRequired(t *testing.T) {
	sub := validDemo()
	sub.Contact.Company = str("  ")

	got := fieldSet(newTestValidator().Check(sub))
	if reason, ok := got["company"]; !ok || !strings.Contains(reason, "required") {
		t.Fatalf("whitespace-only company should violate the required rule, got %v", got)
	}
}

func TestCheckEmptyArrayViolatesRequired(t *testing.T) {
	sub := validDemo()
	sub.FormData["productInterest"] = []any{}

	got := fieldSet(newTestValidator().Check(sub))
	if _, ok := got["productInterest"]; !ok {
		t.Fatalf("empty productInterest should violate the required rule, got %v", got)
	}
}

func TestCheckEmailFormatDistinctFromMissing(t *testing.T) {
	missing := validDemo()
	missing.Contact.Email = nil
	gotMissing := fieldSet(newTestValidator().Check(missing))
	if gotMissing["email"] != "email is required" {
		t.Errorf("missing email: got reason %q", gotMissing["email"])
	}

	malformed := validDemo()
	malformed.Contact.Email = str("not-an-address")
	gotBad := fieldSet(newTestValidator().Check(malformed))
	if gotBad["email"] != "Invalid email format" {
		t.Errorf("malformed email: got reason %q", gotBad["email"])
	}
}

func TestCheckPreferredDateBoundary(t *testing.T) {
	cases := []struct {
		name       string
		date       string
		wantReason string
	}{
		{"yesterday rejected", "2026-08-14", "Preferred date must be in the future"},
		{"today rejected at day granularity", "2026-08-15", "Preferred date must be in the future"},
		{"tomorrow passes", "2026-08-16", ""},
		{"rfc3339 timestamp accepted", "2026-08-20T09:00:00Z", ""},
		{"us layout accepted", "12/01/2026", ""},
		{"garbage rejected as malformed", "next tuesday", "Invalid date format; expected YYYY-MM-DD"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := validDemo()
			sub.FormData["preferredDate"] = tc.date

			got := fieldSet(newTestValidator().Check(sub))
			reason, found := got["preferredDate"]
			if tc.wantReason == "" {
				if found {
					t.Fatalf("expected %q to pass, got %q", tc.date, reason)
				}
				return
			}
			if reason != tc.wantReason {
				t.Fatalf("date %q: got reason %q, want %q", tc.date, reason, tc.wantReason)
			}
		})
	}
}

func TestCheckMessageBounds(t *testing.T) {
	newContact := func(message string) *Submission {
		return &Submission{
			Type: TypeContact,
			Contact: Contact{
				Name:  str("Jane"),
				Email: str("jane@x.com"),
			},
			FormData: map[string]any{"message": message},
		}
	}

	cases := []struct {
		name       string
		message    string
		wantReason string
	}{
		{"too short", "hi", "Message must be at least 10 characters long."},
		{"exactly at minimum", "hello you!", ""},
		{"too long", strings.Repeat("a", 5001), "Message must be at most 5000 characters long."},
		{"exactly at maximum", strings.Repeat("a", 5000), ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := fieldSet(newTestValidator().Check(newContact(tc.message)))
			reason, found := got["message"]
			if tc.wantReason == "" {
				if found {
					t.Fatalf("expected message to pass, got %q", reason)
				}
				return
			}
			if reason != tc.wantReason {
				t.Fatalf("got reason %q, want %q", reason, tc.wantReason)
			}
		})
	}
}

func TestCheckRejectsWrongJSONTypes(t *testing.T) {
	t.Run("numeric preferredDate", func(t *testing.T) {
		sub := validDemo()
		sub.FormData["preferredDate"] = 12345

		got := fieldSet(newTestValidator().Check(sub))
		if got["preferredDate"] != "Invalid date format; expected YYYY-MM-DD" {
			t.Fatalf("numeric preferredDate must be rejected as malformed, got %v", got)
		}
	})

	t.Run("numeric message", func(t *testing.T) {
		sub := &Submission{
			Type: TypeContact,
			Contact: Contact{
				Name:  str("Jane"),
				Email: str("jane@x.com"),
			},
			FormData: map[string]any{"message": 42},
		}

		got := fieldSet(newTestValidator().Check(sub))
		if got["message"] != "Message must be at least 10 characters long." {
			t.Fatalf("numeric message must fail the length bound, got %v", got)
		}
	})

	t.Run("numeric email", func(t *testing.T) {
		sub := validDemo()
		sub.Contact.Email = nil
		sub.FormData["email"] = 42

		got := fieldSet(newTestValidator().Check(sub))
		if got["email"] != "Invalid email format" {
			t.Fatalf("numeric email must be rejected as malformed, got %v", got)
		}
	})

	t.Run("boolean preferredDate", func(t *testing.T) {
		sub := validDemo()
		sub.FormData["preferredDate"] = true

		got := fieldSet(newTestValidator().Check(sub))
		if _, ok := got["preferredDate"]; !ok {
			t.Fatalf("boolean preferredDate must not pass, got %v", got)
		}
	})
}

func TestParseTypeAgainstRegistry(t *testing.T) {
	for _, known := range KnownTypes() {
		if _, ok := ParseType(string(known)); !ok {
			t.Errorf("ParseType(%q) should resolve", known)
		}
	}

	if _, ok := ParseType("not-a-real-type"); ok {
		t.Error("ParseType should reject unknown types")
	}
	if parsed, ok := ParseType("  Demo "); !ok || parsed != TypeDemo {
		t.Errorf("ParseType should trim and lowercase, got %q (%v)", parsed, ok)
	}
}
