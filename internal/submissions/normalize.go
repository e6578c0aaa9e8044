package submissions

import (
	"strings"

	"leadsite_backend/internal/submissions/domain"
	"leadsite_backend/platform/phone"
	"leadsite_backend/platform/sanitize"
)

// contactFields are hoisted out of the raw payload into the canonical
// contact block; everything else lands in the open form data map.
var contactFields = map[string]struct{}{
	"name":    {},
	"email":   {},
	"phone":   {},
	"company": {},
	"role":    {},
}

// Normalize maps a raw, loosely-typed payload onto the canonical submission
// shape for the declared type. It is a pure transformation and never fails:
// unmappable values simply fall through to form data, absent optional
// scalars stay nil (so validators can tell "not provided" from "empty"),
// and declared array fields default to empty slices, never null.
func Normalize(t domain.Type, payload map[string]any, reqCtx domain.Context) *domain.Submission {
	spec, _ := domain.Spec(t)

	sub := &domain.Submission{
		Type:     t,
		FormData: make(map[string]any, len(payload)),
		Context:  reqCtx,
	}

	for key, value := range payload {
		if key == "type" {
			continue
		}
		if _, hoist := contactFields[key]; hoist {
			setContactField(sub, key, value)
			continue
		}
		sub.FormData[key] = normalizeValue(value)
	}

	if spec.Individual && isBlank(sub.Contact.Company) {
		company := "Individual"
		sub.Contact.Company = &company
	}

	for _, field := range spec.ArrayFields {
		switch v := sub.FormData[field].(type) {
		case []any:
			// already a sequence
		case nil:
			sub.FormData[field] = []any{}
		default:
			// single scalar submitted for an array field: wrap it
			sub.FormData[field] = []any{v}
		}
	}

	return sub
}

func setContactField(sub *domain.Submission, key string, value any) {
	raw, ok := value.(string)
	if !ok {
		// Non-string contact values are kept in form data so nothing the
		// user sent is silently dropped.
		if value != nil {
			sub.FormData[key] = value
		}
		return
	}

	cleaned := sanitize.Text(raw)
	switch key {
	case "name":
		sub.Contact.Name = &cleaned
	case "email":
		trimmed := strings.TrimSpace(raw)
		sub.Contact.Email = &trimmed
	case "phone":
		normalized := phone.NormalizeE164(cleaned)
		sub.Contact.Phone = &normalized
	case "company":
		sub.Contact.Company = &cleaned
	case "role":
		sub.Contact.Role = &cleaned
	}
}

func normalizeValue(value any) any {
	if s, ok := value.(string); ok {
		return sanitize.Text(s)
	}
	return value
}

func isBlank(p *string) bool {
	return p == nil || strings.TrimSpace(*p) == ""
}
