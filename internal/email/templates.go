package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"leadsite_backend/internal/submissions/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title   string
	Heading string
}

type formField struct {
	Label string
	Value string
}

type submissionEmailData struct {
	baseEmailData
	TypeLabel  string
	Priority   string
	Contact    []formField
	FormFields []formField
	Source     []formField
	ReceivedAt string
}

func newSubmissionEmailData(sub domain.Submission) submissionEmailData {
	label := string(sub.Type)
	if spec, ok := domain.Spec(sub.Type); ok {
		label = spec.Label
	}

	data := submissionEmailData{
		baseEmailData: baseEmailData{
			Title:   label,
			Heading: "New " + label,
		},
		TypeLabel:  label,
		Priority:   string(sub.Priority),
		ReceivedAt: sub.CreatedAt.Format("Jan 2, 2006 15:04 MST"),
	}

	contact := []struct {
		label string
		value *string
	}{
		{"Name", sub.Contact.Name},
		{"Email", sub.Contact.Email},
		{"Phone", sub.Contact.Phone},
		{"Company", sub.Contact.Company},
		{"Role", sub.Contact.Role},
	}
	for _, f := range contact {
		if f.value != nil && *f.value != "" {
			data.Contact = append(data.Contact, formField{Label: f.label, Value: *f.value})
		}
	}

	keys := make([]string, 0, len(sub.FormData))
	for k := range sub.FormData {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := formatValue(sub.FormData[k]); v != "" {
			data.FormFields = append(data.FormFields, formField{Label: labelize(k), Value: v})
		}
	}

	source := []struct{ label, value string }{
		{"IP", sub.Context.IP},
		{"Referrer", sub.Context.Referrer},
	}
	for _, f := range source {
		if f.value != "" {
			data.Source = append(data.Source, formField{Label: f.label, Value: f.value})
		}
	}
	for _, param := range []string{"utm_source", "utm_medium", "utm_campaign"} {
		if v := sub.Context.UTM[param]; v != "" {
			data.Source = append(data.Source, formField{Label: labelize(param), Value: v})
		}
	}

	return data
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := formatValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

// labelize turns a camelCase or snake_case field name into a display label,
// e.g. "preferredDate" becomes "Preferred Date".
func labelize(field string) string {
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteRune(toUpper(r))
		case r == '_':
			b.WriteRune(' ')
		case r >= 'A' && r <= 'Z':
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			prev := field[i-1]
			if prev == '_' {
				b.WriteRune(toUpper(r))
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
