package email

import (
	"fmt"
	"strings"

	"leadsite_backend/internal/submissions/domain"
)

const subjectSubmissionFmt = "[%s] New %s"

// subjectFor builds the notification subject line. Urgent submissions are
// flagged so inbox rules can route them.
func subjectFor(sub domain.Submission) string {
	label := string(sub.Type)
	if spec, ok := domain.Spec(sub.Type); ok {
		label = spec.Label
	}

	subject := fmt.Sprintf(subjectSubmissionFmt, strings.ToUpper(string(sub.Priority)), label)
	if name, ok := sub.Field("name"); ok {
		if s, isStr := name.(string); isStr && s != "" {
			subject += " from " + s
		}
	}
	return subject
}
