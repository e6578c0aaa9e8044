// Package domain holds the canonical submission model shared by every lead
// form the site exposes. All inbound payloads are normalized into Submission
// before validation, classification, and persistence.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies the submission family a payload belongs to.
type Type string

const (
	TypeDemo           Type = "demo"
	TypeConsultation   Type = "consultation"
	TypeSolaraInterest Type = "solara-interest"
	TypeSSAInterest    Type = "ssa-interest"
	TypePartner        Type = "partner"
	TypeContact        Type = "contact"
	TypeGenericModal   Type = "generic-modal"
)

// Priority is the coarse urgency tier attached at ingestion time and used by
// downstream triage. It is computed exactly once and never recomputed.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Status is the lifecycle flag owned by the admin console. This pipeline
// only ever writes the initial value.
type Status string

// StatusNew is the initial status of every persisted submission.
const StatusNew Status = "new"

// Contact holds the hoisted contact fields. Pointers distinguish "not
// provided" (nil) from "provided but empty" so validators can report missing
// fields precisely.
type Contact struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
	Role    *string `json:"role,omitempty"`
}

// Context is request metadata captured server-side at ingestion. It is never
// user-supplied identity data.
type Context struct {
	IP        string            `json:"ip,omitempty"`
	UserAgent string            `json:"userAgent,omitempty"`
	Referrer  string            `json:"referrer,omitempty"`
	UTM       map[string]string `json:"utm,omitempty"`
}

// Submission is the canonical record produced by the ingestion pipeline.
type Submission struct {
	ID        uuid.UUID      `json:"id"`
	Type      Type           `json:"type"`
	Contact   Contact        `json:"contact"`
	FormData  map[string]any `json:"formData"`
	Context   Context        `json:"context"`
	Priority  Priority       `json:"priority"`
	Status    Status         `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Field returns the named value, looking first at the hoisted contact fields
// and falling back to the open form data map. The boolean reports presence,
// not non-emptiness.
func (s *Submission) Field(name string) (any, bool) {
	switch name {
	case "name":
		return deref(s.Contact.Name)
	case "email":
		return deref(s.Contact.Email)
	case "phone":
		return deref(s.Contact.Phone)
	case "company":
		return deref(s.Contact.Company)
	case "role":
		return deref(s.Contact.Role)
	}
	v, ok := s.FormData[name]
	return v, ok
}

func deref(p *string) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}
