// Package events re-exports the platform event bus and defines the domain
// event types exchanged between modules.
package events

import (
	"leadsite_backend/internal/submissions/domain"
	platformevents "leadsite_backend/platform/events"
	"leadsite_backend/platform/logger"
)

// Re-exports so modules can depend on internal/events only.
type (
	Event       = platformevents.Event
	BaseEvent   = platformevents.BaseEvent
	Bus         = platformevents.Bus
	Handler     = platformevents.Handler
	HandlerFunc = platformevents.HandlerFunc
	InMemoryBus = platformevents.InMemoryBus
)

// NewBaseEvent creates a new base event with the current timestamp.
func NewBaseEvent() BaseEvent { return platformevents.NewBaseEvent() }

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}

// SubmissionReceived is published after a submission has been validated and
// durably persisted. Subscribers (notification email today) run detached
// from the request path; their failures never reach the submitter.
type SubmissionReceived struct {
	BaseEvent
	Submission domain.Submission
}

// EventName identifies the event type for subscription routing.
func (SubmissionReceived) EventName() string { return "submission.received" }
