// Package events provides the in-process event bus modules use to react to
// each other without direct dependencies.
// This is part of the platform layer and contains no business logic.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event carried on the bus.
type Event interface {
	// EventName uniquely identifies the event type for subscription routing.
	EventName() string
	// OccurredAt reports when the event was raised.
	OccurredAt() time.Time
}

// BaseEvent supplies the timestamp every event carries. Embed it and
// implement EventName.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt reports when the event was raised.
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler processes events of a specific type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes domain events to subscribed handlers. Dispatch is
// asynchronous and detached from the publisher's request lifecycle; a
// handler failure is observed by the bus, never by the publisher.
type Bus interface {
	// Publish sends an event to all handlers registered for its name.
	Publish(ctx context.Context, event Event)

	// Subscribe registers a handler for the named event type, matching
	// Event.EventName().
	Subscribe(eventName string, handler Handler)
}
