// Package notification provides event handlers for sending notification
// emails in response to domain events. This module subscribes to events and
// inverts the dependency: the ingestion pipeline never needs to know about
// email providers or templates.
package notification

import (
	"context"
	"fmt"

	"leadsite_backend/internal/email"
	"leadsite_backend/internal/events"
	"leadsite_backend/platform/config"
	"leadsite_backend/platform/logger"
)

// Module handles all notification-related event subscriptions.
type Module struct {
	sender email.Sender
	cfg    config.NotifyConfig
	log    *logger.Logger
}

// NewModule creates the notification module.
func NewModule(sender email.Sender, cfg config.NotifyConfig, log *logger.Logger) *Module {
	return &Module{sender: sender, cfg: cfg, log: log}
}

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.SubmissionReceived{}.EventName(), m)
	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.SubmissionReceived:
		return m.handleSubmissionReceived(ctx, e)
	default:
		return nil
	}
}

// handleSubmissionReceived sends the internal alert for a newly persisted
// submission. The destination address is resolved from config at each
// dispatch so per-family overrides take effect without a restart path
// through this module. Failures are logged and swallowed: the submitter
// already has their 201 and must never see a notification error.
func (m *Module) handleSubmissionReceived(ctx context.Context, e events.SubmissionReceived) error {
	sub := e.Submission

	to := m.cfg.GetNotifyAddress(string(sub.Type))
	if to == "" {
		m.log.Warn("no notification address configured, skipping",
			"type", string(sub.Type), "submissionId", sub.ID.String())
		return nil
	}

	if err := m.sender.SendSubmissionEmail(ctx, to, sub); err != nil {
		m.log.NotificationError(string(sub.Type), sub.ID.String(), fmt.Errorf("send submission email: %w", err))
		return nil
	}

	m.log.Info("submission notification sent",
		"type", string(sub.Type), "submissionId", sub.ID.String(), "priority", string(sub.Priority))
	return nil
}
