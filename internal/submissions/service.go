package submissions

import (
	"context"
	"fmt"

	"leadsite_backend/internal/events"
	"leadsite_backend/internal/submissions/domain"
	"leadsite_backend/platform/apperr"
	"leadsite_backend/platform/config"
	"leadsite_backend/platform/logger"
)

const (
	// CodeUnknownType rejects payloads declaring a type the registry does
	// not know.
	CodeUnknownType = "unknown_type"
	// CodeValidationFailed rejects payloads that miss required fields or
	// carry malformed values. Details list every violation found.
	CodeValidationFailed = "validation_failed"
	// CodeDuplicateSubmission rejects repeat submissions inside the
	// cooldown window.
	CodeDuplicateSubmission = "duplicate_submission"
)

// Store persists canonical submissions.
type Store interface {
	Insert(ctx context.Context, sub *domain.Submission) error
	List(ctx context.Context, filter ListFilter) ([]domain.Submission, error)
}

// Service runs the ingestion pipeline: normalize, validate, classify,
// persist, notify. It is the single entry point for every form the site
// exposes.
type Service struct {
	store     Store
	validator *domain.Validator
	throttle  *Throttle
	bus       events.Bus
	cfg       config.IngestConfig
	log       *logger.Logger
}

// NewService creates the ingestion service.
func NewService(store Store, validator *domain.Validator, throttle *Throttle, bus events.Bus, cfg config.IngestConfig, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		validator: validator,
		throttle:  throttle,
		bus:       bus,
		cfg:       cfg,
		log:       log,
	}
}

// Ingest processes one raw submission payload end to end. On success the
// returned submission carries the database-assigned ID and timestamp, and a
// notification event has been handed off to run detached from this request.
func (s *Service) Ingest(ctx context.Context, rawType string, payload map[string]any, reqCtx domain.Context) (*domain.Submission, error) {
	t, ok := domain.ParseType(rawType)
	if !ok {
		return nil, apperr.BadRequest(fmt.Sprintf("Unknown submission type %q; expected one of: %s", rawType, domain.KnownTypeList())).
			WithCode(CodeUnknownType)
	}

	sub := Normalize(t, payload, reqCtx)

	if violations := s.validator.Check(sub); len(violations) > 0 {
		return nil, apperr.Validation("Submission failed validation").
			WithCode(CodeValidationFailed).
			WithDetails(violations)
	}

	sub.Priority = domain.Classify(sub.Type, sub.FormData)
	sub.Status = domain.StatusNew

	if email, ok := sub.Field("email"); ok {
		if addr, isStr := email.(string); isStr && !s.throttle.Allow(ctx, sub.Type, addr) {
			return nil, apperr.TooManyRequests("A recent submission from this address is already being processed").
				WithCode(CodeDuplicateSubmission)
		}
	}

	// Once validation passes the write must not be aborted by the client
	// hanging up, but it still gets a hard deadline of its own.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.GetPersistTimeout())
	defer cancel()

	if err := s.store.Insert(persistCtx, sub); err != nil {
		s.log.DatabaseError("submissions.insert", err)
		return nil, err
	}

	event := events.SubmissionReceived{
		BaseEvent:  events.NewBaseEvent(),
		Submission: *sub,
	}
	s.bus.Publish(ctx, event)

	return sub, nil
}

// List exposes persisted submissions to the admin console.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]domain.Submission, error) {
	return s.store.List(ctx, filter)
}
