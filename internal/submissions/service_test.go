package submissions

import (
	"context"
	"sync"
	"testing"
	"time"

	"leadsite_backend/internal/events"
	"leadsite_backend/internal/submissions/domain"
	"leadsite_backend/platform/apperr"
	"leadsite_backend/platform/logger"
	"leadsite_backend/platform/validator"

	"github.com/google/uuid"
)

type fakeStore struct {
	mu        sync.Mutex
	inserted  []*domain.Submission
	insertErr error
	gotCtx    context.Context
}

func (f *fakeStore) Insert(ctx context.Context, sub *domain.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotCtx = ctx
	if f.insertErr != nil {
		return f.insertErr
	}
	sub.ID = uuid.New()
	sub.CreatedAt = time.Now()
	f.inserted = append(f.inserted, sub)
	return nil
}

func (f *fakeStore) List(ctx context.Context, filter ListFilter) ([]domain.Submission, error) {
	return nil, nil
}

type recordingBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
}

func (b *recordingBus) Subscribe(eventName string, handler events.Handler) {}

func (b *recordingBus) events() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]events.Event(nil), b.published...)
}

type ingestCfg struct{ timeout time.Duration }

func (c ingestCfg) GetPersistTimeout() time.Duration { return c.timeout }

func newTestService(store *fakeStore, bus *recordingBus) *Service {
	log := logger.New("test")
	val := domain.NewValidator(validator.New(), time.Now)
	return NewService(store, val, NewThrottle(nil, time.Minute, log), bus, ingestCfg{5 * time.Second}, log)
}

func demoPayload() map[string]any {
	return map[string]any{
		"name":            "Jane Doe",
		"email":           "jane@example.com",
		"company":         "Acme",
		"demoType":        "live",
		"preferredDate":   time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		"preferredTime":   "14:00",
		"productInterest": []any{"platform"},
	}
}

func TestIngestHappyPath(t *testing.T) {
	store := &fakeStore{}
	bus := &recordingBus{}
	svc := newTestService(store, bus)

	sub, err := svc.Ingest(context.Background(), "demo", demoPayload(), domain.Context{IP: "203.0.113.7"})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if sub.ID == uuid.Nil {
		t.Error("submission should carry the store-assigned ID")
	}
	if sub.CreatedAt.IsZero() {
		t.Error("submission should carry the store-assigned timestamp")
	}
	if sub.Priority != domain.PriorityHigh {
		t.Errorf("priority = %q, want high for demo", sub.Priority)
	}
	if sub.Status != domain.StatusNew {
		t.Errorf("status = %q, want new", sub.Status)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("inserted %d records, want 1", len(store.inserted))
	}

	published := bus.events()
	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}
	received, ok := published[0].(events.SubmissionReceived)
	if !ok {
		t.Fatalf("published event is %T, want SubmissionReceived", published[0])
	}
	if received.Submission.ID != sub.ID {
		t.Error("event should carry the persisted submission")
	}
}

func TestIngestUnknownType(t *testing.T) {
	store := &fakeStore{}
	bus := &recordingBus{}
	svc := newTestService(store, bus)

	_, err := svc.Ingest(context.Background(), "newsletter", map[string]any{}, domain.Context{})
	appErr := asAppError(t, err)
	if appErr.Kind != apperr.KindBadRequest {
		t.Errorf("kind = %v, want bad request", appErr.Kind)
	}
	if appErr.Code != CodeUnknownType {
		t.Errorf("code = %q, want %q", appErr.Code, CodeUnknownType)
	}
	if len(store.inserted) != 0 {
		t.Error("nothing should be persisted for an unknown type")
	}
	if len(bus.events()) != 0 {
		t.Error("nothing should be published for an unknown type")
	}
}

func TestIngestValidationFailure(t *testing.T) {
	store := &fakeStore{}
	bus := &recordingBus{}
	svc := newTestService(store, bus)

	_, err := svc.Ingest(context.Background(), "demo", map[string]any{
		"email": "not-an-email",
	}, domain.Context{})
	appErr := asAppError(t, err)
	if appErr.Kind != apperr.KindValidation {
		t.Errorf("kind = %v, want validation", appErr.Kind)
	}
	if appErr.Code != CodeValidationFailed {
		t.Errorf("code = %q, want %q", appErr.Code, CodeValidationFailed)
	}
	violations, ok := appErr.Details.([]domain.FieldError)
	if !ok {
		t.Fatalf("details = %T, want []domain.FieldError", appErr.Details)
	}
	if len(violations) < 2 {
		t.Errorf("got %d violations, want every violation in one pass", len(violations))
	}
	if len(store.inserted) != 0 {
		t.Error("invalid submissions must not reach the store")
	}
}

func TestIngestStoreFailureSuppressesEvent(t *testing.T) {
	storeErr := apperr.Internal("failed to store submission").WithCode(CodeWriteFailed)
	store := &fakeStore{insertErr: storeErr}
	bus := &recordingBus{}
	svc := newTestService(store, bus)

	_, err := svc.Ingest(context.Background(), "demo", demoPayload(), domain.Context{})
	appErr := asAppError(t, err)
	if appErr.Code != CodeWriteFailed {
		t.Errorf("code = %q, want %q", appErr.Code, CodeWriteFailed)
	}
	if len(bus.events()) != 0 {
		t.Error("no notification event should fire when the write fails")
	}
}

func TestIngestPersistDetachedFromRequestContext(t *testing.T) {
	store := &fakeStore{}
	bus := &recordingBus{}
	svc := newTestService(store, bus)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Ingest(ctx, "demo", demoPayload(), domain.Context{}); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if store.gotCtx.Err() != nil {
		t.Error("persist context should survive client cancellation")
	}
	if _, ok := store.gotCtx.Deadline(); !ok {
		t.Error("persist context should still carry its own deadline")
	}
}

func TestIngestThrottleRejectsDuplicates(t *testing.T) {
	store := &fakeStore{}
	bus := &recordingBus{}
	log := logger.New("test")
	val := domain.NewValidator(validator.New(), time.Now)
	th, _ := newTestThrottle(t, time.Minute)
	svc := NewService(store, val, th, bus, ingestCfg{5 * time.Second}, log)

	if _, err := svc.Ingest(context.Background(), "demo", demoPayload(), domain.Context{}); err != nil {
		t.Fatalf("first Ingest() error = %v", err)
	}
	_, err := svc.Ingest(context.Background(), "demo", demoPayload(), domain.Context{})
	appErr := asAppError(t, err)
	if appErr.Kind != apperr.KindTooManyRequests {
		t.Errorf("kind = %v, want too many requests", appErr.Kind)
	}
	if len(store.inserted) != 1 {
		t.Errorf("inserted %d records, want only the first", len(store.inserted))
	}
}

func asAppError(t *testing.T, err error) *apperr.Error {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	appErr, ok := err.(*apperr.Error)
	if !ok {
		t.Fatalf("error is %T, want *apperr.Error", err)
	}
	return appErr
}
