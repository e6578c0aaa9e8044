package submissions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"leadsite_backend/internal/submissions/domain"
	"leadsite_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Throttle suppresses rapid duplicate submissions from the same contact.
// A submission is a duplicate when the same type and email arrive within
// the cooldown window. The check degrades open: if Redis is unreachable
// the submission goes through, because losing a lead costs more than an
// occasional duplicate row.
type Throttle struct {
	client *redis.Client
	window time.Duration
	log    *logger.Logger
}

// NewThrottle builds a duplicate-submission throttle. A nil client disables
// throttling entirely, which is the configuration for deployments without
// Redis.
func NewThrottle(client *redis.Client, window time.Duration, log *logger.Logger) *Throttle {
	return &Throttle{client: client, window: window, log: log}
}

// Allow reports whether the submission should proceed. The first call for a
// given type and email claims the cooldown slot atomically; subsequent calls
// within the window are rejected.
func (t *Throttle) Allow(ctx context.Context, typ domain.Type, email string) bool {
	if t.client == nil || email == "" {
		return true
	}

	key := fmt.Sprintf("throttle:submission:%s:%s", typ, strings.ToLower(strings.TrimSpace(email)))
	ok, err := t.client.SetNX(ctx, key, 1, t.window).Result()
	if err != nil {
		t.log.Warn("submission throttle unavailable, allowing", "error", err)
		return true
	}
	return ok
}
