package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrTooManyAttempts is returned when a username exceeded its failed login budget.
var ErrTooManyAttempts = errors.New("too many failed login attempts")

const loginFailuresPrefix = "login_failures:"

// LoginThrottle counts failed logins per username in Redis.
// Redis failures are logged and the throttle lets the request through.
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
	logger      *zap.Logger
}

// NewLoginThrottle builds a throttle. A nil client or non-positive maxAttempts disables it.
func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration, logger *zap.Logger) *LoginThrottle {
	if logger == nil {
		logger = zap.NewNop()
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginThrottle{client: client, maxAttempts: maxAttempts, window: window, logger: logger}
}

func (t *LoginThrottle) enabled() bool {
	return t != nil && t.client != nil && t.maxAttempts > 0
}

func loginKey(username string) string {
	return loginFailuresPrefix + strings.ToLower(strings.TrimSpace(username))
}

// Allow returns ErrTooManyAttempts when username is currently locked out.
func (t *LoginThrottle) Allow(ctx context.Context, username string) error {
	if !t.enabled() {
		return nil
	}
	count, err := t.client.Get(ctx, loginKey(username)).Int()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			t.logger.Warn("login throttle unavailable", zap.Error(err))
		}
		return nil
	}
	if count >= t.maxAttempts {
		return ErrTooManyAttempts
	}
	return nil
}

// RecordFailure increments the failure counter, starting the window on the first failure.
func (t *LoginThrottle) RecordFailure(ctx context.Context, username string) {
	if !t.enabled() {
		return
	}
	key := loginKey(username)
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		t.logger.Warn("login throttle record failed", zap.Error(err))
		return
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			t.logger.Warn("login throttle expire failed", zap.Error(err))
		}
	}
	if count >= int64(t.maxAttempts) {
		t.logger.Info("login locked out", zap.String("username", strings.ToLower(username)))
	}
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, username string) {
	if !t.enabled() {
		return
	}
	if err := t.client.Del(ctx, loginKey(username)).Err(); err != nil {
		t.logger.Warn("login throttle reset failed", zap.Error(err))
	}
}
