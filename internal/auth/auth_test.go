package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rodrymza/app-novedades/internal/domain"
	apperrors "github.com/Rodrymza/app-novedades/pkg/util"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func TestCredentialManager(t *testing.T) {
	m := NewCredentialManager(bcrypt.MinCost)

	first, err := m.HashPassword("secreto")
	require.NoError(t, err)
	second, err := m.HashPassword("secreto")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "each hash must carry its own salt")
	assert.True(t, m.VerifyPassword("secreto", first))
	assert.True(t, m.VerifyPassword("secreto", second))
	assert.False(t, m.VerifyPassword("otro", first))
	assert.False(t, m.VerifyPassword("secreto", ""))
	assert.False(t, m.VerifyPassword("secreto", "not-a-bcrypt-hash"))

	_, err = m.HashPassword(strings.Repeat("x", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestResetPasswordToDocument(t *testing.T) {
	m := NewCredentialManager(bcrypt.MinCost)
	user := &domain.User{ID: "u1", Username: "jperez", Document: "30111222", PasswordHash: "old"}

	require.NoError(t, m.ResetPasswordToDocument(user))
	assert.True(t, m.VerifyPassword("30111222", user.PasswordHash))
	assert.Equal(t, "jperez", user.Username)

	assert.Error(t, m.ResetPasswordToDocument(&domain.User{ID: "u2"}))
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, exp, err := tm.GenerateToken(domain.Session{UserID: "u1", Username: "ana", Role: domain.RoleSupervisor})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	session, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", session.UserID)
	assert.Equal(t, "ana", session.Username)
	assert.Equal(t, domain.RoleSupervisor, session.Role)
}

func TestTokenExpiredAndInvalid(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	tm.ttl = -time.Minute
	expired, _, err := tm.GenerateToken(domain.Session{UserID: "u1", Role: domain.RoleOperator})
	require.NoError(t, err)

	_, err = tm.ParseToken(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	other := NewTokenManager("another-secret-with-enough-length!", time.Hour)
	foreign, _, err := other.GenerateToken(domain.Session{UserID: "u1", Role: domain.RoleOperator})
	require.NoError(t, err)
	_, err = tm.ParseToken(foreign)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = tm.ParseToken("garbage")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenRejectsUnknownRole(t *testing.T) {
	claims := &Claims{
		UserID: "u1",
		Role:   domain.Role("ADMIN"),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenManager(testSecret, time.Hour).ParseToken(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestGuards(t *testing.T) {
	supervisor := &domain.Session{UserID: "s1", Role: domain.RoleSupervisor}
	operator := &domain.Session{UserID: "o1", Role: domain.RoleOperator}

	assert.True(t, apperrors.HasCode(RequireAuthenticated(nil), apperrors.CodeUnauthorized))
	assert.NoError(t, RequireAuthenticated(operator))

	assert.True(t, apperrors.HasCode(RequireSupervisor(nil), apperrors.CodeUnauthorized))
	assert.True(t, apperrors.HasCode(RequireSupervisor(operator), apperrors.CodeForbidden))
	assert.NoError(t, RequireSupervisor(supervisor))

	assert.True(t, apperrors.HasCode(RequireNotSelf(supervisor, "s1"), apperrors.CodeForbidden))
	assert.NoError(t, RequireNotSelf(supervisor, "o1"))
}

func newMiddlewareApp(tm *TokenManager) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code, "detail": de.Detail})
		},
	})
	mw := NewSessionMiddleware(tm, "jwt")
	app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		session, _ := SessionFromContext(c)
		return c.SendString(session.Username)
	})
	app.Get("/admin", mw.Handle, SupervisorOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app
}

func TestSessionMiddleware(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	app := newMiddlewareApp(tm)
	operatorToken, _, err := tm.GenerateToken(domain.Session{UserID: "o1", Username: "oper", Role: domain.RoleOperator})
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		setup      func(r *http.Request)
		wantStatus int
	}{
		{"no token", "/me", func(*http.Request) {}, http.StatusUnauthorized},
		{"cookie token", "/me", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "jwt", Value: operatorToken})
		}, http.StatusOK},
		{"bearer token", "/me", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+operatorToken)
		}, http.StatusOK},
		{"malformed header", "/me", func(r *http.Request) {
			r.Header.Set("Authorization", operatorToken)
		}, http.StatusUnauthorized},
		{"invalid token", "/me", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "jwt", Value: "nope"})
		}, http.StatusUnauthorized},
		{"operator on supervisor route", "/admin", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "jwt", Value: operatorToken})
		}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			tt.setup(req)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestLoginThrottle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	throttle := NewLoginThrottle(client, 3, time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, throttle.Allow(ctx, "Ana"))
		throttle.RecordFailure(ctx, "Ana")
	}
	assert.ErrorIs(t, throttle.Allow(ctx, "ana"), ErrTooManyAttempts)
	assert.NoError(t, throttle.Allow(ctx, "otro"))
	assert.True(t, mr.TTL("login_failures:ana") > 0)

	mr.FastForward(2 * time.Minute)
	assert.NoError(t, throttle.Allow(ctx, "ana"))

	throttle.RecordFailure(ctx, "ana")
	throttle.Reset(ctx, "ana")
	assert.False(t, mr.Exists("login_failures:ana"))
}

func TestLoginThrottleFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	throttle := NewLoginThrottle(client, 1, time.Minute, nil)
	mr.Close()

	assert.NoError(t, throttle.Allow(context.Background(), "ana"))
	throttle.RecordFailure(context.Background(), "ana")

	var disabled *LoginThrottle
	assert.NoError(t, disabled.Allow(context.Background(), "ana"))
}
