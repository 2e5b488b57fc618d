package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rodrymza/app-novedades/internal/auth"
	"github.com/Rodrymza/app-novedades/internal/config"
	"github.com/Rodrymza/app-novedades/internal/domain"
	"github.com/Rodrymza/app-novedades/internal/events"
	"github.com/Rodrymza/app-novedades/internal/repository/memory"
	apperrors "github.com/Rodrymza/app-novedades/pkg/util"
)

func detailOf(err error) string {
	return apperrors.ToDomainError(err).Detail
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	res, err := f.auth.Login(ctx, "  Operador ", "clave-op")
	require.NoError(t, err)
	assert.Equal(t, f.operatorUser.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	session, err := f.tokens.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.Session{UserID: f.operatorUser.ID, Username: "operador", Role: domain.RoleOperator}, *session)
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.auth.Login(ctx, "", "x")
	requireCode(t, err, apperrors.CodeValidation)
	_, err = f.auth.Login(ctx, "operador", "")
	requireCode(t, err, apperrors.CodeValidation)

	_, err = f.auth.Login(ctx, "nadie", "clave")
	requireCode(t, err, apperrors.CodeUnauthorized)
	assert.Equal(t, "El usuario ingresado no existe", detailOf(err))

	_, err = f.auth.Login(ctx, "operador", "incorrecta")
	requireCode(t, err, apperrors.CodeUnauthorized)
	assert.Equal(t, "La contraseña ingresada es incorrecta", detailOf(err))
}

func TestLoginRejectsDeletedUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.users.Delete(ctx, f.supervisor, f.operatorUser.ID, "Baja")
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, "operador", "clave-op")
	requireCode(t, err, apperrors.CodeUnauthorized)
	assert.Equal(t, "Cuenta deshabilitada", detailOf(err))

	_, err = f.users.Restore(ctx, f.supervisor, f.operatorUser.ID)
	require.NoError(t, err)
	_, err = f.auth.Login(ctx, "operador", "clave-op")
	require.NoError(t, err)
}

func TestLoginThrottled(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := newFixture(t, auth.NewLoginThrottle(client, 2, time.Minute, nil))

	for i := 0; i < 2; i++ {
		_, err := f.auth.Login(ctx, "operador", "mal")
		requireCode(t, err, apperrors.CodeUnauthorized)
	}
	_, err := f.auth.Login(ctx, "operador", "clave-op")
	requireCode(t, err, apperrors.CodeTooManyAttempts)

	mr.FastForward(2 * time.Minute)
	_, err = f.auth.Login(ctx, "operador", "clave-op")
	require.NoError(t, err)
	assert.False(t, mr.Exists("login_failures:operador"))
}

func TestProfileAndLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	user, err := f.auth.Profile(ctx, f.operator)
	require.NoError(t, err)
	assert.Equal(t, "operador", user.Username)

	_, err = f.auth.Profile(ctx, nil)
	requireCode(t, err, apperrors.CodeUnauthorized)

	assert.NoError(t, f.auth.Logout(ctx, f.operator))
	requireCode(t, f.auth.Logout(ctx, nil), apperrors.CodeUnauthorized)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	requireCode(t, f.auth.ChangePassword(ctx, f.operator, "clave-op", "clave-op"), apperrors.CodeValidation)
	requireCode(t, f.auth.ChangePassword(ctx, f.operator, "", "nueva"), apperrors.CodeValidation)
	err := f.auth.ChangePassword(ctx, f.operator, "otra", "nueva")
	requireCode(t, err, apperrors.CodeUnauthorized)
	assert.Equal(t, "La contraseña actual no es correcta.", detailOf(err))

	require.NoError(t, f.auth.ChangePassword(ctx, f.operator, "clave-op", "nueva-clave"))
	_, err = f.auth.Login(ctx, "operador", "clave-op")
	requireCode(t, err, apperrors.CodeUnauthorized)
	_, err = f.auth.Login(ctx, "operador", "nueva-clave")
	require.NoError(t, err)

	assert.Len(t, f.recorder.OfType(events.EventPasswordChanged), 1)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	in := RegisterInput{
		FirstName: "  maría   josé ",
		LastName:  "GÓMEZ",
		Username:  " MGomez ",
		Email:     "MGomez@Example.com",
		Document:  " 30111222 ",
		Password:  "secreta",
	}
	user, err := f.auth.Register(ctx, f.supervisor, in)
	require.NoError(t, err)
	assert.Equal(t, "María José", user.FirstName)
	assert.Equal(t, "Gómez", user.LastName)
	assert.Equal(t, "mgomez", user.Username)
	assert.Equal(t, "mgomez@example.com", user.Email)
	assert.Equal(t, "30111222", user.Document)
	assert.Equal(t, domain.RoleOperator, user.Role)
	assert.NotEqual(t, "secreta", user.PasswordHash)

	_, err = f.auth.Login(ctx, "mgomez", "secreta")
	require.NoError(t, err)

	registered := f.recorder.OfType(events.EventUserRegistered)
	require.Len(t, registered, 1)
	assert.Equal(t, events.UserRegisteredPayload{Username: "mgomez", Role: domain.RoleOperator}, registered[0].Payload)
}

func TestRegisterRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	valid := RegisterInput{
		FirstName: "Ana", LastName: "Paz", Username: "apaz",
		Email: "apaz@example.com", Document: "40111222", Password: "x", Role: "supervisor",
	}

	_, err := f.auth.Register(ctx, f.operator, valid)
	requireCode(t, err, apperrors.CodeForbidden)

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		code   string
		detail string
	}{
		{"missing email", func(in *RegisterInput) { in.Email = "" }, apperrors.CodeValidation, ""},
		{"missing password", func(in *RegisterInput) { in.Password = "" }, apperrors.CodeValidation, ""},
		{"bad email", func(in *RegisterInput) { in.Email = "sin-arroba" }, apperrors.CodeValidation, ""},
		{"digits in name", func(in *RegisterInput) { in.FirstName = "Ana2" }, apperrors.CodeValidation, ""},
		{"short name", func(in *RegisterInput) { in.LastName = "P" }, apperrors.CodeValidation, ""},
		{"unknown role", func(in *RegisterInput) { in.Role = "ADMIN" }, apperrors.CodeValidation, ""},
		{"username taken", func(in *RegisterInput) { in.Username = "OPERADOR" }, apperrors.CodeConflict, "El nombre de usuario ya está en uso"},
		{"email taken", func(in *RegisterInput) { in.Email = "op@example.com" }, apperrors.CodeConflict, "El email ya está registrado"},
		{"document taken", func(in *RegisterInput) { in.Document = "20000002" }, apperrors.CodeConflict, "El documento ya está registrado"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := f.auth.Register(ctx, f.supervisor, in)
			requireCode(t, err, tt.code)
			if tt.detail != "" {
				assert.Equal(t, tt.detail, detailOf(err))
			}
		})
	}

	user, err := f.auth.Register(ctx, f.supervisor, valid)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSupervisor, user.Role)
}

func TestEnsureBootstrapSupervisor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	cfg := config.BootstrapConfig{
		Enabled: true, Username: "admin", Password: "admin123", Email: "admin@admin.com",
		Document: "00000000", FirstName: "Super", LastName: "Visor",
	}

	created, err := f.auth.EnsureBootstrapSupervisor(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, created, "store already has users")

	fresh := NewAuthService(AuthDependencies{
		UserRepo:    memory.NewStore().Users(),
		Credentials: f.credentials,
		Tokens:      f.tokens,
	})
	created, err = fresh.EnsureBootstrapSupervisor(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, created)
	res, err := fresh.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSupervisor, res.User.Role)

	created, err = fresh.EnsureBootstrapSupervisor(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, created)
}
