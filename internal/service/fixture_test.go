package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rodrymza/app-novedades/internal/auth"
	"github.com/Rodrymza/app-novedades/internal/domain"
	"github.com/Rodrymza/app-novedades/internal/repository/memory"
	apperrors "github.com/Rodrymza/app-novedades/pkg/util"
)

const testSecret = "service-test-secret-with-32-bytes!"

type fixture struct {
	store       *memory.Store
	credentials *auth.CredentialManager
	tokens      *auth.TokenManager
	recorder    *eventRecorder

	auth      *AuthService
	users     *UserService
	areas     *AreaService
	novedades *NovedadService

	supervisor     *domain.Session
	operator       *domain.Session
	supervisorUser *domain.User
	operatorUser   *domain.User
}

func newFixture(t *testing.T, throttle *auth.LoginThrottle) *fixture {
	t.Helper()
	f := &fixture{
		store:       memory.NewStore(),
		credentials: auth.NewCredentialManager(bcrypt.MinCost),
		tokens:      auth.NewTokenManager(testSecret, time.Hour),
		recorder:    &eventRecorder{},
	}

	f.auth = NewAuthService(AuthDependencies{
		UserRepo:    f.store.Users(),
		Credentials: f.credentials,
		Tokens:      f.tokens,
		Throttle:    throttle,
		Dispatcher:  f.recorder,
	})
	f.users = NewUserService(UserDependencies{
		UserRepo:    f.store.Users(),
		Credentials: f.credentials,
		Dispatcher:  f.recorder,
	})
	f.areas = NewAreaService(AreaDependencies{AreaRepo: f.store.Areas(), Dispatcher: f.recorder})
	f.novedades = NewNovedadService(NovedadDependencies{
		NovedadRepo: f.store.Novedades(),
		AreaRepo:    f.store.Areas(),
		UserRepo:    f.store.Users(),
		Dispatcher:  f.recorder,
	})

	f.supervisorUser = f.createUser(t, "supervisor", "sup@example.com", "10000001", "clave-sup", domain.RoleSupervisor)
	f.operatorUser = f.createUser(t, "operador", "op@example.com", "20000002", "clave-op", domain.RoleOperator)
	f.supervisor = sessionOf(f.supervisorUser)
	f.operator = sessionOf(f.operatorUser)
	return f
}

func (f *fixture) createUser(t *testing.T, username, email, document, password string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := f.credentials.HashPassword(password)
	require.NoError(t, err)
	user := &domain.User{
		FirstName:    "Nombre",
		LastName:     "Apellido",
		Username:     username,
		Email:        email,
		Document:     document,
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, f.store.Users().Create(context.Background(), user))
	return user
}

func (f *fixture) createArea(t *testing.T, name string) *domain.Area {
	t.Helper()
	area, err := f.areas.Create(context.Background(), f.supervisor, AreaInput{Name: &name})
	require.NoError(t, err)
	return area
}

func (f *fixture) createNovedad(t *testing.T, session *domain.Session, areaID, content string, tags ...string) *domain.Novedad {
	t.Helper()
	n, err := f.novedades.Create(context.Background(), session, NovedadInput{Content: content, AreaID: areaID, Tags: tags})
	require.NoError(t, err)
	return n
}

func sessionOf(u *domain.User) *domain.Session {
	return &domain.Session{UserID: u.ID, Username: u.Username, Role: u.Role}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, apperrors.HasCode(err, code), "expected %s, got %v", code, err)
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
