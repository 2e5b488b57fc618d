package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Rodrymza/app-novedades/internal/auth"
	"github.com/Rodrymza/app-novedades/internal/config"
	"github.com/Rodrymza/app-novedades/internal/domain"
	"github.com/Rodrymza/app-novedades/internal/events"
	"github.com/Rodrymza/app-novedades/internal/observability"
	"github.com/Rodrymza/app-novedades/internal/repository"
	apperrors "github.com/Rodrymza/app-novedades/pkg/util"
)

// AuthService coordinates login, profile, password change and registration flows.
type AuthService struct {
	users       repository.UserRepository
	credentials *auth.CredentialManager
	tokens      *auth.TokenManager
	throttle    *auth.LoginThrottle
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	Credentials *auth.CredentialManager
	Tokens      *auth.TokenManager
	Throttle    *auth.LoginThrottle
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher(logger)
	}
	return &AuthService{
		users:       deps.UserRepo,
		credentials: deps.Credentials,
		tokens:      deps.Tokens,
		throttle:    deps.Throttle,
		dispatcher:  dispatcher,
		metrics:     deps.Metrics,
		logger:      logger,
	}
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Login authenticates username/password and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperrors.NewValidationError("Error de autenticación", "Falta usuario")
	}
	if password == "" {
		return nil, apperrors.NewValidationError("Error de autenticación", "Falta contraseña")
	}

	if err := s.throttle.Allow(ctx, username); err != nil {
		s.metrics.RecordLogin("throttled")
		return nil, apperrors.NewTooManyAttempts("Demasiados intentos fallidos. Intente nuevamente más tarde.")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewInternalError(err)
		}
		s.credentials.BurnComparison(password)
		s.throttle.RecordFailure(ctx, username)
		s.metrics.RecordLogin("unknown_user")
		return nil, apperrors.NewUnauthorized("Error de autenticación", "El usuario ingresado no existe")
	}

	if !s.credentials.VerifyPassword(password, user.PasswordHash) {
		s.throttle.RecordFailure(ctx, username)
		s.metrics.RecordLogin("wrong_password")
		return nil, apperrors.NewUnauthorized("Error de autenticación", "La contraseña ingresada es incorrecta")
	}
	if user.IsDeleted {
		s.metrics.RecordLogin("disabled")
		return nil, apperrors.NewUnauthorized("Error de autenticación", "Cuenta deshabilitada")
	}

	s.throttle.Reset(ctx, username)
	token, exp, err := s.tokens.GenerateToken(domain.Session{UserID: user.ID, Username: user.Username, Role: user.Role})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.metrics.RecordLogin("ok")
	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))

	user.DeleteAudit = nil
	return &LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// Logout ends the session. Tokens are stateless, so this only checks the caller is
// authenticated; the transport discards the token.
func (s *AuthService) Logout(_ context.Context, session *domain.Session) error {
	if err := auth.RequireAuthenticated(session); err != nil {
		return err
	}
	s.logger.Info("user logged out", zap.String("user_id", session.UserID))
	return nil
}

// Profile re-reads the live record of the session user.
func (s *AuthService) Profile(ctx context.Context, session *domain.Session) (*domain.User, error) {
	if err := auth.RequireAuthenticated(session); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, translateRepoError(domain.EntityUser, err)
	}
	user.DeleteAudit = visibleAudit(session, user.IsDeleted, user.DeleteAudit)
	return user, nil
}

// ChangePassword replaces the session user's password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, session *domain.Session, current, next string) error {
	if err := auth.RequireAuthenticated(session); err != nil {
		return err
	}
	if current == "" || next == "" {
		return apperrors.NewValidationError("Datos faltantes", "Faltan datos para actualizar la contraseña.")
	}
	if current == next {
		return apperrors.NewValidationError("Datos inválidos", "La nueva contraseña no puede ser igual a la actual.")
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return translateRepoError(domain.EntityUser, err)
	}
	if !s.credentials.VerifyPassword(current, user.PasswordHash) {
		return apperrors.NewUnauthorized("Contraseña incorrecta", "La contraseña actual no es correcta.")
	}

	hash, err := s.hash(next)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return translateRepoError(domain.EntityUser, err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:       events.EventPasswordChanged,
		EntityKind: domain.EntityUser,
		EntityID:   user.ID,
		Actor:      events.ActorFromSession(session),
	})
	return nil
}

// RegisterInput carries the raw fields of a new user.
type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Document  string
	Password  string
	Role      string
}

// Register creates a user on behalf of a supervisor.
func (s *AuthService) Register(ctx context.Context, session *domain.Session, in RegisterInput) (*domain.User, error) {
	if err := auth.RequireSupervisor(session); err != nil {
		return nil, err
	}
	user, err := s.buildUser(in)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, translateRepoError(domain.EntityUser, err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:       events.EventUserRegistered,
		EntityKind: domain.EntityUser,
		EntityID:   user.ID,
		Actor:      events.ActorFromSession(session),
		Payload:    events.UserRegisteredPayload{Username: user.Username, Role: user.Role},
	})
	return user, nil
}

func (s *AuthService) buildUser(in RegisterInput) (*domain.User, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" ||
		strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Document) == "" {
		return nil, apperrors.NewValidationError("Faltan datos", "Nombre, apellido, email y documento son obligatorios.")
	}
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return nil, apperrors.NewValidationError("Faltan datos", "El nombre de usuario y la contraseña son obligatorios.")
	}

	firstName, err := normalizePersonName(in.FirstName, "nombre")
	if err != nil {
		return nil, err
	}
	lastName, err := normalizePersonName(in.LastName, "apellido")
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	username, err := normalizeUsername(in.Username)
	if err != nil {
		return nil, err
	}
	document, err := normalizeDocument(in.Document)
	if err != nil {
		return nil, err
	}
	role, err := parseRole(in.Role)
	if err != nil {
		return nil, err
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		FirstName:    firstName,
		LastName:     lastName,
		Username:     username,
		Email:        email,
		Document:     document,
		PasswordHash: hash,
		Role:         role,
	}, nil
}

// EnsureBootstrapSupervisor creates the configured supervisor when no user exists yet.
func (s *AuthService) EnsureBootstrapSupervisor(ctx context.Context, cfg config.BootstrapConfig) (bool, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	user, err := s.buildUser(RegisterInput{
		FirstName: cfg.FirstName,
		LastName:  cfg.LastName,
		Username:  cfg.Username,
		Email:     cfg.Email,
		Document:  cfg.Document,
		Password:  cfg.Password,
		Role:      string(domain.RoleSupervisor),
	})
	if err != nil {
		return false, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return false, err
	}

	s.logger.Warn("empty user store; default supervisor created", zap.String("username", user.Username))
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:       events.EventUserRegistered,
		EntityKind: domain.EntityUser,
		EntityID:   user.ID,
		Payload:    events.UserRegisteredPayload{Username: user.Username, Role: user.Role},
	})
	return true, nil
}

func (s *AuthService) hash(password string) (string, error) {
	hash, err := s.credentials.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", apperrors.NewValidationError("Contraseña inválida", "La contraseña no puede superar 72 bytes.")
	}
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return hash, nil
}

func parseRole(raw string) (domain.Role, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return domain.RoleOperator, nil
	}
	role := domain.Role(raw)
	if !role.Valid() {
		return "", apperrors.NewValidationError("Rol inválido", "El rol debe ser OPERADOR o SUPERVISOR.")
	}
	return role, nil
}
