package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Rodrymza/app-novedades/internal/auth"
	"github.com/Rodrymza/app-novedades/internal/domain"
	"github.com/Rodrymza/app-novedades/internal/events"
	"github.com/Rodrymza/app-novedades/internal/observability"
	"github.com/Rodrymza/app-novedades/internal/repository"
	apperrors "github.com/Rodrymza/app-novedades/pkg/util"
)

// UserService implements user administration.
type UserService struct {
	users       repository.UserRepository
	credentials *auth.CredentialManager
	lifecycle   *lifecycle
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// UserDependencies bundles requirements for the user service.
type UserDependencies struct {
	UserRepo    repository.UserRepository
	Credentials *auth.CredentialManager
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// NewUserService builds the service.
func NewUserService(deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	lc := newLifecycle(deps.Dispatcher, deps.Metrics)
	return &UserService{
		users:       deps.UserRepo,
		credentials: deps.Credentials,
		lifecycle:   lc,
		dispatcher:  lc.dispatcher,
		logger:      logger,
	}
}

// UserUpdateInput holds the profile fields to change; nil fields are kept.
type UserUpdateInput struct {
	FirstName *string
	LastName  *string
	Username  *string
	Email     *string
	Document  *string
	Role      *string
}

func (in UserUpdateInput) empty() bool {
	return in.FirstName == nil && in.LastName == nil && in.Username == nil &&
		in.Email == nil && in.Document == nil && in.Role == nil
}

// List returns every user, deleted ones included. Supervisors only.
func (s *UserService) List(ctx context.Context, session *domain.Session) ([]domain.User, error) {
	if err := auth.RequireSupervisor(session); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	for i := range users {
		users[i].DeleteAudit = visibleAudit(session, users[i].IsDeleted, users[i].DeleteAudit)
	}
	return users, nil
}

// Summaries lists active users for selection pickers.
func (s *UserService) Summaries(ctx context.Context, session *domain.Session) ([]domain.UserSummary, error) {
	if err := auth.RequireAuthenticated(session); err != nil {
		return nil, err
	}
	summaries, err := s.users.ListSummaries(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return summaries, nil
}

// Get returns one user. Supervisors may read anyone, other users only themselves.
func (s *UserService) Get(ctx context.Context, session *domain.Session, rawID string) (*domain.User, error) {
	if err := auth.RequireAuthenticated(session); err != nil {
		return nil, err
	}
	id, err := parseID(rawID, "id")
	if err != nil {
		return nil, err
	}
	if !session.IsSupervisor() && session.UserID != id {
		return nil, apperrors.NewForbidden("Acceso denegado", "Solo puedes consultar tu propio usuario")
	}
	return s.load(ctx, session, id)
}

func (s *UserService) load(ctx context.Context, session *domain.Session, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(domain.EntityUser, err)
	}
	user.DeleteAudit = visibleAudit(session, user.IsDeleted, user.DeleteAudit)
	return user, nil
}

// Update edits profile fields and role. Supervisors only.
func (s *UserService) Update(ctx context.Context, session *domain.Session, rawID string, in UserUpdateInput) (*domain.User, error) {
	if err := auth.RequireSupervisor(session); err != nil {
		return nil, err
	}
	id, err := parseID(rawID, "id")
	if err != nil {
		return nil, err
	}
	if in.empty() {
		return nil, apperrors.NewValidationError("Datos faltantes", "No se enviaron datos para actualizar.")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(domain.EntityUser, err)
	}
	if err := applyUserUpdate(user, in); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, translateRepoError(domain.EntityUser, err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:       events.EventUserUpdated,
		EntityKind: domain.EntityUser,
		EntityID:   id,
		Actor:      events.ActorFromSession(session),
	})
	return s.load(ctx, session, id)
}

func applyUserUpdate(user *domain.User, in UserUpdateInput) error {
	var err error
	if in.FirstName != nil {
		if user.FirstName, err = normalizePersonName(*in.FirstName, "nombre"); err != nil {
			return err
		}
	}
	if in.LastName != nil {
		if user.LastName, err = normalizePersonName(*in.LastName, "apellido"); err != nil {
			return err
		}
	}
	if in.Username != nil {
		if user.Username, err = normalizeUsername(*in.Username); err != nil {
			return err
		}
	}
	if in.Email != nil {
		if user.Email, err = normalizeEmail(*in.Email); err != nil {
			return err
		}
	}
	if in.Document != nil {
		if user.Document, err = normalizeDocument(*in.Document); err != nil {
			return err
		}
	}
	if in.Role != nil {
		if user.Role, err = parseRole(*in.Role); err != nil {
			return err
		}
	}
	return nil
}

// Delete soft-deletes a user. A supervisor cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, session *domain.Session, rawID, reason string) (*domain.User, error) {
	id, err := s.lifecycle.Delete(ctx, s.users, domain.EntityUser, session, rawID, reason)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, session, id)
}

// Restore reactivates a user and clears its delete audit.
func (s *UserService) Restore(ctx context.Context, session *domain.Session, rawID string) (*domain.User, error) {
	id, err := s.lifecycle.Restore(ctx, s.users, domain.EntityUser, session, rawID)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, session, id)
}

// ResetPassword sets the user's password to their document number.
func (s *UserService) ResetPassword(ctx context.Context, session *domain.Session, rawID string) error {
	if err := auth.RequireSupervisor(session); err != nil {
		return err
	}
	id, err := parseID(rawID, "id")
	if err != nil {
		return err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return translateRepoError(domain.EntityUser, err)
	}
	if err := s.credentials.ResetPasswordToDocument(user); err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, user.PasswordHash); err != nil {
		return translateRepoError(domain.EntityUser, err)
	}

	s.logger.Info("password reset to document", zap.String("user_id", id), zap.String("by", session.UserID))
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:       events.EventUserPasswordReset,
		EntityKind: domain.EntityUser,
		EntityID:   id,
		Actor:      events.ActorFromSession(session),
	})
	return nil
}
