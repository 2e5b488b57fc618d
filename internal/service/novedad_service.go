package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Rodrymza/app-novedades/internal/auth"
	"github.com/Rodrymza/app-novedades/internal/domain"
	"github.com/Rodrymza/app-novedades/internal/events"
	"github.com/Rodrymza/app-novedades/internal/observability"
	"github.com/Rodrymza/app-novedades/internal/repository"
	apperrors "github.com/Rodrymza/app-novedades/pkg/util"
)

// DateLayout is the calendar date format accepted by search.
const DateLayout = "2006-01-02"

// NovedadService coordinates novedad workflows.
type NovedadService struct {
	novedades  repository.NovedadRepository
	areas      repository.AreaRepository
	users      repository.UserRepository
	lifecycle  *lifecycle
	dispatcher events.Dispatcher
	location   *time.Location
}

// NovedadDependencies bundles requirements for the novedad service.
type NovedadDependencies struct {
	NovedadRepo repository.NovedadRepository
	AreaRepo    repository.AreaRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	// Location resolves calendar dates of search ranges. Defaults to UTC.
	Location *time.Location
}

// NewNovedadService builds the service.
func NewNovedadService(deps NovedadDependencies) *NovedadService {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	lc := newLifecycle(deps.Dispatcher, deps.Metrics)
	return &NovedadService{
		novedades:  deps.NovedadRepo,
		areas:      deps.AreaRepo,
		users:      deps.UserRepo,
		lifecycle:  lc,
		dispatcher: lc.dispatcher,
		location:   loc,
	}
}

// NovedadInput describes novedad creation payload.
type NovedadInput struct {
	Content string
	AreaID  string
	Tags    []string
}

// Create stores a novedad authored by the session user against an active area.
func (s *NovedadService) Create(ctx context.Context, session *domain.Session, in NovedadInput) (*domain.Novedad, error) {
	if err := auth.RequireAuthenticated(session); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperrors.NewValidationError("Error de contenido", "El contenido no puede estar vacío")
	}
	if utf8.RuneCountInString(content) > domain.NovedadContentMaxLength {
		return nil, apperrors.NewValidationError("Error de contenido",
			fmt.Sprintf("El contenido no puede exceder %d caracteres", domain.NovedadContentMaxLength))
	}
	if strings.TrimSpace(in.AreaID) == "" {
		return nil, apperrors.NewValidationError("Error de área", "El ID del área es requerido")
	}
	areaID, err := parseID(in.AreaID, "area")
	if err != nil {
		return nil, err
	}

	area, err := s.areas.GetByID(ctx, areaID)
	if err != nil {
		return nil, translateRepoError(domain.EntityArea, err)
	}
	if area.IsDeleted {
		return nil, deletedAreaError(area.Name)
	}

	author, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("Usuario no autenticado", "El usuario de la sesión no existe")
		}
		return nil, apperrors.NewInternalError(err)
	}
	if author.IsDeleted {
		return nil, apperrors.NewUnauthorized("Error de autenticación", "Cuenta deshabilitada")
	}

	novedad := &domain.Novedad{
		Content:  content,
		AuthorID: author.ID,
		AreaID:   area.ID,
		Tags:     normalizeTags(in.Tags),
	}
	if err := s.novedades.Create(ctx, novedad); err != nil {
		if errors.Is(err, repository.ErrInactiveReference) {
			return nil, deletedAreaError(area.Name)
		}
		return nil, apperrors.NewInternalError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:       events.EventNovedadCreated,
		EntityKind: domain.EntityNovedad,
		EntityID:   novedad.ID,
		Actor:      events.ActorFromSession(session),
		Payload:    events.NovedadCreatedPayload{AreaID: area.ID, Tags: novedad.Tags},
	})
	return s.load(ctx, session, novedad.ID)
}

func deletedAreaError(name string) error {
	return apperrors.NewValidationError(fmt.Sprintf("Área %s eliminada", name),
		"No se pueden generar novedades sobre áreas eliminadas")
}

// ListActive returns every active novedad, newest first.
func (s *NovedadService) ListActive(ctx context.Context, session *domain.Session) ([]domain.Novedad, error) {
	if err := auth.RequireAuthenticated(session); err != nil {
		return nil, err
	}
	return s.search(ctx, session, repository.NovedadFilter{Scope: domain.ScopeActive})
}

// SearchInput holds the raw search criteria. Empty fields impose no constraint.
type SearchInput struct {
	AuthorID string
	AreaID   string
	Tags     []string
	From     string
	To       string
	Text     string
	Scope    string
	// IsDeleted is the legacy form of Scope, used when Scope is empty.
	IsDeleted *bool
}

// Search runs a filtered query. Non-supervisors only ever see active novedades.
func (s *NovedadService) Search(ctx context.Context, session *domain.Session, in SearchInput) ([]domain.Novedad, error) {
	if err := auth.RequireAuthenticated(session); err != nil {
		return nil, err
	}
	filter, err := s.buildFilter(session, in)
	if err != nil {
		return nil, err
	}
	return s.search(ctx, session, filter)
}

func (s *NovedadService) buildFilter(session *domain.Session, in SearchInput) (repository.NovedadFilter, error) {
	var filter repository.NovedadFilter

	if strings.TrimSpace(in.AuthorID) != "" {
		id, err := parseID(in.AuthorID, "usuario_id")
		if err != nil {
			return filter, err
		}
		filter.AuthorID = &id
	}
	if strings.TrimSpace(in.AreaID) != "" {
		id, err := parseID(in.AreaID, "area_id")
		if err != nil {
			return filter, err
		}
		filter.AreaID = &id
	}
	filter.Tags = normalizeTags(in.Tags)
	filter.Text = strings.TrimSpace(in.Text)

	from, err := s.parseDate(in.From, "fechaInicio")
	if err != nil {
		return filter, err
	}
	to, err := s.parseDate(in.To, "fechaFin")
	if err != nil {
		return filter, err
	}
	if from != nil && to != nil && from.After(*to) {
		return filter, apperrors.NewValidationError("Error de validación", "La fecha de inicio no puede ser posterior a la fecha de fin")
	}
	filter.CreatedFrom = from
	if to != nil {
		end := to.AddDate(0, 0, 1)
		filter.CreatedTo = &end
	}

	requested := domain.ScopeActive
	switch {
	case strings.TrimSpace(in.Scope) != "":
		scope, ok := domain.ParseDeletionScope(in.Scope)
		if !ok {
			return filter, apperrors.NewValidationError("Error de validación", "El alcance debe ser active, deleted o all")
		}
		requested = scope
	case in.IsDeleted != nil && *in.IsDeleted:
		requested = domain.ScopeDeleted
	}
	filter.Scope = domain.EffectiveScope(session, requested)
	return filter, nil
}

// parseDate returns the start of the calendar day raw in the service location.
func (s *NovedadService) parseDate(raw, field string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation(DateLayout, raw, s.location)
	if err != nil {
		return nil, apperrors.NewValidationError("Error de validación",
			fmt.Sprintf("El campo '%s' debe tener el formato AAAA-MM-DD", field))
	}
	return &day, nil
}

func (s *NovedadService) search(ctx context.Context, session *domain.Session, filter repository.NovedadFilter) ([]domain.Novedad, error) {
	found, err := s.novedades.Search(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	for i := range found {
		found[i].DeleteAudit = visibleAudit(session, found[i].IsDeleted, found[i].DeleteAudit)
	}
	return found, nil
}

func (s *NovedadService) load(ctx context.Context, session *domain.Session, id string) (*domain.Novedad, error) {
	n, err := s.novedades.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(domain.EntityNovedad, err)
	}
	n.DeleteAudit = visibleAudit(session, n.IsDeleted, n.DeleteAudit)
	return n, nil
}

// Delete soft-deletes a novedad, recording the reason.
func (s *NovedadService) Delete(ctx context.Context, session *domain.Session, rawID, reason string) (*domain.Novedad, error) {
	id, err := s.lifecycle.Delete(ctx, s.novedades, domain.EntityNovedad, session, rawID, reason)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, session, id)
}

// Restore reactivates a novedad. Its delete audit is kept.
func (s *NovedadService) Restore(ctx context.Context, session *domain.Session, rawID string) (*domain.Novedad, error) {
	id, err := s.lifecycle.Restore(ctx, s.novedades, domain.EntityNovedad, session, rawID)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, session, id)
}
