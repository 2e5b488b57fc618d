package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Rodrymza/app-novedades/internal/auth"
	"github.com/Rodrymza/app-novedades/internal/domain"
	"github.com/Rodrymza/app-novedades/internal/events"
	"github.com/Rodrymza/app-novedades/internal/observability"
	"github.com/Rodrymza/app-novedades/internal/repository"
	apperrors "github.com/Rodrymza/app-novedades/pkg/util"
)

// AreaService manages areas.
type AreaService struct {
	areas      repository.AreaRepository
	lifecycle  *lifecycle
	dispatcher events.Dispatcher
}

// AreaDependencies bundles requirements for the area service.
type AreaDependencies struct {
	AreaRepo   repository.AreaRepository
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
}

// NewAreaService builds the service.
func NewAreaService(deps AreaDependencies) *AreaService {
	lc := newLifecycle(deps.Dispatcher, deps.Metrics)
	return &AreaService{areas: deps.AreaRepo, lifecycle: lc, dispatcher: lc.dispatcher}
}

// AreaInput carries area fields. On update nil fields are kept; on create a nil or blank
// description gets the default placeholder.
type AreaInput struct {
	Name        *string
	Description *string
}

// List returns active areas, or all of them when a supervisor asks for deleted ones too.
// Non-supervisors asking for deleted areas silently get the active ones.
func (s *AreaService) List(ctx context.Context, session *domain.Session, includeDeleted bool) ([]domain.Area, error) {
	if err := auth.RequireAuthenticated(session); err != nil {
		return nil, err
	}
	areas, err := s.areas.List(ctx, includeDeleted && session.IsSupervisor())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return areas, nil
}

// Create adds an area. Supervisors only.
func (s *AreaService) Create(ctx context.Context, session *domain.Session, in AreaInput) (*domain.Area, error) {
	if err := auth.RequireSupervisor(session); err != nil {
		return nil, err
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, apperrors.NewValidationError("Error al crear área", "Falta nombre")
	}
	area := &domain.Area{}
	if err := applyAreaInput(area, in); err != nil {
		return nil, err
	}
	if area.Description == "" {
		area.Description = domain.DefaultAreaDescription
	}

	if err := s.areas.Create(ctx, area); err != nil {
		return nil, translateRepoError(domain.EntityArea, err)
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:       events.EventAreaCreated,
		EntityKind: domain.EntityArea,
		EntityID:   area.ID,
		Actor:      events.ActorFromSession(session),
	})
	return area, nil
}

// Update edits name and description. Supervisors only.
func (s *AreaService) Update(ctx context.Context, session *domain.Session, rawID string, in AreaInput) (*domain.Area, error) {
	if err := auth.RequireSupervisor(session); err != nil {
		return nil, err
	}
	id, err := parseID(rawID, "id")
	if err != nil {
		return nil, err
	}
	if in.Name == nil && in.Description == nil {
		return nil, apperrors.NewValidationError("Datos faltantes", "No se enviaron datos para actualizar.")
	}

	area, err := s.areas.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(domain.EntityArea, err)
	}
	if err := applyAreaInput(area, in); err != nil {
		return nil, err
	}
	if area.Description == "" {
		area.Description = domain.DefaultAreaDescription
	}
	if err := s.areas.Update(ctx, area); err != nil {
		return nil, translateRepoError(domain.EntityArea, err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:       events.EventAreaUpdated,
		EntityKind: domain.EntityArea,
		EntityID:   id,
		Actor:      events.ActorFromSession(session),
	})
	return area, nil
}

func applyAreaInput(area *domain.Area, in AreaInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return apperrors.NewValidationError("Error en nombre", "El nombre del área no puede estar vacío")
		}
		if utf8.RuneCountInString(name) > domain.AreaNameMaxLength {
			return apperrors.NewValidationError("Error en nombre",
				fmt.Sprintf("El nombre no puede superar %d caracteres", domain.AreaNameMaxLength))
		}
		area.Name = name
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if utf8.RuneCountInString(description) > domain.AreaDescriptionMaxLength {
			return apperrors.NewValidationError("Error en descripción",
				fmt.Sprintf("La descripción no puede superar %d caracteres", domain.AreaDescriptionMaxLength))
		}
		area.Description = description
	}
	return nil
}

// Delete soft-deletes an area. No reason or audit is kept for areas.
func (s *AreaService) Delete(ctx context.Context, session *domain.Session, rawID string) (*domain.Area, error) {
	id, err := s.lifecycle.Delete(ctx, s.areas, domain.EntityArea, session, rawID, "")
	if err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

// Restore reactivates an area.
func (s *AreaService) Restore(ctx context.Context, session *domain.Session, rawID string) (*domain.Area, error) {
	id, err := s.lifecycle.Restore(ctx, s.areas, domain.EntityArea, session, rawID)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

func (s *AreaService) get(ctx context.Context, id string) (*domain.Area, error) {
	area, err := s.areas.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(domain.EntityArea, err)
	}
	return area, nil
}
