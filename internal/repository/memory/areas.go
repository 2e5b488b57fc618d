package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Rodrymza/app-novedades/internal/domain"
	"github.com/Rodrymza/app-novedades/internal/repository"
)

type areaRepository struct {
	s *Store
}

func (r *areaRepository) nameTaken(id, name string) bool {
	for otherID, a := range r.s.areas {
		if otherID != id && strings.EqualFold(a.Name, name) {
			return true
		}
	}
	return false
}

func (r *areaRepository) Create(_ context.Context, area *domain.Area) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken("", area.Name) {
		return &repository.DuplicateError{Field: "name"}
	}
	now := r.s.now()
	area.ID = uuid.NewString()
	area.IsDeleted = false
	area.CreatedAt = now
	area.UpdatedAt = now
	stored := *area
	r.s.areas[area.ID] = &stored
	return nil
}

func (r *areaRepository) Update(_ context.Context, area *domain.Area) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.areas[area.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.nameTaken(area.ID, area.Name) {
		return &repository.DuplicateError{Field: "name"}
	}
	stored.Name = area.Name
	stored.Description = area.Description
	stored.UpdatedAt = r.s.now()
	area.IsDeleted = stored.IsDeleted
	area.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *areaRepository) GetByID(_ context.Context, id string) (*domain.Area, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.areas[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *areaRepository) List(_ context.Context, includeDeleted bool) ([]domain.Area, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []domain.Area{}
	for _, a := range r.s.areas {
		if a.IsDeleted && !includeDeleted {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *areaRepository) SoftDelete(_ context.Context, id string, _ *domain.DeleteAudit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.areas[id]
	if !ok {
		return repository.ErrNotFound
	}
	if err := transition(a.IsDeleted, true); err != nil {
		return err
	}
	a.IsDeleted = true
	a.UpdatedAt = r.s.now()
	return nil
}

func (r *areaRepository) Restore(_ context.Context, id string, _ bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.areas[id]
	if !ok {
		return repository.ErrNotFound
	}
	if err := transition(a.IsDeleted, false); err != nil {
		return err
	}
	a.IsDeleted = false
	a.UpdatedAt = r.s.now()
	return nil
}
