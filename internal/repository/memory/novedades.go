package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/Rodrymza/app-novedades/internal/domain"
	"github.com/Rodrymza/app-novedades/internal/repository"
)

type novedadRepository struct {
	s *Store
}

// resolve copies row and attaches the current author, area and audit actor. Caller holds the lock.
func (r *novedadRepository) resolve(row *novedadRow) domain.Novedad {
	n := row.Novedad
	n.Tags = append([]string{}, row.Tags...)
	n.DeleteAudit = r.s.resolveAudit(row.DeleteAudit)
	n.Author = nil
	n.Area = nil
	if u, ok := r.s.users[n.AuthorID]; ok {
		n.Author = u.Ref()
	}
	if a, ok := r.s.areas[n.AreaID]; ok {
		n.Area = &domain.AreaRef{ID: a.ID, Name: a.Name, IsDeleted: a.IsDeleted}
	}
	return n
}

func (r *novedadRepository) Create(_ context.Context, novedad *domain.Novedad) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	area, ok := r.s.areas[novedad.AreaID]
	if !ok || area.IsDeleted {
		return repository.ErrInactiveReference
	}
	author, ok := r.s.users[novedad.AuthorID]
	if !ok || author.IsDeleted {
		return repository.ErrInactiveReference
	}

	now := r.s.now()
	novedad.ID = uuid.NewString()
	novedad.IsDeleted = false
	novedad.DeleteAudit = nil
	novedad.CreatedAt = now
	novedad.UpdatedAt = now
	if novedad.Tags == nil {
		novedad.Tags = []string{}
	}

	row := &novedadRow{Novedad: *novedad, seq: r.s.nextSeq()}
	row.Tags = append([]string{}, novedad.Tags...)
	row.Author = nil
	row.Area = nil
	r.s.novedades[novedad.ID] = row
	return nil
}

func (r *novedadRepository) GetByID(_ context.Context, id string) (*domain.Novedad, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.novedades[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	n := r.resolve(row)
	return &n, nil
}

func (r *novedadRepository) Search(_ context.Context, filter repository.NovedadFilter) ([]domain.Novedad, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*novedadRow, 0, len(r.s.novedades))
	for _, row := range r.s.novedades {
		if filter.Matches(&row.Novedad) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})

	result := make([]domain.Novedad, 0, len(rows))
	for _, row := range rows {
		result = append(result, r.resolve(row))
	}
	return result, nil
}

func (r *novedadRepository) SoftDelete(_ context.Context, id string, audit *domain.DeleteAudit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.novedades[id]
	if !ok {
		return repository.ErrNotFound
	}
	if err := transition(row.IsDeleted, true); err != nil {
		return err
	}
	row.IsDeleted = true
	row.DeleteAudit = copyAudit(audit)
	row.UpdatedAt = r.s.now()
	return nil
}

func (r *novedadRepository) Restore(_ context.Context, id string, clearAudit bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.novedades[id]
	if !ok {
		return repository.ErrNotFound
	}
	if err := transition(row.IsDeleted, false); err != nil {
		return err
	}
	row.IsDeleted = false
	if clearAudit {
		row.DeleteAudit = nil
	}
	row.UpdatedAt = r.s.now()
	return nil
}
