package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rodrymza/app-novedades/internal/domain"
)

// AreaRepository manages area persistence. Areas carry no delete audit.
type AreaRepository interface {
	LifecycleStore
	Create(ctx context.Context, area *domain.Area) error
	Update(ctx context.Context, area *domain.Area) error
	GetByID(ctx context.Context, id string) (*domain.Area, error)
	List(ctx context.Context, includeDeleted bool) ([]domain.Area, error)
}

type areaRepository struct {
	pool *pgxpool.Pool
}

// NewAreaRepository builds the repository.
func NewAreaRepository(pool *pgxpool.Pool) AreaRepository {
	return &areaRepository{pool: pool}
}

const areaSelect = `
        SELECT id::text, name, description, is_deleted, created_at, updated_at
        FROM areas`

func scanArea(row pgx.Row) (*domain.Area, error) {
	var area domain.Area
	if err := row.Scan(
		&area.ID,
		&area.Name,
		&area.Description,
		&area.IsDeleted,
		&area.CreatedAt,
		&area.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &area, nil
}

func (r *areaRepository) Create(ctx context.Context, area *domain.Area) error {
	const query = `
        INSERT INTO areas (name, description)
        VALUES ($1,$2)
        RETURNING id::text, is_deleted, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		area.Name,
		area.Description,
	).Scan(&area.ID, &area.IsDeleted, &area.CreatedAt, &area.UpdatedAt)
	return mapError(err)
}

func (r *areaRepository) Update(ctx context.Context, area *domain.Area) error {
	const query = `
        UPDATE areas SET name=$1, description=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING is_deleted, updated_at`
	err := r.pool.QueryRow(ctx, query,
		area.Name,
		area.Description,
		area.ID,
	).Scan(&area.IsDeleted, &area.UpdatedAt)
	return mapError(err)
}

func (r *areaRepository) GetByID(ctx context.Context, id string) (*domain.Area, error) {
	area, err := scanArea(r.pool.QueryRow(ctx, areaSelect+` WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return area, nil
}

func (r *areaRepository) List(ctx context.Context, includeDeleted bool) ([]domain.Area, error) {
	query := areaSelect + ` WHERE is_deleted = FALSE ORDER BY name`
	if includeDeleted {
		query = areaSelect + ` ORDER BY name`
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []domain.Area
	for rows.Next() {
		area, err := scanArea(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *area)
	}
	return result, rows.Err()
}

func (r *areaRepository) SoftDelete(ctx context.Context, id string, _ *domain.DeleteAudit) error {
	const query = `UPDATE areas SET is_deleted=TRUE, updated_at=NOW() WHERE id=$1 AND is_deleted=FALSE`
	cmd, err := r.pool.Exec(ctx, query, id)
	return guardedTransition(ctx, r.pool, "areas", id, true, cmd, err)
}

func (r *areaRepository) Restore(ctx context.Context, id string, _ bool) error {
	const query = `UPDATE areas SET is_deleted=FALSE, updated_at=NOW() WHERE id=$1 AND is_deleted=TRUE`
	cmd, err := r.pool.Exec(ctx, query, id)
	return guardedTransition(ctx, r.pool, "areas", id, false, cmd, err)
}
