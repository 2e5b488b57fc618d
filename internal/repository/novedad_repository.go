package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rodrymza/app-novedades/internal/domain"
)

// NovedadRepository encapsulates novedad persistence. Reads resolve the current author,
// area and delete actor through LEFT JOINs, so missing references come back as nil refs.
type NovedadRepository interface {
	LifecycleStore
	// Create inserts only while both author and area exist and are active; otherwise it
	// returns ErrInactiveReference and nothing is written.
	Create(ctx context.Context, novedad *domain.Novedad) error
	GetByID(ctx context.Context, id string) (*domain.Novedad, error)
	Search(ctx context.Context, filter NovedadFilter) ([]domain.Novedad, error)
}

type novedadRepository struct {
	pool *pgxpool.Pool
}

// NewNovedadRepository instantiates repository.
func NewNovedadRepository(pool *pgxpool.Pool) NovedadRepository {
	return &novedadRepository{pool: pool}
}

const novedadSelect = `
        SELECT n.id::text, n.content, n.author_id::text, n.area_id::text, n.tags, n.is_deleted,
               n.created_at, n.updated_at,
               u.id::text, u.first_name, u.last_name, u.username, u.role, u.is_deleted,
               a.id::text, a.name, a.is_deleted,
               n.deleted_at, n.deleted_by::text, n.delete_reason,
               d.id::text, d.first_name, d.last_name, d.username, d.role, d.is_deleted
        FROM novedades n
        LEFT JOIN users u ON u.id = n.author_id
        LEFT JOIN areas a ON a.id = n.area_id
        LEFT JOIN users d ON d.id = n.deleted_by`

func scanNovedad(row pgx.Row) (*domain.Novedad, error) {
	var (
		n      domain.Novedad
		author refColumns
		areaID *string
		name   *string
		areaDl *bool
		audit  auditColumns
	)
	targets := []any{
		&n.ID,
		&n.Content,
		&n.AuthorID,
		&n.AreaID,
		&n.Tags,
		&n.IsDeleted,
		&n.CreatedAt,
		&n.UpdatedAt,
	}
	targets = append(targets, author.targets()...)
	targets = append(targets, &areaID, &name, &areaDl)
	targets = append(targets, audit.targets()...)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	n.Author = author.userRef()
	if areaID != nil {
		n.Area = &domain.AreaRef{ID: *areaID}
		if name != nil {
			n.Area.Name = *name
		}
		if areaDl != nil {
			n.Area.IsDeleted = *areaDl
		}
	}
	n.DeleteAudit = audit.deleteAudit()
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return &n, nil
}

func (r *novedadRepository) Create(ctx context.Context, novedad *domain.Novedad) error {
	const query = `
        INSERT INTO novedades (content, author_id, area_id, tags)
        SELECT $1, $2, $3, $4
        WHERE EXISTS (SELECT 1 FROM areas WHERE id=$3 AND is_deleted=FALSE)
          AND EXISTS (SELECT 1 FROM users WHERE id=$2 AND is_deleted=FALSE)
        RETURNING id::text, created_at, updated_at`

	tags := novedad.Tags
	if tags == nil {
		tags = []string{}
	}
	err := r.pool.QueryRow(ctx, query,
		novedad.Content,
		novedad.AuthorID,
		novedad.AreaID,
		tags,
	).Scan(&novedad.ID, &novedad.CreatedAt, &novedad.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInactiveReference
		}
		return mapError(err)
	}
	return nil
}

func (r *novedadRepository) GetByID(ctx context.Context, id string) (*domain.Novedad, error) {
	n, err := scanNovedad(r.pool.QueryRow(ctx, novedadSelect+` WHERE n.id=$1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return n, nil
}

func (r *novedadRepository) Search(ctx context.Context, filter NovedadFilter) ([]domain.Novedad, error) {
	where, args := filter.whereClause(nil)
	query := novedadSelect + " WHERE " + where + " ORDER BY n.created_at DESC, n.id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := []domain.Novedad{}
	for rows.Next() {
		n, err := scanNovedad(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *n)
	}
	return result, rows.Err()
}

func (r *novedadRepository) SoftDelete(ctx context.Context, id string, audit *domain.DeleteAudit) error {
	const query = `
        UPDATE novedades SET is_deleted=TRUE, deleted_at=$2, deleted_by=$3, delete_reason=$4, updated_at=NOW()
        WHERE id=$1 AND is_deleted=FALSE`

	at, actorID, reason := auditArgs(audit)
	cmd, err := r.pool.Exec(ctx, query, id, at, actorID, reason)
	return guardedTransition(ctx, r.pool, "novedades", id, true, cmd, err)
}

func (r *novedadRepository) Restore(ctx context.Context, id string, clearAudit bool) error {
	query := `UPDATE novedades SET is_deleted=FALSE, updated_at=NOW() WHERE id=$1 AND is_deleted=TRUE`
	if clearAudit {
		query = `
        UPDATE novedades SET is_deleted=FALSE, deleted_at=NULL, deleted_by=NULL, delete_reason=NULL, updated_at=NOW()
        WHERE id=$1 AND is_deleted=TRUE`
	}
	cmd, err := r.pool.Exec(ctx, query, id)
	return guardedTransition(ctx, r.pool, "novedades", id, false, cmd, err)
}
