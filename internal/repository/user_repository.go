package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rodrymza/app-novedades/internal/domain"
)

// UserRepository defines persistence access for users.
type UserRepository interface {
	LifecycleStore
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListSummaries(ctx context.Context) ([]domain.UserSummary, error)
	Count(ctx context.Context) (int, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userSelect = `
        SELECT u.id::text, u.first_name, u.last_name, u.username, u.email, u.document, u.password_hash,
               u.role, u.is_deleted, u.created_at, u.updated_at,
               u.deleted_at, u.deleted_by::text, u.delete_reason,
               d.id::text, d.first_name, d.last_name, d.username, d.role, d.is_deleted
        FROM users u
        LEFT JOIN users d ON d.id = u.deleted_by`

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user  domain.User
		role  string
		audit auditColumns
	)
	targets := []any{
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.Email,
		&user.Document,
		&user.PasswordHash,
		&role,
		&user.IsDeleted,
		&user.CreatedAt,
		&user.UpdatedAt,
	}
	if err := row.Scan(append(targets, audit.targets()...)...); err != nil {
		return nil, err
	}
	user.Role = domain.Role(role)
	user.DeleteAudit = audit.deleteAudit()
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (first_name, last_name, username, email, document, password_hash, role)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id::text, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.FirstName,
		user.LastName,
		user.Username,
		user.Email,
		user.Document,
		user.PasswordHash,
		string(user.Role),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return mapError(err)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET first_name=$1, last_name=$2, username=$3, email=$4, document=$5, role=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.FirstName,
		user.LastName,
		user.Username,
		user.Email,
		user.Document,
		string(user.Role),
		user.ID,
	).Scan(&user.UpdatedAt)
	return mapError(err)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, userSelect+` WHERE u.id=$1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, userSelect+` WHERE lower(u.username)=lower($1)`, username))
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, userSelect+` ORDER BY u.last_name, u.first_name`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func (r *userRepository) ListSummaries(ctx context.Context) ([]domain.UserSummary, error) {
	const query = `
        SELECT id::text, first_name, last_name, document
        FROM users WHERE is_deleted = FALSE
        ORDER BY last_name, first_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []domain.UserSummary
	for rows.Next() {
		var s domain.UserSummary
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Document); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func (r *userRepository) SoftDelete(ctx context.Context, id string, audit *domain.DeleteAudit) error {
	const query = `
        UPDATE users SET is_deleted=TRUE, deleted_at=$2, deleted_by=$3, delete_reason=$4, updated_at=NOW()
        WHERE id=$1 AND is_deleted=FALSE`

	at, actorID, reason := auditArgs(audit)
	cmd, err := r.pool.Exec(ctx, query, id, at, actorID, reason)
	return guardedTransition(ctx, r.pool, "users", id, true, cmd, err)
}

func (r *userRepository) Restore(ctx context.Context, id string, clearAudit bool) error {
	query := `UPDATE users SET is_deleted=FALSE, updated_at=NOW() WHERE id=$1 AND is_deleted=TRUE`
	if clearAudit {
		query = `
        UPDATE users SET is_deleted=FALSE, deleted_at=NULL, deleted_by=NULL, delete_reason=NULL, updated_at=NOW()
        WHERE id=$1 AND is_deleted=TRUE`
	}

	cmd, err := r.pool.Exec(ctx, query, id)
	return guardedTransition(ctx, r.pool, "users", id, false, cmd, err)
}
