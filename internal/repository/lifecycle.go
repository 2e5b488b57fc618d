package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rodrymza/app-novedades/internal/domain"
)

// LifecycleStore performs the guarded soft-delete transitions of one entity kind.
// SoftDelete fails with ErrAlreadyDeleted on a deleted row, Restore with ErrNotDeleted on an
// active one, and both with ErrNotFound on unknown ids.
type LifecycleStore interface {
	SoftDelete(ctx context.Context, id string, audit *domain.DeleteAudit) error
	Restore(ctx context.Context, id string, clearAudit bool) error
}

// resolveTransition explains why a guarded UPDATE on table touched no rows.
func resolveTransition(ctx context.Context, pool *pgxpool.Pool, table, id string, wantDeleted bool) error {
	var deleted bool
	query := fmt.Sprintf("SELECT is_deleted FROM %s WHERE id=$1", table)
	if err := pool.QueryRow(ctx, query, id).Scan(&deleted); err != nil {
		return mapError(err)
	}
	return lostTransition(wantDeleted)
}

// lostTransition is the error of a transition whose row exists but was not in the source
// state, either before the update or because a concurrent writer won.
func lostTransition(wantDeleted bool) error {
	if wantDeleted {
		return ErrAlreadyDeleted
	}
	return ErrNotDeleted
}

func guardedTransition(ctx context.Context, pool *pgxpool.Pool, table, id string, wantDeleted bool, cmd pgconn.CommandTag, err error) error {
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return resolveTransition(ctx, pool, table, id, wantDeleted)
	}
	return nil
}

// auditColumns scans the audit columns shared by users and novedades.
type auditColumns struct {
	At      *time.Time
	ActorID *string
	Reason  *string
	Actor   refColumns
}

// refColumns scans a LEFT JOINed users row.
type refColumns struct {
	ID        *string
	FirstName *string
	LastName  *string
	Username  *string
	Role      *string
	IsDeleted *bool
}

func (r refColumns) userRef() *domain.UserRef {
	if r.ID == nil {
		return nil
	}
	ref := &domain.UserRef{ID: *r.ID}
	if r.FirstName != nil {
		ref.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		ref.LastName = *r.LastName
	}
	if r.Username != nil {
		ref.Username = *r.Username
	}
	if r.Role != nil {
		ref.Role = domain.Role(*r.Role)
	}
	if r.IsDeleted != nil {
		ref.IsDeleted = *r.IsDeleted
	}
	return ref
}

func (r *refColumns) targets() []any {
	return []any{&r.ID, &r.FirstName, &r.LastName, &r.Username, &r.Role, &r.IsDeleted}
}

func (a auditColumns) deleteAudit() *domain.DeleteAudit {
	if a.At == nil {
		return nil
	}
	audit := &domain.DeleteAudit{At: *a.At, Actor: a.Actor.userRef()}
	if a.ActorID != nil {
		audit.ActorID = *a.ActorID
	}
	if a.Reason != nil {
		audit.Reason = *a.Reason
	}
	return audit
}

func (a *auditColumns) targets() []any {
	return append([]any{&a.At, &a.ActorID, &a.Reason}, a.Actor.targets()...)
}

func auditArgs(audit *domain.DeleteAudit) (at *time.Time, actorID, reason *string) {
	if audit == nil {
		return nil, nil, nil
	}
	t := audit.At
	at = &t
	if audit.ActorID != "" {
		id := audit.ActorID
		actorID = &id
	}
	r := audit.Reason
	reason = &r
	return at, actorID, reason
}
