package service

import (
	"context"
	"strings"
	"time"

	"github.com/Rodrymza/app-novedades/internal/auth"
	"github.com/Rodrymza/app-novedades/internal/domain"
	"github.com/Rodrymza/app-novedades/internal/events"
	"github.com/Rodrymza/app-novedades/internal/observability"
	"github.com/Rodrymza/app-novedades/internal/repository"
	apperrors "github.com/Rodrymza/app-novedades/pkg/util"
)

// lifecycle runs the Active <-> Deleted transitions shared by users, areas and novedades.
// Per-entity differences come from domain.PolicyFor. Every guard runs before the store is
// touched, and the store applies the transition as one conditional write.
type lifecycle struct {
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	now        func() time.Time
}

func newLifecycle(dispatcher events.Dispatcher, metrics *observability.Metrics) *lifecycle {
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher(nil)
	}
	return &lifecycle{
		dispatcher: dispatcher,
		metrics:    metrics,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Delete soft-deletes the entity rawID of kind on behalf of session and returns its
// canonical id.
func (l *lifecycle) Delete(ctx context.Context, store repository.LifecycleStore, kind domain.EntityKind, session *domain.Session, rawID, reason string) (string, error) {
	id, err := l.deleteGuards(kind, session, rawID, reason)
	if err != nil {
		l.metrics.RecordTransition(string(kind), "delete", "rejected")
		return "", err
	}
	policy := domain.PolicyFor(kind)
	reason = strings.TrimSpace(reason)

	var audit *domain.DeleteAudit
	if policy.RecordsAudit {
		audit = &domain.DeleteAudit{At: l.now(), ActorID: session.UserID, Reason: reason}
	}

	if err := store.SoftDelete(ctx, id, audit); err != nil {
		l.metrics.RecordTransition(string(kind), "delete", "failed")
		return "", translateRepoError(kind, err)
	}
	l.metrics.RecordTransition(string(kind), "delete", "ok")

	_ = l.dispatcher.Publish(ctx, events.Event{
		Type:       events.EventEntityDeleted,
		EntityKind: kind,
		EntityID:   id,
		Actor:      events.ActorFromSession(session),
		Payload:    events.LifecyclePayload{Reason: reason},
	})
	return id, nil
}

func (l *lifecycle) deleteGuards(kind domain.EntityKind, session *domain.Session, rawID, reason string) (string, error) {
	if err := auth.RequireSupervisor(session); err != nil {
		return "", err
	}
	id, err := parseID(rawID, "id")
	if err != nil {
		return "", err
	}
	policy := domain.PolicyFor(kind)
	if policy.ForbidSelf {
		if err := auth.RequireNotSelf(session, id); err != nil {
			return "", err
		}
	}
	if policy.ReasonRequired && strings.TrimSpace(reason) == "" {
		return "", apperrors.NewValidationError("Error de eliminación", "Debe indicar el motivo de la eliminación")
	}
	return id, nil
}

// Restore returns the entity rawID of kind to the active state.
func (l *lifecycle) Restore(ctx context.Context, store repository.LifecycleStore, kind domain.EntityKind, session *domain.Session, rawID string) (string, error) {
	if err := auth.RequireSupervisor(session); err != nil {
		l.metrics.RecordTransition(string(kind), "restore", "rejected")
		return "", err
	}
	id, err := parseID(rawID, "id")
	if err != nil {
		l.metrics.RecordTransition(string(kind), "restore", "rejected")
		return "", err
	}

	policy := domain.PolicyFor(kind)
	if err := store.Restore(ctx, id, policy.ClearAuditOnRestore); err != nil {
		l.metrics.RecordTransition(string(kind), "restore", "failed")
		return "", translateRepoError(kind, err)
	}
	l.metrics.RecordTransition(string(kind), "restore", "ok")

	_ = l.dispatcher.Publish(ctx, events.Event{
		Type:       events.EventEntityRestored,
		EntityKind: kind,
		EntityID:   id,
		Actor:      events.ActorFromSession(session),
		Payload:    events.LifecyclePayload{AuditCleared: policy.ClearAuditOnRestore},
	})
	return id, nil
}

// visibleAudit returns audit when viewer may see it for an entity in the given state.
func visibleAudit(viewer *domain.Session, deleted bool, audit *domain.DeleteAudit) *domain.DeleteAudit {
	if !domain.AuditVisible(viewer, deleted) {
		return nil
	}
	return audit
}
