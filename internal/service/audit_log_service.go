package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Rodrymza/app-novedades/internal/events"
)

// AuditLogService writes every domain event to the structured log.
type AuditLogService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditLogService creates the service.
func NewAuditLogService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditLogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditLogService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, t := range events.AllEventTypes {
		a.dispatcher.Subscribe(t, a.handle)
	}
}

func (a *AuditLogService) handle(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("entity", string(event.EntityKind)),
		zap.String("entity_id", event.EntityID),
		zap.String("actor_id", event.Actor.UserID),
		zap.Time("at", event.Timestamp),
	}
	if event.Actor.Username != "" {
		fields = append(fields, zap.String("actor_username", event.Actor.Username))
	}

	switch p := event.Payload.(type) {
	case events.LifecyclePayload:
		if p.Reason != "" {
			fields = append(fields, zap.String("reason", p.Reason))
		}
		if p.AuditCleared {
			fields = append(fields, zap.Bool("audit_cleared", true))
		}
	case events.NovedadCreatedPayload:
		fields = append(fields, zap.String("area_id", p.AreaID), zap.Strings("tags", p.Tags))
	case events.UserRegisteredPayload:
		fields = append(fields, zap.String("username", p.Username), zap.String("role", string(p.Role)))
	}

	a.logger.Info(string(event.Type), fields...)
	return nil
}
