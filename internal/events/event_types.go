package events

import (
	"time"

	"github.com/Rodrymza/app-novedades/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered    EventType = "user_registered"
	EventUserUpdated       EventType = "user_updated"
	EventUserPasswordReset EventType = "user_password_reset"
	EventPasswordChanged   EventType = "password_changed"
	EventAreaCreated       EventType = "area_created"
	EventAreaUpdated       EventType = "area_updated"
	EventNovedadCreated    EventType = "novedad_created"
	EventEntityDeleted     EventType = "entity_deleted"
	EventEntityRestored    EventType = "entity_restored"
)

// AllEventTypes lists every event type, for subscribers interested in all of them.
var AllEventTypes = []EventType{
	EventUserRegistered,
	EventUserUpdated,
	EventUserPasswordReset,
	EventPasswordChanged,
	EventAreaCreated,
	EventAreaUpdated,
	EventNovedadCreated,
	EventEntityDeleted,
	EventEntityRestored,
}

// Actor identifies who triggered an event.
type Actor struct {
	UserID   string      `json:"user_id"`
	Username string      `json:"username,omitempty"`
	Role     domain.Role `json:"role,omitempty"`
}

// ActorFromSession builds an actor from a decoded session.
func ActorFromSession(s *domain.Session) Actor {
	if s == nil {
		return Actor{}
	}
	return Actor{UserID: s.UserID, Username: s.Username, Role: s.Role}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	EntityKind domain.EntityKind `json:"entity_kind"`
	EntityID   string            `json:"entity_id"`
	Actor      Actor             `json:"actor"`
	Timestamp  time.Time         `json:"timestamp"`
	Payload    interface{}       `json:"payload,omitempty"`
}

// LifecyclePayload accompanies EventEntityDeleted and EventEntityRestored.
type LifecyclePayload struct {
	Reason       string `json:"reason,omitempty"`
	AuditCleared bool   `json:"audit_cleared,omitempty"`
}

// NovedadCreatedPayload payload.
type NovedadCreatedPayload struct {
	AreaID string   `json:"area_id"`
	Tags   []string `json:"tags"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}
