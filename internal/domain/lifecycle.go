package domain

import "time"

// EntityKind names the entities that share the soft-delete lifecycle.
type EntityKind string

const (
	EntityUser    EntityKind = "user"
	EntityArea    EntityKind = "area"
	EntityNovedad EntityKind = "novedad"
)

// DeleteAudit records the most recent deletion of an entity.
type DeleteAudit struct {
	At      time.Time
	ActorID string
	Reason  string

	// Actor is the current display data of ActorID, when resolved.
	Actor *UserRef
}

// LifecyclePolicy captures the per-entity differences of the soft-delete state machine.
type LifecyclePolicy struct {
	ReasonRequired      bool
	RecordsAudit        bool
	ClearAuditOnRestore bool
	ForbidSelf          bool
}

var lifecyclePolicies = map[EntityKind]LifecyclePolicy{
	EntityUser: {
		ReasonRequired:      true,
		RecordsAudit:        true,
		ClearAuditOnRestore: true,
		ForbidSelf:          true,
	},
	EntityArea: {},
	EntityNovedad: {
		ReasonRequired: true,
		RecordsAudit:   true,
	},
}

// PolicyFor returns the lifecycle policy of kind.
func PolicyFor(kind EntityKind) LifecyclePolicy {
	return lifecyclePolicies[kind]
}

// AuditVisible reports whether a delete audit may be shown to viewer for an entity in the
// given deletion state. Only supervisors looking at a deleted entity see it.
func AuditVisible(viewer *Session, entityDeleted bool) bool {
	return entityDeleted && viewer.IsSupervisor()
}
