package domain

import "strings"

// DeletionScope selects which lifecycle states a listing returns.
type DeletionScope string

const (
	ScopeActive  DeletionScope = "active"
	ScopeDeleted DeletionScope = "deleted"
	ScopeAll     DeletionScope = "all"
)

// ParseDeletionScope maps a client supplied scope. Unknown values yield ok=false.
func ParseDeletionScope(raw string) (DeletionScope, bool) {
	switch DeletionScope(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ScopeActive:
		return ScopeActive, true
	case ScopeDeleted:
		return ScopeDeleted, true
	case ScopeAll:
		return ScopeAll, true
	}
	return "", false
}

// EffectiveScope coerces requested to what viewer may see. Non-supervisors always get
// ScopeActive, whatever they asked for.
func EffectiveScope(viewer *Session, requested DeletionScope) DeletionScope {
	if !viewer.IsSupervisor() || requested == "" {
		return ScopeActive
	}
	return requested
}

// Includes reports whether an entity in the given deletion state belongs to the scope.
func (s DeletionScope) Includes(deleted bool) bool {
	switch s {
	case ScopeDeleted:
		return deleted
	case ScopeAll:
		return true
	default:
		return !deleted
	}
}
