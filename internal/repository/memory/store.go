// Package memory holds in-process repositories with the same semantics as the Postgres ones.
// They back the server when no database is configured and the service tests.
package memory

import (
	"sync"
	"time"

	"github.com/Rodrymza/app-novedades/internal/domain"
	"github.com/Rodrymza/app-novedades/internal/repository"
)

// Store is the shared state of the memory repositories. Novedad reads resolve users and
// areas, so all three live behind one lock.
type Store struct {
	mu        sync.RWMutex
	seq       int64
	users     map[string]*domain.User
	areas     map[string]*domain.Area
	novedades map[string]*novedadRow
	now       func() time.Time
}

type novedadRow struct {
	domain.Novedad
	seq int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:     make(map[string]*domain.User),
		areas:     make(map[string]*domain.Area),
		novedades: make(map[string]*novedadRow),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() repository.UserRepository { return &userRepository{s: s} }

// Areas returns the area repository view of the store.
func (s *Store) Areas() repository.AreaRepository { return &areaRepository{s: s} }

// Novedades returns the novedad repository view of the store.
func (s *Store) Novedades() repository.NovedadRepository { return &novedadRepository{s: s} }

// SetClock replaces the time source used for timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

func copyAudit(a *domain.DeleteAudit) *domain.DeleteAudit {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Actor = nil
	return &cp
}

// resolveAudit returns a copy of audit with the actor resolved. Caller holds the lock.
func (s *Store) resolveAudit(a *domain.DeleteAudit) *domain.DeleteAudit {
	cp := copyAudit(a)
	if cp != nil {
		if actor, ok := s.users[cp.ActorID]; ok {
			cp.Actor = actor.Ref()
		}
	}
	return cp
}

func transition(deleted, wantDeleted bool) error {
	if deleted && wantDeleted {
		return repository.ErrAlreadyDeleted
	}
	if !deleted && !wantDeleted {
		return repository.ErrNotDeleted
	}
	return nil
}
