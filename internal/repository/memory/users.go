package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Rodrymza/app-novedades/internal/domain"
	"github.com/Rodrymza/app-novedades/internal/repository"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) copyUser(u *domain.User) *domain.User {
	cp := *u
	cp.DeleteAudit = r.s.resolveAudit(u.DeleteAudit)
	return &cp
}

// uniqueViolation reports the first unique field of u already used by another user.
func (r *userRepository) uniqueViolation(u *domain.User) error {
	for id, other := range r.s.users {
		if id == u.ID {
			continue
		}
		switch {
		case strings.EqualFold(other.Username, u.Username):
			return &repository.DuplicateError{Field: "username"}
		case strings.EqualFold(other.Email, u.Email):
			return &repository.DuplicateError{Field: "email"}
		case other.Document == u.Document:
			return &repository.DuplicateError{Field: "document"}
		}
	}
	return nil
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.ID = ""
	if err := r.uniqueViolation(user); err != nil {
		return err
	}
	now := r.s.now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.IsDeleted = false
	user.DeleteAudit = nil
	stored := *user
	r.s.users[user.ID] = &stored
	return nil
}

func (r *userRepository) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.uniqueViolation(user); err != nil {
		return err
	}
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.Username = user.Username
	stored.Email = user.Email
	stored.Document = user.Document
	stored.Role = user.Role
	stored.UpdatedAt = r.s.now()
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *userRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.PasswordHash = passwordHash
	stored.UpdatedAt = r.s.now()
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.copyUser(u), nil
}

func (r *userRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			return r.copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) sorted() []*domain.User {
	users := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].LastName != users[j].LastName {
			return users[i].LastName < users[j].LastName
		}
		if users[i].FirstName != users[j].FirstName {
			return users[i].FirstName < users[j].FirstName
		}
		return users[i].ID < users[j].ID
	})
	return users
}

func (r *userRepository) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.sorted() {
		result = append(result, *r.copyUser(u))
	}
	return result, nil
}

func (r *userRepository) ListSummaries(_ context.Context) ([]domain.UserSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []domain.UserSummary{}
	for _, u := range r.sorted() {
		if u.IsDeleted {
			continue
		}
		result = append(result, domain.UserSummary{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Document:  u.Document,
		})
	}
	return result, nil
}

func (r *userRepository) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.users), nil
}

func (r *userRepository) SoftDelete(_ context.Context, id string, audit *domain.DeleteAudit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if err := transition(u.IsDeleted, true); err != nil {
		return err
	}
	u.IsDeleted = true
	u.DeleteAudit = copyAudit(audit)
	u.UpdatedAt = r.s.now()
	return nil
}

func (r *userRepository) Restore(_ context.Context, id string, clearAudit bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if err := transition(u.IsDeleted, false); err != nil {
		return err
	}
	u.IsDeleted = false
	if clearAudit {
		u.DeleteAudit = nil
	}
	u.UpdatedAt = r.s.now()
	return nil
}
