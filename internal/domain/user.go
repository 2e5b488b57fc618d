package domain

import "time"

// Role enumerates the two fixed user roles.
type Role string

const (
	RoleOperator   Role = "OPERADOR"
	RoleSupervisor Role = "SUPERVISOR"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleOperator || r == RoleSupervisor
}

// User is an operator or supervisor account. Users are never physically removed.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Username     string
	Email        string
	Document     string
	PasswordHash string
	Role         Role
	IsDeleted    bool
	DeleteAudit  *DeleteAudit
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Ref returns the display reference of the user.
func (u *User) Ref() *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Role:      u.Role,
		IsDeleted: u.IsDeleted,
	}
}

// UserRef is the current display data of a referenced user, resolved at read time.
type UserRef struct {
	ID        string
	FirstName string
	LastName  string
	Username  string
	Role      Role
	IsDeleted bool
}

// UserSummary is the lightweight projection used by selection pickers.
type UserSummary struct {
	ID        string
	FirstName string
	LastName  string
	Document  string
}
