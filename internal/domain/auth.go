package domain

// Session is the decoded content of a session token. Only these three fields are trusted
// from the token; everything else is re-read from storage.
type Session struct {
	UserID   string
	Username string
	Role     Role
}

// IsSupervisor reports whether the session carries the supervisor role.
func (s *Session) IsSupervisor() bool {
	return s != nil && s.Role == RoleSupervisor
}
