package dto

import (
	"time"

	"github.com/Rodrymza/app-novedades/internal/domain"
)

// Display values used when a referenced user no longer resolves.
const (
	MissingID        = "Sin ID"
	MissingFirstName = "Usuario"
	MissingLastName  = "Eliminado"
	MissingUsername  = "Desconocido"
	MissingReason    = "Sin motivo"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username" validate:"max=100"`
	Password string `json:"password" validate:"max=72"`
}

// ChangePasswordRequest payload for the self password change.
type ChangePasswordRequest struct {
	Current string `json:"passwordActual" validate:"max=72"`
	Next    string `json:"passwordNuevo" validate:"max=72"`
}

// RegisterRequest payload for new users.
type RegisterRequest struct {
	FirstName string `json:"nombre" validate:"max=50"`
	LastName  string `json:"apellido" validate:"max=50"`
	Username  string `json:"username" validate:"max=100"`
	Email     string `json:"email" validate:"max=254"`
	Document  string `json:"documento" validate:"max=30"`
	Password  string `json:"password" validate:"max=72"`
	Role      string `json:"rol" validate:"omitempty,oneof=OPERADOR SUPERVISOR operador supervisor"`
}

// UpdateUserRequest holds the fields a supervisor may edit. Absent fields are kept.
type UpdateUserRequest struct {
	FirstName *string `json:"nombre" validate:"omitempty,max=50"`
	LastName  *string `json:"apellido" validate:"omitempty,max=50"`
	Username  *string `json:"username" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,max=254"`
	Document  *string `json:"documento" validate:"omitempty,max=30"`
	Role      *string `json:"rol" validate:"omitempty,oneof=OPERADOR SUPERVISOR operador supervisor"`
}

// DeleteRequest carries the reason of a soft delete.
type DeleteRequest struct {
	Reason string `json:"motivo" validate:"max=500"`
}

// UserResponse is the public view of a user. AuditDelete is present only when the caller
// may see it.
type UserResponse struct {
	ID          string               `json:"id"`
	FirstName   string               `json:"nombre"`
	LastName    string               `json:"apellido"`
	Username    string               `json:"username"`
	Email       string               `json:"email"`
	Document    string               `json:"documento"`
	Role        domain.Role          `json:"rol"`
	IsDeleted   bool                 `json:"is_deleted"`
	AuditDelete *AuditDeleteResponse `json:"audit_delete,omitempty"`
}

// UserRefResponse is the embedded display data of a referenced user.
type UserRefResponse struct {
	ID        string      `json:"id"`
	FirstName string      `json:"nombre"`
	LastName  string      `json:"apellido"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"rol"`
}

// AuditDeleteResponse describes the most recent deletion.
type AuditDeleteResponse struct {
	At     time.Time       `json:"fecha"`
	Actor  UserRefResponse `json:"usuario"`
	Reason string          `json:"motivo"`
}

// UserSummaryResponse is one entry of the picker list.
type UserSummaryResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Document  string `json:"documento"`
}

// NewUserResponse maps a user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Username:    u.Username,
		Email:       u.Email,
		Document:    u.Document,
		Role:        u.Role,
		IsDeleted:   u.IsDeleted,
		AuditDelete: NewAuditDeleteResponse(u.DeleteAudit),
	}
}

// NewUserResponses maps a list of users.
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

// NewUserSummaryResponses maps picker entries.
func NewUserSummaryResponses(summaries []domain.UserSummary) []UserSummaryResponse {
	out := make([]UserSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, UserSummaryResponse{ID: s.ID, FirstName: s.FirstName, LastName: s.LastName, Document: s.Document})
	}
	return out
}

// NewUserRefResponse maps a resolved reference, falling back to placeholders when the
// user could not be resolved.
func NewUserRefResponse(ref *domain.UserRef, id string) UserRefResponse {
	if ref == nil {
		if id == "" {
			id = MissingID
		}
		return UserRefResponse{ID: id, FirstName: MissingFirstName, LastName: MissingLastName, Username: MissingUsername}
	}
	return UserRefResponse{ID: ref.ID, FirstName: ref.FirstName, LastName: ref.LastName, Username: ref.Username, Role: ref.Role}
}

// NewAuditDeleteResponse maps an audit record; nil stays nil so the field is omitted.
func NewAuditDeleteResponse(a *domain.DeleteAudit) *AuditDeleteResponse {
	if a == nil {
		return nil
	}
	reason := a.Reason
	if reason == "" {
		reason = MissingReason
	}
	return &AuditDeleteResponse{
		At:     a.At,
		Actor:  NewUserRefResponse(a.Actor, a.ActorID),
		Reason: reason,
	}
}
