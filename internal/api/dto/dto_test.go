package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rodrymza/app-novedades/internal/domain"
)

func TestUserResponseOmitsAbsentAudit(t *testing.T) {
	body, err := json.Marshal(NewUserResponse(&domain.User{ID: "u1", Username: "ana", Role: domain.RoleOperator}))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	_, present := raw["audit_delete"]
	assert.False(t, present)
	assert.Equal(t, "OPERADOR", raw["rol"])
	_, hasHash := raw["password_hash"]
	assert.False(t, hasHash)
}

func TestAuditPlaceholders(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	resp := NewAuditDeleteResponse(&domain.DeleteAudit{At: at, ActorID: "gone"})
	require.NotNil(t, resp)
	assert.Equal(t, UserRefResponse{ID: "gone", FirstName: MissingFirstName, LastName: MissingLastName, Username: MissingUsername}, resp.Actor)
	assert.Equal(t, MissingReason, resp.Reason)
	assert.Nil(t, NewAuditDeleteResponse(nil))
}

func TestNovedadResponsePlaceholders(t *testing.T) {
	n := &domain.Novedad{ID: "n1", Content: "hola", AuthorID: "u1", AreaID: "a1"}
	resp := NewNovedadResponse(n)
	assert.Equal(t, "u1", resp.Author.ID)
	assert.Equal(t, MissingUsername, resp.Author.Username)
	assert.Equal(t, AreaRefResponse{ID: "a1", Name: MissingAreaName}, resp.Area)
	assert.Equal(t, []string{}, resp.Tags)

	assert.Empty(t, resp.Author.Role)

	n.Author = &domain.UserRef{ID: "u1", FirstName: "Ana", LastName: "Paz", Username: "apaz", Role: domain.RoleSupervisor}
	n.Area = &domain.AreaRef{ID: "a1", Name: "Guardia", IsDeleted: true}
	resp = NewNovedadResponse(n)
	assert.Equal(t, "apaz", resp.Author.Username)
	assert.Equal(t, domain.RoleSupervisor, resp.Author.Role)
	assert.Equal(t, "Guardia", resp.Area.Name)
}
