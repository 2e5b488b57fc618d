package dto

import "github.com/Rodrymza/app-novedades/internal/domain"

// AreaRequest payload for area creation and edition.
type AreaRequest struct {
	Name        *string `json:"nombre" validate:"omitempty,max=200"`
	Description *string `json:"descripcion" validate:"omitempty,max=1000"`
}

// AreaResponse is the public view of an area.
type AreaResponse struct {
	ID          string `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	IsDeleted   bool   `json:"is_deleted"`
}

// NewAreaResponse maps an area.
func NewAreaResponse(a *domain.Area) AreaResponse {
	return AreaResponse{ID: a.ID, Name: a.Name, Description: a.Description, IsDeleted: a.IsDeleted}
}

// NewAreaResponses maps a list of areas.
func NewAreaResponses(areas []domain.Area) []AreaResponse {
	out := make([]AreaResponse, 0, len(areas))
	for i := range areas {
		out = append(out, NewAreaResponse(&areas[i]))
	}
	return out
}
