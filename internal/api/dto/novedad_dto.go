package dto

import (
	"time"

	"github.com/Rodrymza/app-novedades/internal/domain"
)

// MissingAreaName is shown when the area of a novedad could not be resolved.
const MissingAreaName = "Area Eliminada"

// CreateNovedadRequest payload.
type CreateNovedadRequest struct {
	Content string   `json:"contenido"`
	AreaID  string   `json:"area_id"`
	Tags    []string `json:"etiquetas" validate:"max=20,dive,max=50"`
}

// SearchNovedadesRequest holds the search criteria. Every field is optional.
type SearchNovedadesRequest struct {
	AuthorID  string   `json:"usuario_id"`
	AreaID    string   `json:"area_id"`
	Tags      []string `json:"tags" validate:"max=20,dive,max=50"`
	From      string   `json:"fechaInicio"`
	To        string   `json:"fechaFin"`
	Text      string   `json:"textoBusqueda" validate:"max=200"`
	Scope     string   `json:"scope"`
	IsDeleted *bool    `json:"is_deleted"`
}

// AreaRefResponse is the embedded display data of the novedad's area.
type AreaRefResponse struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

// NovedadResponse is the public view of a novedad.
type NovedadResponse struct {
	ID          string               `json:"id"`
	Content     string               `json:"contenido"`
	Author      UserRefResponse      `json:"usuario"`
	Area        AreaRefResponse      `json:"area"`
	Tags        []string             `json:"etiquetas"`
	CreatedAt   time.Time            `json:"fecha"`
	IsDeleted   bool                 `json:"is_deleted"`
	AuditDelete *AuditDeleteResponse `json:"audit_delete,omitempty"`
}

// NewNovedadResponse maps a novedad with its resolved references.
func NewNovedadResponse(n *domain.Novedad) NovedadResponse {
	area := AreaRefResponse{ID: n.AreaID, Name: MissingAreaName}
	if n.Area != nil {
		area = AreaRefResponse{ID: n.Area.ID, Name: n.Area.Name}
	}
	if area.ID == "" {
		area.ID = MissingID
	}
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return NovedadResponse{
		ID:          n.ID,
		Content:     n.Content,
		Author:      NewUserRefResponse(n.Author, n.AuthorID),
		Area:        area,
		Tags:        tags,
		CreatedAt:   n.CreatedAt,
		IsDeleted:   n.IsDeleted,
		AuditDelete: NewAuditDeleteResponse(n.DeleteAudit),
	}
}

// NewNovedadResponses maps a list of novedades.
func NewNovedadResponses(list []domain.Novedad) []NovedadResponse {
	out := make([]NovedadResponse, 0, len(list))
	for i := range list {
		out = append(out, NewNovedadResponse(&list[i]))
	}
	return out
}
