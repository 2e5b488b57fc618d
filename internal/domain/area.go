package domain

import "time"

// DefaultAreaDescription is stored when an area is created without description.
const DefaultAreaDescription = "Sin descripcion proporcionada"

const (
	AreaNameMaxLength        = 50
	AreaDescriptionMaxLength = 255
)

// Area classifies novedades by organizational or physical sector.
type Area struct {
	ID          string
	Name        string
	Description string
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AreaRef is the current display data of a referenced area.
type AreaRef struct {
	ID        string
	Name      string
	IsDeleted bool
}
