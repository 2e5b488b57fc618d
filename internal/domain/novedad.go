package domain

import "time"

// NovedadContentMaxLength bounds the content of a novedad.
const NovedadContentMaxLength = 5000

// Novedad is a report entry written by a user against an area.
// AuthorID and AreaID never change after creation.
type Novedad struct {
	ID          string
	Content     string
	AuthorID    string
	AreaID      string
	Tags        []string
	IsDeleted   bool
	DeleteAudit *DeleteAudit
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Resolved at query time; nil when the referenced row could not be found.
	Author *UserRef
	Area   *AreaRef
}
