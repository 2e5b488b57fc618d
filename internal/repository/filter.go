package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rodrymza/app-novedades/internal/domain"
)

// NovedadFilter captures search parameters. Nil or empty fields impose no constraint.
type NovedadFilter struct {
	AuthorID *string
	AreaID   *string
	// Tags matches novedades carrying at least one of the tags.
	Tags []string
	// CreatedFrom is inclusive, CreatedTo exclusive.
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Text        string
	Scope       domain.DeletionScope
}

// whereClause renders the filter against the novedades alias n, appending to args.
func (f NovedadFilter) whereClause(args []any) (string, []any) {
	clauses := []string{"1=1"}

	switch f.Scope {
	case domain.ScopeDeleted:
		clauses = append(clauses, "n.is_deleted = TRUE")
	case domain.ScopeAll:
	default:
		clauses = append(clauses, "n.is_deleted = FALSE")
	}

	if f.AuthorID != nil {
		args = append(args, *f.AuthorID)
		clauses = append(clauses, fmt.Sprintf("n.author_id = $%d", len(args)))
	}
	if f.AreaID != nil {
		args = append(args, *f.AreaID)
		clauses = append(clauses, fmt.Sprintf("n.area_id = $%d", len(args)))
	}
	if len(f.Tags) > 0 {
		args = append(args, f.Tags)
		clauses = append(clauses, fmt.Sprintf("n.tags && $%d::text[]", len(args)))
	}
	if f.CreatedFrom != nil {
		args = append(args, *f.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("n.created_at >= $%d", len(args)))
	}
	if f.CreatedTo != nil {
		args = append(args, *f.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("n.created_at < $%d", len(args)))
	}
	if text := strings.TrimSpace(f.Text); text != "" {
		args = append(args, text)
		clauses = append(clauses, fmt.Sprintf("to_tsvector('spanish', n.content) @@ plainto_tsquery('spanish', $%d)", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}

// Matches evaluates the filter in process. Text matching requires every term to appear in
// the content, ignoring case.
func (f NovedadFilter) Matches(n *domain.Novedad) bool {
	if !f.Scope.Includes(n.IsDeleted) {
		return false
	}
	if f.AuthorID != nil && n.AuthorID != *f.AuthorID {
		return false
	}
	if f.AreaID != nil && n.AreaID != *f.AreaID {
		return false
	}
	if len(f.Tags) > 0 && !anyTag(n.Tags, f.Tags) {
		return false
	}
	if f.CreatedFrom != nil && n.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && !n.CreatedAt.Before(*f.CreatedTo) {
		return false
	}
	if text := strings.TrimSpace(f.Text); text != "" {
		content := strings.ToLower(n.Content)
		for _, term := range strings.Fields(strings.ToLower(text)) {
			if !strings.Contains(content, term) {
				return false
			}
		}
	}
	return true
}

func anyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
