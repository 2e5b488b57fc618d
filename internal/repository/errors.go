package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrAlreadyDeleted = errors.New("record already deleted")
	ErrNotDeleted     = errors.New("record is not deleted")
	ErrDuplicate      = errors.New("duplicate record")
	// ErrInactiveReference is returned when an insert references a missing or deleted row.
	ErrInactiveReference = errors.New("referenced record is missing or deleted")
)

// DuplicateError names the unique field that was violated.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return "duplicate " + e.Field
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// DuplicateField returns the violated field of a duplicate error, if any.
func DuplicateField(err error) string {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return dup.Field
	}
	return ""
}

const uniqueViolation = "23505"

// constraint name fragment -> field reported to callers
var uniqueConstraintFields = []struct {
	fragment string
	field    string
}{
	{"username", "username"},
	{"email", "email"},
	{"document", "document"},
	{"areas_name", "name"},
}

// mapError normalizes driver errors into repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		for _, c := range uniqueConstraintFields {
			if strings.Contains(pgErr.ConstraintName, c.fragment) {
				return &DuplicateError{Field: c.field}
			}
		}
		return &DuplicateError{Field: pgErr.ConstraintName}
	}
	return err
}
