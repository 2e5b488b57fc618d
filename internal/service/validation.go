package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "github.com/Rodrymza/app-novedades/pkg/util"
)

const (
	personNameMinLength = 2
	personNameMaxLength = 50
)

var (
	personNamePattern = regexp.MustCompile(`^[a-zA-ZÀ-ÿñÑ\s]+$`)
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// parseID validates an identifier coming from the transport layer.
func parseID(raw, field string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", apperrors.NewBadRequest("ID inválido",
			fmt.Sprintf("El identificador proporcionado para el campo '%s' es incorrecto. Debe ser un ID válido.", field))
	}
	return id.String(), nil
}

// normalizePersonName trims, validates and title-cases a first or last name.
func normalizePersonName(raw, label string) (string, error) {
	name := strings.Join(strings.Fields(raw), " ")
	length := utf8.RuneCountInString(name)
	if length < personNameMinLength || length > personNameMaxLength {
		return "", apperrors.NewValidationError("Error en "+label,
			fmt.Sprintf("El %s debe tener entre %d y %d caracteres.", label, personNameMinLength, personNameMaxLength))
	}
	if !personNamePattern.MatchString(name) {
		return "", apperrors.NewValidationError("Error en "+label,
			fmt.Sprintf("El %s solo puede contener letras y espacios.", label))
	}
	return titleCase(name), nil
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if !emailPattern.MatchString(email) {
		return "", apperrors.NewValidationError("Error en email", "El formato del correo electrónico no es válido.")
	}
	return email, nil
}

func normalizeUsername(raw string) (string, error) {
	username := strings.ToLower(strings.TrimSpace(raw))
	if username == "" || strings.ContainsAny(username, " \t\n") {
		return "", apperrors.NewValidationError("Error en username", "El nombre de usuario es obligatorio y no puede contener espacios.")
	}
	return username, nil
}

func normalizeDocument(raw string) (string, error) {
	document := strings.TrimSpace(raw)
	if document == "" {
		return "", apperrors.NewValidationError("Error en documento", "El documento es obligatorio.")
	}
	return document, nil
}

// normalizeTags trims tags and drops empty ones, preserving order and duplicates.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
