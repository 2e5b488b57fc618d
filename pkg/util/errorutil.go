package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Error codes exposed to clients.
const (
	CodeValidation      = "VALIDATION_FAILED"
	CodeBadRequest      = "BAD_REQUEST"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"
	CodeTooManyAttempts = "TOO_MANY_ATTEMPTS"
	CodeInternal        = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	Detail     string
	HTTPStatus int
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message, detail string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, Detail: detail, HTTPStatus: status}
}

func NewValidationError(message, detail string) error {
	return NewDomainError(CodeValidation, message, detail, http.StatusBadRequest)
}

// NewBadRequest is used for malformed identifiers and unparsable payloads.
func NewBadRequest(message, detail string) error {
	return NewDomainError(CodeBadRequest, message, detail, http.StatusBadRequest)
}

func NewNotFound(message, detail string) error {
	return NewDomainError(CodeNotFound, message, detail, http.StatusNotFound)
}

func NewUnauthorized(message, detail string) error {
	return NewDomainError(CodeUnauthorized, message, detail, http.StatusUnauthorized)
}

func NewForbidden(message, detail string) error {
	return NewDomainError(CodeForbidden, message, detail, http.StatusForbidden)
}

func NewConflict(message, detail string) error {
	return NewDomainError(CodeConflict, message, detail, http.StatusConflict)
}

func NewTooManyAttempts(detail string) error {
	return NewDomainError(CodeTooManyAttempts, "Demasiados intentos", detail, http.StatusTooManyRequests)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "Error interno del servidor",
		Detail:     "Ocurrió un error inesperado",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fromFiberError(fiberErr)
	}
	de, _ := NewInternalError(err).(*DomainError)
	return de
}

func fromFiberError(fe *fiber.Error) *DomainError {
	switch fe.Code {
	case http.StatusNotFound:
		return NewDomainError(CodeNotFound, "Ruta no encontrada", fe.Message, fe.Code)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return NewDomainError(CodeBadRequest, "Formato de solicitud inválido", fe.Message, http.StatusBadRequest)
	case http.StatusUnauthorized:
		return NewDomainError(CodeUnauthorized, "Error de autenticación", fe.Message, fe.Code)
	case http.StatusForbidden:
		return NewDomainError(CodeForbidden, "Acceso denegado", fe.Message, fe.Code)
	case http.StatusMethodNotAllowed:
		return NewDomainError(CodeNotFound, "Ruta no encontrada", fe.Message, http.StatusNotFound)
	}
	if fe.Code >= 500 {
		de, _ := NewInternalError(fe).(*DomainError)
		return de
	}
	return NewDomainError(CodeBadRequest, http.StatusText(fe.Code), fe.Message, fe.Code)
}

// HasCode reports whether err carries the given DomainError code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

func MapError(err error) error {
	return ToDomainError(err)
}
