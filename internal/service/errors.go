package service

import (
	"errors"

	"github.com/Rodrymza/app-novedades/internal/domain"
	"github.com/Rodrymza/app-novedades/internal/repository"
	apperrors "github.com/Rodrymza/app-novedades/pkg/util"
)

type entityMessages struct {
	notFound       string
	notFoundDetail string
	alreadyDeleted string
	notDeleted     string
}

var messagesByKind = map[domain.EntityKind]entityMessages{
	domain.EntityUser: {
		notFound:       "Usuario no encontrado",
		notFoundDetail: "No se encontró usuario con el id especificado",
		alreadyDeleted: "El usuario ya se encuentra eliminado",
		notDeleted:     "El usuario no se encuentra eliminado",
	},
	domain.EntityArea: {
		notFound:       "Área no encontrada",
		notFoundDetail: "No se encontró el área con el id especificado",
		alreadyDeleted: "El área ya se encuentra eliminada",
		notDeleted:     "El área no se encuentra eliminada",
	},
	domain.EntityNovedad: {
		notFound:       "Novedad no encontrada",
		notFoundDetail: "No se encontró novedad con el id especificado",
		alreadyDeleted: "La novedad ya se encuentra eliminada",
		notDeleted:     "La novedad no se encuentra eliminada",
	},
}

var duplicateDetails = map[string]string{
	"username": "El nombre de usuario ya está en uso",
	"email":    "El email ya está registrado",
	"document": "El documento ya está registrado",
	"name":     "El nombre del área ya existe",
}

// translateRepoError maps repository sentinels to client facing errors for kind.
func translateRepoError(kind domain.EntityKind, err error) error {
	if err == nil {
		return nil
	}
	msgs := messagesByKind[kind]
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(msgs.notFound, msgs.notFoundDetail)
	case errors.Is(err, repository.ErrAlreadyDeleted):
		return apperrors.NewValidationError("Error de eliminación", msgs.alreadyDeleted)
	case errors.Is(err, repository.ErrNotDeleted):
		return apperrors.NewValidationError("Error de restauración", msgs.notDeleted)
	case errors.Is(err, repository.ErrDuplicate):
		detail, ok := duplicateDetails[repository.DuplicateField(err)]
		if !ok {
			detail = "Un campo único ya existe."
		}
		return apperrors.NewConflict("Conflicto de datos", detail)
	}
	return apperrors.NewInternalError(err)
}
