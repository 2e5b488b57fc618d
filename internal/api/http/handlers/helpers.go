package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Rodrymza/app-novedades/internal/auth"
	"github.com/Rodrymza/app-novedades/internal/domain"
	apperrors "github.com/Rodrymza/app-novedades/pkg/util"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// bindAndValidate parses the JSON body into req and runs its validator tags.
// An empty body leaves req at its zero value.
func bindAndValidate(c *fiber.Ctx, req interface{}) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return apperrors.NewBadRequest("Formato de solicitud inválido", "El cuerpo de la solicitud no es un JSON válido")
		}
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperrors.NewValidationError("Datos inválidos", describeFieldError(verrs[0]))
		}
		return apperrors.NewValidationError("Datos inválidos", err.Error())
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("El campo '%s' supera el máximo permitido (%s)", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("El campo '%s' debe ser uno de: %s", fe.Field(), fe.Param())
	case "required":
		return fmt.Sprintf("El campo '%s' es obligatorio", fe.Field())
	}
	return fmt.Sprintf("El campo '%s' no es válido", fe.Field())
}

// session returns the decoded session placed by the session middleware, or nil.
func session(c *fiber.Ctx) *domain.Session {
	s, _ := auth.SessionFromContext(c)
	return s
}

func data(c *fiber.Ctx, status int, payload interface{}) error {
	return c.Status(status).JSON(fiber.Map{"data": payload})
}
