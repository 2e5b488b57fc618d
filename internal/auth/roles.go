package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rodrymza/app-novedades/internal/domain"
	apperrors "github.com/Rodrymza/app-novedades/pkg/util"
)

// RequireAuthenticated rejects absent sessions.
func RequireAuthenticated(session *domain.Session) error {
	if session == nil || session.UserID == "" {
		return apperrors.NewUnauthorized("Error de autenticación", "No has iniciado sesión")
	}
	return nil
}

// RequireSupervisor requires an authenticated supervisor.
func RequireSupervisor(session *domain.Session) error {
	if err := RequireAuthenticated(session); err != nil {
		return err
	}
	if session.Role != domain.RoleSupervisor {
		return apperrors.NewForbidden("Acceso denegado", "No tienes permisos de supervisor")
	}
	return nil
}

// RequireNotSelf rejects operations a user may not perform on their own account.
func RequireNotSelf(session *domain.Session, targetUserID string) error {
	if err := RequireAuthenticated(session); err != nil {
		return err
	}
	if session.UserID == targetUserID {
		return apperrors.NewForbidden("Acceso denegado", "No puedes realizar esta operación sobre tu propia cuenta")
	}
	return nil
}

// Authenticated ensures the request carries a valid session.
func Authenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, _ := SessionFromContext(c)
		if err := RequireAuthenticated(session); err != nil {
			return err
		}
		return c.Next()
	}
}

// SupervisorOnly ensures the session belongs to a supervisor.
func SupervisorOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, _ := SessionFromContext(c)
		if err := RequireSupervisor(session); err != nil {
			return err
		}
		return c.Next()
	}
}
