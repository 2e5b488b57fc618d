package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/Rodrymza/app-novedades/internal/api/http/handlers"
	"github.com/Rodrymza/app-novedades/internal/auth"
	"github.com/Rodrymza/app-novedades/internal/observability"
	apperrors "github.com/Rodrymza/app-novedades/pkg/util"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Users     *handlers.UsersHandler
	Areas     *handlers.AreasHandler
	Novedades *handlers.NovedadesHandler
	Session   *auth.SessionMiddleware
	Metrics   *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Session.Handle, cfg.Auth.Logout)
	authGroup.Get("/profile", cfg.Session.Handle, cfg.Auth.Profile)
	authGroup.Patch("/password", cfg.Session.Handle, cfg.Auth.ChangePassword)
	authGroup.Post("/register", cfg.Session.Handle, auth.SupervisorOnly(), cfg.Auth.Register)

	users := app.Group("/users", cfg.Session.Handle)
	users.Get("/", auth.SupervisorOnly(), cfg.Users.List)
	users.Get("/summaries", cfg.Users.Summaries)
	users.Get("/:id", cfg.Users.Get)
	users.Patch("/:id/delete", auth.SupervisorOnly(), cfg.Users.Delete)
	users.Patch("/:id/restore", auth.SupervisorOnly(), cfg.Users.Restore)
	users.Patch("/:id/reset-password", auth.SupervisorOnly(), cfg.Users.ResetPassword)
	users.Patch("/:id", auth.SupervisorOnly(), cfg.Users.Update)

	areas := app.Group("/areas", cfg.Session.Handle)
	areas.Get("/", cfg.Areas.List)
	areas.Post("/", auth.SupervisorOnly(), cfg.Areas.Create)
	areas.Patch("/:id/delete", auth.SupervisorOnly(), cfg.Areas.Delete)
	areas.Patch("/:id/restore", auth.SupervisorOnly(), cfg.Areas.Restore)
	areas.Patch("/:id", auth.SupervisorOnly(), cfg.Areas.Update)

	novedades := app.Group("/novedades", cfg.Session.Handle)
	novedades.Get("/", cfg.Novedades.List)
	novedades.Post("/", cfg.Novedades.Create)
	novedades.Post("/search", cfg.Novedades.Search)
	novedades.Patch("/:id/delete", auth.SupervisorOnly(), cfg.Novedades.Delete)
	novedades.Patch("/:id/restore", auth.SupervisorOnly(), cfg.Novedades.Restore)

	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("Ruta no encontrada", fmt.Sprintf("No existe la ruta: %s %s", c.Method(), c.OriginalURL()))
	})
}
