package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Rodrymza/app-novedades/internal/observability"
)

// ServerOptions configures the fiber application.
type ServerOptions struct {
	Name           string
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	RequestTimeout time.Duration
}

// NewApp builds the fiber application with global middleware and every route.
func NewApp(opts ServerOptions, routes RouteConfig) *fiber.App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               opts.Name,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(logger, opts.Metrics),
	})
	RegisterMiddlewares(app, logger, opts.Metrics, opts.RequestTimeout)
	if routes.Metrics == nil {
		routes.Metrics = opts.Metrics
	}
	RegisterRoutes(app, routes)
	return app
}
