package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/Rodrymza/app-novedades/internal/api/http"
	"github.com/Rodrymza/app-novedades/internal/api/http/handlers"
	"github.com/Rodrymza/app-novedades/internal/auth"
	"github.com/Rodrymza/app-novedades/internal/config"
	"github.com/Rodrymza/app-novedades/internal/events"
	"github.com/Rodrymza/app-novedades/internal/observability"
	"github.com/Rodrymza/app-novedades/internal/persistence"
	"github.com/Rodrymza/app-novedades/internal/repository"
	"github.com/Rodrymza/app-novedades/internal/repository/memory"
	"github.com/Rodrymza/app-novedades/internal/service"
	"github.com/Rodrymza/app-novedades/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var (
		userRepo    repository.UserRepository
		areaRepo    repository.AreaRepository
		novedadRepo repository.NovedadRepository
	)
	if pg.Enabled() {
		pool := pg.PoolHandle()
		userRepo = repository.NewUserRepository(pool)
		areaRepo = repository.NewAreaRepository(pool)
		novedadRepo = repository.NewNovedadRepository(pool)
	} else {
		store := memory.NewStore()
		userRepo, areaRepo, novedadRepo = store.Users(), store.Areas(), store.Novedades()
	}

	metrics := observability.NewMetrics("novedades")
	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartAuditWorker(service.NewAuditLogService(dispatcher, logger))

	credentials := auth.NewCredentialManager(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	throttle := auth.NewLoginThrottle(redis.ClientHandle(), cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow, logger)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:    userRepo,
		Credentials: credentials,
		Tokens:      tokens,
		Throttle:    throttle,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})
	userService := service.NewUserService(service.UserDependencies{
		UserRepo:    userRepo,
		Credentials: credentials,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})
	areaService := service.NewAreaService(service.AreaDependencies{
		AreaRepo:   areaRepo,
		Dispatcher: dispatcher,
		Metrics:    metrics,
	})
	novedadService := service.NewNovedadService(service.NovedadDependencies{
		NovedadRepo: novedadRepo,
		AreaRepo:    areaRepo,
		UserRepo:    userRepo,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Location:    cfg.App.Location(),
	})

	if cfg.Bootstrap.Enabled {
		if _, err := authService.EnsureBootstrapSupervisor(ctx, cfg.Bootstrap); err != nil {
			logger.Fatal("failed to bootstrap supervisor", zap.Error(err))
		}
	}

	app := httptransport.NewApp(httptransport.ServerOptions{
		Name:           cfg.App.Name,
		Logger:         logger,
		Metrics:        metrics,
		RequestTimeout: cfg.App.RequestTimeout(),
	}, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:      handlers.NewAuthHandler(authService, cfg.Cookie),
		Users:     handlers.NewUsersHandler(userService),
		Areas:     handlers.NewAreasHandler(areaService),
		Novedades: handlers.NewNovedadesHandler(novedadService),
		Session:   auth.NewSessionMiddleware(tokens, cfg.Cookie.Name),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
