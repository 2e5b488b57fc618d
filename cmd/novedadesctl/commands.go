package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rodrymza/app-novedades/internal/auth"
	"github.com/Rodrymza/app-novedades/internal/config"
	"github.com/Rodrymza/app-novedades/internal/observability"
	"github.com/Rodrymza/app-novedades/internal/persistence"
	"github.com/Rodrymza/app-novedades/internal/repository"
	"github.com/Rodrymza/app-novedades/internal/service"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "novedadesctl",
		Short:        "Administrative tasks for the novedades service",
		SilenceUsage: true,
	}
	root.AddCommand(newMigrateCmd(), newSeedSupervisorCmd(), newHashPasswordCmd())
	return root
}

// connect loads configuration and opens the database, which every command but
// hash-password needs.
func connect(ctx context.Context) (*config.Config, *zap.Logger, *persistence.Postgres, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.Postgres.DSN == "" {
		return nil, nil, nil, errors.New("POSTGRES_DSN must be set")
	}
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	return cfg, logger, pg, nil
}

func newMigrateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the SQL migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, logger, pg, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pg.Close()
			defer logger.Sync() //nolint:errcheck

			if dir == "" {
				dir = cfg.Postgres.MigrationsDir
			}
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), dir, logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "migrations directory (defaults to POSTGRES_MIGRATIONS_DIR)")
	return cmd
}

func newSeedSupervisorCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "seed-supervisor",
		Short: "Create the bootstrap supervisor when no user exists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, logger, pg, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pg.Close()
			defer logger.Sync() //nolint:errcheck

			bootstrap := cfg.Bootstrap
			if username != "" {
				bootstrap.Username = username
			}
			if password != "" {
				bootstrap.Password = password
			}

			authService := service.NewAuthService(service.AuthDependencies{
				UserRepo:    repository.NewUserRepository(pg.PoolHandle()),
				Credentials: auth.NewCredentialManager(cfg.Auth.BcryptCost),
				Logger:      logger,
			})
			created, err := authService.EnsureBootstrapSupervisor(ctx, bootstrap)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "supervisor %q created\n", strings.ToLower(bootstrap.Username))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "users already exist; nothing to do")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "supervisor username (defaults to BOOTSTRAP_SUPERVISOR_USERNAME)")
	cmd.Flags().StringVar(&password, "password", "", "supervisor password (defaults to BOOTSTRAP_SUPERVISOR_PASSWORD)")
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.NewCredentialManager(cost).HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}
