package main

import (
	"context"
	"fmt"

	"store-manager/internal/auth"
	"store-manager/internal/catalog"
	"store-manager/internal/config"
	"store-manager/internal/database"
	"store-manager/internal/repository"
	"store-manager/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app holds the dependencies shared by all subcommands. It is populated
// lazily so that flag errors are reported without touching the database.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	pool   *pgxpool.Pool
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "storeadmin",
		Short:         "Administrative tasks for the store-manager database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context())
		},
	}

	root.AddCommand(
		newMigrateCmd(a),
		newCreateUserCmd(a),
		newImportCatalogCmd(a),
	)

	return root, a
}

func (a *app) init(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg
	a.logger = config.NewLogger(cfg.Logger, "storeadmin")

	pool, err := database.NewPool(ctx, cfg.Database, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.pool = pool
	return nil
}

func (a *app) close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func (a *app) authService() service.AuthService {
	tokens := auth.NewTokenService([]byte(a.cfg.Auth.JWTSecret), a.cfg.Auth.Issuer, a.cfg.Auth.TokenTTL)
	return service.NewAuthService(repository.NewUserRepository(a.pool, a.logger), tokens, a.logger)
}

// catalogLoader reads from S3 when enabled, falling back to the local file system.
func (a *app) catalogLoader(ctx context.Context) catalog.Loader {
	fileLoader := catalog.NewFileLoader(a.logger)
	if !a.cfg.S3.Enabled {
		return fileLoader
	}

	s3Loader, err := catalog.NewS3Loader(ctx, a.cfg.S3.Bucket, a.cfg.S3.Region, a.logger)
	if err != nil {
		a.logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}
	return catalog.NewFallbackLoader(s3Loader, fileLoader, a.cfg.S3.Prefix, true, a.logger)
}
