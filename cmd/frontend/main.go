package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"store-manager/internal/config"
	"store-manager/internal/frontend/client"
	"store-manager/internal/frontend/session"
	"store-manager/internal/frontend/web"
	"store-manager/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFrontend()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, "frontend")
	logger.Info().
		Str("backend_url", cfg.Frontend.BackendURL).
		Msg("starting store-manager frontend")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}

	gin.SetMode(gin.ReleaseMode)

	frontend := web.New(
		client.New(cfg.Frontend.BackendURL, nil, logger),
		session.NewRedisStore(rdb, logger),
		web.Options{
			CookieName:   cfg.Frontend.CookieName,
			CookieSecure: cfg.Frontend.CookieSecure,
			SessionTTL:   cfg.Auth.TokenTTL,
		},
		logger,
	)

	srv := server.New(cfg.Frontend.Address(), frontend.Handler())

	return server.Run(ctx, srv, server.DefaultShutdownTimeout, logger)
}
