package integration

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"store-manager/internal/auth"
	"store-manager/internal/config"
	"store-manager/internal/database"
	"store-manager/internal/handler"
	"store-manager/internal/repository"
	"store-manager/internal/router"
	"store-manager/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testSecret signs tokens issued by the in-process API.
const testSecret = "integration-secret-0123456789abcdef"

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the schema applied.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()
	pool, err := database.NewPoolFromURL(ctx, connStr, config.DatabaseConfig{
		MaxConnections: 10,
		MinConnections: 2,
	}, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// CleanupDB removes all rows and restarts ID sequences.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if err := database.Reset(context.Background(), pool); err != nil {
		t.Fatalf("failed to clean database: %v", err)
	}
}

// StartAPI serves the full backend stack over HTTP against testDB.
func StartAPI(t *testing.T, testDB *TestDB) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()

	userRepo := repository.NewUserRepository(testDB.Pool, logger)
	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)

	tokens := auth.NewTokenService([]byte(testSecret), "store-manager", auth.DefaultTokenTTL)
	authService := service.NewAuthService(userRepo, tokens, logger)

	mux := router.New(router.Handlers{
		Auth:    handler.NewAuthHandler(authService, logger),
		Product: handler.NewProductHandler(service.NewProductService(productRepo, logger), logger),
		Order:   handler.NewOrderHandler(service.NewOrderService(orderRepo, logger), logger),
	}, authService, auth.DefaultPolicy, logger)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
