package repository

import (
	"context"
	"testing"
	"time"

	"store-manager/internal/database"
	"store-manager/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the schema applied and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping repository test in short mode")
	}

	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedUser inserts an account and returns its ID.
func seedUser(t *testing.T, pool *pgxpool.Pool, username string, roles ...model.Role) int64 {
	t.Helper()

	user := &model.User{
		Username:     username,
		FullName:     "Test " + username,
		PasswordHash: "hash",
		Roles:        roles,
	}
	require.NoError(t, NewUserRepository(pool, zerolog.Nop()).Create(context.Background(), user))
	return user.ID
}

// seedProduct inserts a product owned by ownerID.
func seedProduct(t *testing.T, pool *pgxpool.Pool, ownerID int64, name, price string, quantity int) *model.Product {
	t.Helper()

	p := &model.Product{
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Quantity:  quantity,
		Category:  "General",
		CreatedBy: ownerID,
	}
	require.NoError(t, NewProductRepository(pool, zerolog.Nop()).Create(context.Background(), p))
	return p
}
