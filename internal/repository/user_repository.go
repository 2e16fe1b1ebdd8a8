package repository

import (
	"context"
	"fmt"

	"store-manager/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

// ExistsByUsername reports whether an account with the given username exists.
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		r.logger.Error().Err(err).Str("username", username).Msg("failed to check username")
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

// Create inserts the user and its roles in one transaction.
func (r *userRepository) Create(ctx context.Context, user *model.User) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	query := `
		INSERT INTO users (username, full_name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	if err = tx.QueryRow(ctx, query, user.Username, user.FullName, user.PasswordHash).Scan(&user.ID); err != nil {
		if isUniqueViolation(err) {
			r.logger.Debug().Str("username", user.Username).Msg("username already exists")
			return model.ErrUsernameTaken
		}
		r.logger.Error().Err(err).Str("username", user.Username).Msg("failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}

	for _, role := range user.Roles {
		if _, err = tx.Exec(ctx, `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, user.ID, string(role)); err != nil {
			r.logger.Error().Err(err).Int64("user_id", user.ID).Str("role", string(role)).Msg("failed to assign role")
			return fmt.Errorf("failed to assign role %s: %w", role, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to commit transaction")
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Debug().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("user created successfully")

	return nil
}

// FindByUsername retrieves a user with its roles.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.password_hash,
		       COALESCE(array_agg(r.role ORDER BY r.role) FILTER (WHERE r.role IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN user_roles r ON r.user_id = u.id
		WHERE u.username = $1
		GROUP BY u.id
	`

	var (
		u     model.User
		roles []string
	)
	err := r.pool.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.FullName, &u.PasswordHash, &roles)
	if err != nil {
		if isNoRows(err) {
			r.logger.Debug().Str("username", username).Msg("user not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("username", username).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	u.Roles = make([]model.Role, len(roles))
	for i, role := range roles {
		u.Roles[i] = model.Role(role)
	}

	return &u, nil
}
