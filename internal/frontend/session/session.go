// Package session stores frontend login sessions.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// keyPrefix namespaces session keys in Redis.
const keyPrefix = "session:"

// Session is the server-side state behind a session cookie.
type Session struct {
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists sessions by opaque ID.
type Store interface {
	// Create stores s under a new random ID that expires after ttl.
	Create(ctx context.Context, s Session, ttl time.Duration) (string, error)

	// Get returns the session for id, or nil if it does not exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}

// RedisStore implements Store on Redis string keys with expiry.
type RedisStore struct {
	client redis.Cmdable
	logger zerolog.Logger
}

// NewRedisStore creates a session store backed by client.
func NewRedisStore(client redis.Cmdable, logger zerolog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger.With().Str("component", "session-store").Logger(),
	}
}

// Key returns the Redis key for a session ID.
func Key(id string) string {
	return keyPrefix + id
}

func (s *RedisStore) Create(ctx context.Context, sess Session, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("invalid session ttl: %s", ttl)
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}

	id := uuid.NewString()
	if err := s.client.Set(ctx, Key(id), payload, ttl).Err(); err != nil {
		s.logger.Error().Err(err).Msg("failed to store session")
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Debug().Str("username", sess.Username).Dur("ttl", ttl).Msg("session created")
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	payload, err := s.client.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load session")
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		s.logger.Warn().Err(err).Msg("discarding corrupt session")
		return nil, nil
	}
	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, Key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
