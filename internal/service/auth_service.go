package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"store-manager/internal/auth"
	"store-manager/internal/model"
	"store-manager/internal/repository"

	"github.com/rs/zerolog"
)

// authService implements AuthService.
type authService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenService
	logger   zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenService, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates a new account.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	user, err := s.validateRegisterRequest(req)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, user.Username)
	if err != nil {
		s.logger.Error().Err(err).Str("username", user.Username).Msg("failed to check username")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	if exists {
		s.logger.Warn().Str("username", user.Username).Msg("username already exists")
		return nil, model.ErrUsernameTaken
	}

	user.PasswordHash, err = auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUsernameTaken) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("username", user.Username).Msg("failed to create user")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Interface("roles", user.Roles).
		Msg("user registered")

	return user, nil
}

// Login verifies credentials and issues a token.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (string, error) {
	if req == nil || strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return "", model.NewValidationError(model.ErrCodeMissingField, "username and password are required")
	}
	username := strings.TrimSpace(req.Username)

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to load user")
		return "", fmt.Errorf("failed to login: %w", err)
	}

	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn().Str("username", username).Msg("invalid login attempt")
		return "", model.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		s.logger.Error().Err(err).Str("username", user.Username).Msg("failed to issue token")
		return "", fmt.Errorf("failed to login: %w", err)
	}

	s.logger.Info().Str("username", user.Username).Msg("user logged in")
	return token, nil
}

// Authenticate resolves a bearer token to its account.
func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, model.ErrMissingToken
	}

	username, err := s.tokens.ExtractUsername(token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("rejected token")
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to load user")
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	if user == nil {
		s.logger.Warn().Str("username", username).Msg("token subject has no account")
		return nil, model.ErrInvalidToken
	}

	if err := s.tokens.Validate(token, user.Username); err != nil {
		return nil, err
	}

	return user, nil
}

// EnsureUser registers the account if the username is free.
func (s *authService) EnsureUser(ctx context.Context, req *model.RegisterRequest) (*model.User, bool, error) {
	if req == nil {
		return nil, false, model.NewValidationError(model.ErrCodeMissingField, "request body is required")
	}

	existing, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		s.logger.Debug().Str("username", existing.Username).Msg("user already exists")
		return existing, false, nil
	}

	user, err := s.Register(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// validateRegisterRequest checks required fields and normalizes roles.
func (s *authService) validateRegisterRequest(req *model.RegisterRequest) (*model.User, error) {
	if req == nil {
		return nil, model.NewValidationError(model.ErrCodeMissingField, "request body is required")
	}

	username := strings.TrimSpace(req.Username)
	fullName := strings.TrimSpace(req.FullName)

	switch {
	case username == "":
		return nil, model.NewValidationError(model.ErrCodeMissingField, "username is required")
	case fullName == "":
		return nil, model.NewValidationError(model.ErrCodeMissingField, "fullName is required")
	case req.Password == "":
		return nil, model.NewValidationError(model.ErrCodeMissingField, "password is required")
	case len(req.Password) > auth.MaxPasswordBytes:
		return nil, model.ErrPasswordTooLong
	case len(req.Roles) == 0:
		return nil, model.ErrMissingRoles
	}

	roles := make([]model.Role, 0, len(req.Roles))
	seen := make(map[model.Role]bool, len(req.Roles))
	for _, raw := range req.Roles {
		role, err := model.ParseRole(string(raw))
		if err != nil {
			s.logger.Warn().Str("role", string(raw)).Msg("invalid role")
			return nil, err
		}
		if !seen[role] {
			seen[role] = true
			roles = append(roles, role)
		}
	}

	return &model.User{
		Username: username,
		FullName: fullName,
		Roles:    roles,
	}, nil
}
