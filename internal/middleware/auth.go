package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"store-manager/internal/auth"
	"store-manager/internal/model"

	"github.com/rs/zerolog"
)

// Authenticator resolves a bearer token to an account.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// Authenticate requires a valid bearer token on every request whose path
// starts with one of protectedPrefixes and stores the caller in the context.
func Authenticate(authenticator Authenticator, logger zerolog.Logger, protectedPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasAnyPrefix(r.URL.Path, protectedPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				logger.Warn().Str("path", r.URL.Path).Msg("missing bearer token")
				WriteError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, model.ErrMissingToken.Message)
				return
			}

			user, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				var de *model.DomainError
				if errors.As(err, &de) && de.Kind == model.KindAuthentication {
					logger.Warn().Err(err).Str("path", r.URL.Path).Msg("rejected bearer token")
					WriteError(w, r, http.StatusUnauthorized, de.Code, de.Message)
					return
				}
				logger.Error().Err(err).Str("path", r.URL.Path).Msg("failed to authenticate request")
				WriteError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// Authorize admits the request only if the authenticated caller's roles
// permit op under policy.
func Authorize(policy auth.Policy, op auth.Operation, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if policy.IsPublic(op) {
				next.ServeHTTP(w, r)
				return
			}

			user := UserFromContext(r.Context())
			if user == nil {
				WriteError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, model.ErrMissingToken.Message)
				return
			}

			if !policy.Allowed(op, user.Roles) {
				logger.Warn().
					Str("username", user.Username).
					Str("operation", string(op)).
					Msg("operation not permitted")
				WriteError(w, r, http.StatusForbidden, model.ErrCodeForbidden, model.ErrForbidden.Message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
