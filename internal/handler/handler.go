package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"store-manager/internal/middleware"
	"store-manager/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps the size of JSON request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeText writes a plain-text response with the given status code.
func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, text)
}

// writeError maps err to a status code and writes the standard error body.
// Errors that are not domain errors are logged and reported as 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var de *model.DomainError
	if !errors.As(err, &de) {
		logger.Error().
			Err(err).
			Str("path", r.URL.Path).
			Str("correlation_id", middleware.CorrelationIDFromContext(r.Context())).
			Msg("handler error")
		middleware.WriteError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error")
		return
	}

	status := statusFor(de.Kind)
	logger.Debug().Str("code", de.Code).Int("status", status).Msg(de.Message)
	middleware.WriteError(w, r, status, de.Code, de.Message)
}

func statusFor(kind model.ErrorKind) int {
	switch kind {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindAuthentication:
		return http.StatusUnauthorized
	case model.KindAuthorization:
		return http.StatusForbidden
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.NewValidationError(model.ErrCodeInvalidJSON, fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

// pathID parses the named path segment as a positive integer ID.
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewValidationError(model.ErrCodeInvalidID, fmt.Sprintf("invalid %s: %q", name, raw))
	}
	return id, nil
}

// currentUser returns the authenticated caller placed in the context by middleware.
func currentUser(r *http.Request) (*model.User, error) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		return nil, model.ErrMissingToken
	}
	return user, nil
}
