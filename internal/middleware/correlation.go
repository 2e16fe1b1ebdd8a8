package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// CorrelationIDHeader carries the per-request correlation ID.
const CorrelationIDHeader = "X-Correlation-ID"

// CorrelationID tags each request with an ID, reusing one supplied by the
// caller, and echoes it in the response headers.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CorrelationIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		w.Header().Set(CorrelationIDHeader, id)
		next.ServeHTTP(w, r.WithContext(WithCorrelationID(r.Context(), id)))
	})
}
