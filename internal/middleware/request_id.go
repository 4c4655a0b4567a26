package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"promptstash/internal/httputil"
)

// RequestID assigns every request an ID, honoring one supplied by an
// upstream proxy, and echoes it back in the response headers.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}

			w.Header().Set("X-Request-ID", requestID)
			next.ServeHTTP(w, httputil.WithRequestID(r, requestID))
		})
	}
}
