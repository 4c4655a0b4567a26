package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"promptstash/internal/auth"
	"promptstash/internal/httputil"
)

// publicPaths are served without a user token. The webhook authenticates
// via its payload signature instead.
var publicPaths = map[string]bool{
	"/health":              true,
	"/api/limits":          true,
	"/api/billing/webhook": true,
}

// Auth validates the Bearer token on every request and stores the verified
// user ID in the request context. Requests without a valid token never reach
// a handler.
func Auth(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}
