package handler

import (
	"errors"
	"net/http"

	"promptstash/internal/domain"
	"promptstash/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var limitErr *domain.LimitExceededError

	switch {
	case errors.As(err, &limitErr):
		// Structured extras let the client branch on the condition and
		// render the upgrade path without parsing the message text
		httputil.RespondErrorWithExtras(w, limitErr.StatusCode(), limitErr.Error(), map[string]interface{}{
			"kind":  "limit_exceeded",
			"limit": limitErr.Limit,
			"tier":  limitErr.Tier,
		})
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireUserID extracts the authenticated user ID set by the auth
// middleware. A missing ID means the middleware did not run for this route.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return userID, true
}
