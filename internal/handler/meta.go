package handler

import (
	"net/http"

	"promptstash/internal/config"
	"promptstash/internal/httputil"
)

// HealthCheck reports server liveness
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Limits publishes the plan limits so clients render the same policy the
// server enforces instead of hard-coding their own copy.
// GET /api/limits
func Limits(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]int{
		"free_prompt_limit": config.FreePlanPromptLimit,
	})
}
