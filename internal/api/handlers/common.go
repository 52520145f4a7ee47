package handlers

import (
	"net/http"
	"time"

	"github.com/0xAdem/ransomguard/internal/api/utils"
)

// HealthHandler is a simple health check endpoint
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"time":    time.Now().Format(time.RFC3339),
		"service": "ransomguard",
	})
}
