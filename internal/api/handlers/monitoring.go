package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/0xAdem/ransomguard/internal/api/utils"
	"github.com/0xAdem/ransomguard/internal/monitor"
)

// StartMonitoringRequest carries the watch paths for a new session.
type StartMonitoringRequest struct {
	Paths []string `json:"paths"`
}

// StartMonitoringHandler binds the session to the requested paths.
// Starting an already-running session rebinds it.
func StartMonitoringHandler(session *monitor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartMonitoringRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				utils.SendErrorResponse(w, utils.NewAPIError("Invalid request body", http.StatusBadRequest))
				return
			}
		}

		if err := session.Start(req.Paths); err != nil {
			if errors.Is(err, monitor.ErrEmptyWatchSet) {
				utils.SendErrorResponse(w, utils.NewAPIError("Failed to start file monitoring: empty path set", http.StatusBadRequest))
				return
			}
			utils.SendErrorResponse(w, utils.NewAPIError("Failed to start file monitoring", http.StatusInternalServerError))
			return
		}

		utils.SendJSON(w, http.StatusOK, map[string]string{
			"status":  "started",
			"message": "File monitoring started successfully",
		})
	}
}

// StopMonitoringHandler stops the session; stopping twice is a no-op.
func StopMonitoringHandler(session *monitor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session.Stop()
		utils.SendJSON(w, http.StatusOK, map[string]string{
			"status":  "stopped",
			"message": "File monitoring stopped",
		})
	}
}

// MonitoringStatusHandler reports session state and burst statistics.
func MonitoringStatusHandler(session *monitor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.SendJSON(w, http.StatusOK, session.Status())
	}
}
