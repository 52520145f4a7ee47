package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/0xAdem/ransomguard/internal/api/utils"
	"github.com/0xAdem/ransomguard/internal/models"
	"github.com/0xAdem/ransomguard/internal/store"
)

// AlertService handles alert-related operations
type AlertService struct {
	Repo *store.Repository
}

// NewAlertService creates a new alert service
func NewAlertService(repo *store.Repository) *AlertService {
	return &AlertService{Repo: repo}
}

// GetAlertsHandler returns alerts, most recent first, with optional
// severity filter and skip/limit paging.
func GetAlertsHandler(svc *AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip := queryInt(r, "skip", 0)
		limit := queryInt(r, "limit", 100)

		severity := models.Severity(r.URL.Query().Get("severity"))
		if severity != "" && !validSeverity(severity) {
			utils.SendErrorResponse(w, utils.NewAPIError("Invalid severity", http.StatusBadRequest))
			return
		}

		alerts := svc.Repo.ListAlerts(skip, limit, severity)
		if alerts == nil {
			alerts = []models.Alert{}
		}
		utils.SendJSON(w, http.StatusOK, alerts)
	}
}

// ExportAlertsHandler streams the alert log as a CSV download.
func ExportAlertsHandler(svc *AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alerts := svc.Repo.ListAlerts(0, 0, "")

		filename := fmt.Sprintf("alerts-%s.csv", time.Now().Format("20060102-150405"))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)

		cw := csv.NewWriter(w)
		cw.Write([]string{"id", "host", "path", "severity", "fme", "abt", "risk_score", "type", "reasons", "created_at"})
		for _, alert := range alerts {
			cw.Write([]string{
				alert.ID,
				alert.Host,
				alert.Path,
				string(alert.Severity),
				strconv.FormatFloat(alert.FME, 'f', 3, 64),
				strconv.FormatFloat(alert.ABT, 'f', 3, 64),
				strconv.Itoa(alert.RiskScore),
				string(alert.Type),
				strings.Join(alert.Reasons, "; "),
				alert.CreatedAt.Format(time.RFC3339),
			})
		}
		cw.Flush()
	}
}

// GetMetricsHandler returns alert counters for the dashboard
func GetMetricsHandler(svc *AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.SendJSON(w, http.StatusOK, svc.Repo.AlertMetrics())
	}
}

func validSeverity(s models.Severity) bool {
	switch s {
	case models.SeverityInfo, models.SeverityLow, models.SeverityMedium, models.SeverityHigh, models.SeverityCritical:
		return true
	}
	return false
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
