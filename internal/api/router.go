package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/0xAdem/ransomguard/internal/api/handlers"
	"github.com/0xAdem/ransomguard/internal/api/utils"
	"github.com/0xAdem/ransomguard/internal/auth"
	"github.com/0xAdem/ransomguard/internal/monitor"
	"github.com/0xAdem/ransomguard/internal/store"
	"github.com/0xAdem/ransomguard/internal/ws"
)

// Router sets up the main API router with all routes
func Router(
	repo *store.Repository,
	session *monitor.Session,
	authSvc *auth.Service,
	hub *ws.Hub,
	registry *prometheus.Registry,
) *mux.Router {
	router := mux.NewRouter()

	alertService := handlers.NewAlertService(repo)
	eventService := handlers.NewEventService(repo)

	// Public routes, rate limited at 10 requests per minute with burst of 20
	public := router.PathPrefix("/api").Subrouter()
	public.Use(utils.RateLimitMiddleware(rate.Limit(10.0/60.0), 20))
	public.HandleFunc("/health", handlers.HealthHandler).Methods("GET")
	public.HandleFunc("/register", handlers.RegisterHandler(authSvc)).Methods("POST")
	public.HandleFunc("/login", handlers.LoginHandler(authSvc)).Methods("POST")

	// Protected routes with a higher rate limit for authenticated users
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(authSvc.AuthMiddleware)
	protected.Use(utils.RateLimitMiddleware(rate.Limit(20.0/60.0), 40))

	protected.HandleFunc("/users/me", handlers.ProfileHandler()).Methods("GET")

	protected.HandleFunc("/alerts", handlers.GetAlertsHandler(alertService)).Methods("GET")
	protected.HandleFunc("/alerts/export", handlers.ExportAlertsHandler(alertService)).Methods("GET")
	protected.HandleFunc("/file-events", handlers.GetEventsHandler(eventService)).Methods("GET")
	protected.HandleFunc("/metrics", handlers.GetMetricsHandler(alertService)).Methods("GET")

	protected.HandleFunc("/monitoring/start", handlers.StartMonitoringHandler(session)).Methods("POST")
	protected.HandleFunc("/monitoring/stop", handlers.StopMonitoringHandler(session)).Methods("POST")
	protected.HandleFunc("/monitoring/status", handlers.MonitoringStatusHandler(session)).Methods("GET")

	// Realtime push; the token travels as a query parameter.
	if hub != nil {
		router.HandleFunc("/ws/{email}", hub.Handler()).Methods("GET")
	}

	// Prometheus scrape endpoint for pipeline counters.
	if registry != nil {
		router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")
	}

	return router
}
