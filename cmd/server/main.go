package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/0xAdem/ransomguard/internal/api"
	"github.com/0xAdem/ransomguard/internal/api/utils"
	"github.com/0xAdem/ransomguard/internal/auth"
	"github.com/0xAdem/ransomguard/internal/config"
	"github.com/0xAdem/ransomguard/internal/db"
	"github.com/0xAdem/ransomguard/internal/detection"
	"github.com/0xAdem/ransomguard/internal/metrics"
	"github.com/0xAdem/ransomguard/internal/monitor"
	"github.com/0xAdem/ransomguard/internal/retention"
	"github.com/0xAdem/ransomguard/internal/store"
	"github.com/0xAdem/ransomguard/internal/ws"
)

func main() {
	cfg := config.Load()

	logger := utils.GetLogger()
	defer logger.Sync()

	database, err := db.Connect()
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.Migrate(database); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	pipeline := metrics.NewPipeline(registry)

	authSvc := auth.NewService(database, cfg.JWTSecret, cfg.TokenTTL)
	repo := store.NewRepository(database, logger, cfg.MaxAlerts, cfg.MaxEvents)
	hub := ws.NewHub(authSvc, logger)

	scannerCfg := detection.DefaultScannerConfig()
	if cfg.HighEntropyThreshold > 0 {
		scannerCfg.HighEntropyThreshold = cfg.HighEntropyThreshold
	}
	classifierCfg := detection.DefaultClassifierConfig()
	if cfg.HighEntropyThreshold > 0 {
		classifierCfg.HighEntropyThreshold = cfg.HighEntropyThreshold
	}

	session := monitor.NewSession(
		monitor.Config{
			QueueDepth:   cfg.QueueDepth,
			MaxReadBytes: cfg.MaxReadBytes,
			PollInterval: cfg.PollInterval,
		},
		detection.NewPatternScanner(scannerCfg),
		detection.NewBurstTracker(detection.BurstConfig{
			Horizon:          cfg.BurstHorizon,
			BaseThreshold:    cfg.BurstBaseThreshold,
			AdaptationFactor: cfg.BurstAdaptation,
		}),
		detection.NewClassifier(classifierCfg, hostname),
		repo,
		hub,
		pipeline,
		logger,
	)

	if len(cfg.WatchPaths) > 0 {
		if err := session.Start(cfg.WatchPaths); err != nil {
			logger.Error("failed to start monitoring", zap.Error(err))
		} else {
			logger.Info("monitoring started", zap.Strings("paths", cfg.WatchPaths))
		}
	}

	retentionSvc := retention.NewService(database, logger)
	retentionSvc.Start()

	router := api.Router(repo, session, authSvc, hub, registry)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	retentionSvc.Stop()
	session.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped")
}
