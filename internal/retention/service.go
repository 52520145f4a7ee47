package retention

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/0xAdem/ransomguard/internal/models"
)

// Default retention horizons. Critical alerts are kept the longest so
// incident reviews can reach back past the regular alert window.
const (
	EventRetention         = 7 * 24 * time.Hour
	AlertRetention         = 30 * 24 * time.Hour
	CriticalAlertRetention = 90 * 24 * time.Hour
)

// Task represents a scheduled cleanup task
type Task struct {
	ID       string
	Name     string
	Interval time.Duration
	Func     func() error
	LastRun  time.Time
	NextRun  time.Time
}

// Service prunes aged records from the database on a fixed schedule.
type Service struct {
	DB         *gorm.DB
	logger     *zap.Logger
	tasks      map[string]*Task
	taskMutex  sync.RWMutex
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// NewService creates a new retention service
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	ctx, cancelFunc := context.WithCancel(context.Background())

	svc := &Service{
		DB:         db,
		logger:     logger,
		tasks:      make(map[string]*Task),
		ctx:        ctx,
		cancelFunc: cancelFunc,
	}

	svc.registerDefaultTasks()

	return svc
}

// registerDefaultTasks registers the default cleanup tasks
func (s *Service) registerDefaultTasks() {
	s.tasks["cleanup_events"] = &Task{
		ID:       "cleanup_events",
		Name:     "Cleanup Old File Events",
		Interval: time.Hour,
		Func:     s.cleanupOldEvents,
		NextRun:  time.Now().Add(time.Minute),
	}

	s.tasks["cleanup_alerts"] = &Task{
		ID:       "cleanup_alerts",
		Name:     "Cleanup Old Alerts",
		Interval: 6 * time.Hour,
		Func:     s.cleanupOldAlerts,
		NextRun:  time.Now().Add(time.Minute),
	}
}

// Start starts the retention loop
func (s *Service) Start() {
	s.logger.Info("starting retention service")
	go s.run()
}

// Stop stops the retention loop
func (s *Service) Stop() {
	s.logger.Info("stopping retention service")
	s.cancelFunc()
}

func (s *Service) run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.executeDueTasks()
		case <-s.ctx.Done():
			s.logger.Info("retention service stopped")
			return
		}
	}
}

// executeDueTasks executes any tasks that are due
func (s *Service) executeDueTasks() {
	s.taskMutex.Lock()
	defer s.taskMutex.Unlock()

	now := time.Now()

	for _, task := range s.tasks {
		if now.After(task.NextRun) {
			start := time.Now()
			err := task.Func()

			task.LastRun = start
			task.NextRun = now.Add(task.Interval)

			if err != nil {
				s.logger.Error("retention task failed",
					zap.String("task", task.Name),
					zap.Duration("duration", time.Since(start)),
					zap.Error(err))
			} else {
				s.logger.Debug("retention task completed",
					zap.String("task", task.Name),
					zap.Duration("duration", time.Since(start)))
			}
		}
	}
}

// cleanupOldEvents removes file events past the event retention horizon
func (s *Service) cleanupOldEvents() error {
	cutoff := time.Now().Add(-EventRetention)

	result := s.DB.Where("created_at < ?", cutoff).Delete(&models.FileEvent{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete old file events: %v", result.Error)
	}

	if result.RowsAffected > 0 {
		s.logger.Info("pruned old file events", zap.Int64("count", result.RowsAffected))
	}
	return nil
}

// cleanupOldAlerts removes aged alerts, keeping critical ones longer
func (s *Service) cleanupOldAlerts() error {
	alertCutoff := time.Now().Add(-AlertRetention)
	criticalCutoff := time.Now().Add(-CriticalAlertRetention)

	result := s.DB.Where("created_at < ? AND severity <> ?", alertCutoff, models.SeverityCritical).
		Delete(&models.Alert{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete old alerts: %v", result.Error)
	}
	pruned := result.RowsAffected

	result = s.DB.Where("created_at < ?", criticalCutoff).Delete(&models.Alert{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete old critical alerts: %v", result.Error)
	}
	pruned += result.RowsAffected

	if pruned > 0 {
		s.logger.Info("pruned old alerts", zap.Int64("count", pruned))
	}
	return nil
}
