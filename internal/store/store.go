package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/0xAdem/ransomguard/internal/models"
)

const (
	// DefaultMaxAlerts caps the in-memory alert log.
	DefaultMaxAlerts = 100

	// DefaultMaxEvents caps the in-memory file-event log.
	DefaultMaxEvents = 50
)

// Repository owns the bounded, most-recent-first append logs for alerts and
// file events and mirrors every record into the database. Appends stamp the
// record ID and timestamp, so records are immutable from that point on.
// When the log is at capacity the oldest record is evicted silently; that
// is never an error.
type Repository struct {
	db     *gorm.DB
	logger *zap.Logger

	mu        sync.RWMutex
	alerts    []models.Alert
	events    []models.FileEvent
	maxAlerts int
	maxEvents int
}

// NewRepository creates a repository backed by db. A nil db keeps records
// in memory only, which the tests rely on.
func NewRepository(db *gorm.DB, logger *zap.Logger, maxAlerts, maxEvents int) *Repository {
	if maxAlerts <= 0 {
		maxAlerts = DefaultMaxAlerts
	}
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	return &Repository{
		db:        db,
		logger:    logger,
		maxAlerts: maxAlerts,
		maxEvents: maxEvents,
	}
}

// AppendEvent stamps and stores a file event, returning the stored record.
func (r *Repository) AppendEvent(ev models.FileEvent) models.FileEvent {
	ev.ID = uuid.NewString()
	ev.CreatedAt = time.Now()

	r.mu.Lock()
	r.events = append([]models.FileEvent{ev}, r.events...)
	if len(r.events) > r.maxEvents {
		r.events = r.events[:r.maxEvents]
	}
	r.mu.Unlock()

	r.persist(&ev, "file event", ev.Path)
	return ev
}

// AppendAlert stamps and stores an alert, returning the stored record.
func (r *Repository) AppendAlert(alert models.Alert) models.Alert {
	alert.ID = uuid.NewString()
	alert.CreatedAt = time.Now()

	r.mu.Lock()
	r.alerts = append([]models.Alert{alert}, r.alerts...)
	if len(r.alerts) > r.maxAlerts {
		r.alerts = r.alerts[:r.maxAlerts]
	}
	r.mu.Unlock()

	r.persist(&alert, "alert", alert.Path)
	return alert
}

func (r *Repository) persist(record any, kind, path string) {
	if r.db == nil {
		return
	}
	if err := r.db.Create(record).Error; err != nil {
		r.logger.Error("failed to persist "+kind,
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

// RecentAlerts returns up to limit alerts, most recent first, optionally
// filtered by severity. The returned slice is a copy.
func (r *Repository) RecentAlerts(limit int, severity models.Severity) []models.Alert {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.alerts) {
		limit = len(r.alerts)
	}

	out := make([]models.Alert, 0, limit)
	for _, alert := range r.alerts {
		if severity != "" && alert.Severity != severity {
			continue
		}
		out = append(out, alert)
		if len(out) == limit {
			break
		}
	}
	return out
}

// RecentEvents returns up to limit file events, most recent first.
func (r *Repository) RecentEvents(limit int) []models.FileEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.events) {
		limit = len(r.events)
	}

	out := make([]models.FileEvent, limit)
	copy(out, r.events[:limit])
	return out
}

// ListAlerts serves the read-side API: with a database attached it pages
// through the full retained history, otherwise through the in-memory log.
func (r *Repository) ListAlerts(skip, limit int, severity models.Severity) []models.Alert {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	if r.db != nil {
		var alerts []models.Alert
		q := r.db.Order("created_at DESC").Offset(skip).Limit(limit)
		if severity != "" {
			q = q.Where("severity = ?", severity)
		}
		if err := q.Find(&alerts).Error; err != nil {
			r.logger.Error("failed to list alerts", zap.Error(err))
			return nil
		}
		return alerts
	}

	filtered := r.RecentAlerts(0, severity)
	if skip >= len(filtered) {
		return nil
	}
	filtered = filtered[skip:]
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

// ListEvents pages through file events, most recent first.
func (r *Repository) ListEvents(skip, limit int) []models.FileEvent {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}

	if r.db != nil {
		var events []models.FileEvent
		if err := r.db.Order("created_at DESC").Offset(skip).Limit(limit).Find(&events).Error; err != nil {
			r.logger.Error("failed to list file events", zap.Error(err))
			return nil
		}
		return events
	}

	all := r.RecentEvents(0)
	if skip >= len(all) {
		return nil
	}
	all = all[skip:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

// Metrics summarizes the alert log for the dashboard.
type Metrics struct {
	TotalAlerts      int64 `json:"total_alerts"`
	CriticalAlerts   int64 `json:"critical_alerts"`
	HighAlerts       int64 `json:"high_alerts"`
	RansomwareAlerts int64 `json:"ransomware_alerts"`
	RaaSAlerts       int64 `json:"raas_alerts"`
}

// AlertMetrics counts alerts by severity and classification. With a
// database attached the counts cover the full retained history, otherwise
// the in-memory log.
func (r *Repository) AlertMetrics() Metrics {
	if r.db != nil {
		return r.dbMetrics()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var m Metrics
	m.TotalAlerts = int64(len(r.alerts))
	for _, alert := range r.alerts {
		switch alert.Severity {
		case models.SeverityCritical:
			m.CriticalAlerts++
		case models.SeverityHigh:
			m.HighAlerts++
		}
		switch alert.Type {
		case models.AlertRansomware:
			m.RansomwareAlerts++
		case models.AlertRaaS:
			m.RaaSAlerts++
		}
	}
	return m
}

func (r *Repository) dbMetrics() Metrics {
	var m Metrics
	r.db.Model(&models.Alert{}).Count(&m.TotalAlerts)
	r.db.Model(&models.Alert{}).Where("severity = ?", models.SeverityCritical).Count(&m.CriticalAlerts)
	r.db.Model(&models.Alert{}).Where("severity = ?", models.SeverityHigh).Count(&m.HighAlerts)
	r.db.Model(&models.Alert{}).Where("type = ?", models.AlertRansomware).Count(&m.RansomwareAlerts)
	r.db.Model(&models.Alert{}).Where("type = ?", models.AlertRaaS).Count(&m.RaaSAlerts)
	return m
}
