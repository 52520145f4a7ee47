package monitor

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/0xAdem/ransomguard/internal/detection"
	"github.com/0xAdem/ransomguard/internal/metrics"
	"github.com/0xAdem/ransomguard/internal/models"
	"github.com/0xAdem/ransomguard/internal/store"
)

// ErrEmptyWatchSet is returned by Start when the path set is empty or
// contains blank entries. The session stays stopped.
var ErrEmptyWatchSet = errors.New("watch path set is empty or invalid")

const (
	// DefaultQueueDepth bounds the change-notification queue. A full queue
	// drops the notification rather than blocking the producer.
	DefaultQueueDepth = 256

	// DefaultMaxReadBytes caps how much of a changed file is read for
	// entropy analysis and pattern scanning.
	DefaultMaxReadBytes = 64 * 1024

	// DefaultPollInterval is how often the watcher rescans its roots.
	DefaultPollInterval = 2 * time.Second
)

// Notifier receives every produced record for relay to real-time
// transports. Implementations must not block.
type Notifier interface {
	NotifyFileEvent(models.FileEvent)
	NotifyAlert(models.Alert)
}

// RawChange is a single filesystem change notification. Buffer holds up to
// MaxReadBytes of the file content; nil for deletions and unreadable files.
type RawChange struct {
	Path   string
	Action models.FileAction
	Buffer []byte
}

// Status reports the session state for the monitoring API.
type Status struct {
	Status       string   `json:"status"`
	Paths        []string `json:"paths"`
	ABT          float64  `json:"abt"`
	RecentEvents int      `json:"recent_events"`
}

// Config holds session tuning; zero values use the defaults above.
type Config struct {
	QueueDepth   int
	MaxReadBytes int
	PollInterval time.Duration
}

// Session owns the watch scope and drives change notifications through the
// detection pipeline. One worker goroutine consumes a bounded queue fed by
// the watcher, decoupling ingestion rate from classification rate.
type Session struct {
	cfg        Config
	scanner    *detection.PatternScanner
	burst      *detection.BurstTracker
	classifier *detection.Classifier
	repo       *store.Repository
	notifier   Notifier
	pipeline   *metrics.Pipeline
	logger     *zap.Logger

	mu      sync.Mutex
	running bool
	paths   []string
	queue   chan RawChange
	stopCh  chan struct{}
	wg      sync.WaitGroup
	watcher *watcher
}

// NewSession wires the detection components into a stopped session.
// Notifier and pipeline may be nil.
func NewSession(
	cfg Config,
	scanner *detection.PatternScanner,
	burst *detection.BurstTracker,
	classifier *detection.Classifier,
	repo *store.Repository,
	notifier Notifier,
	pipeline *metrics.Pipeline,
	logger *zap.Logger,
) *Session {
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = DefaultQueueDepth
	}
	if cfg.MaxReadBytes <= 0 {
		cfg.MaxReadBytes = DefaultMaxReadBytes
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &Session{
		cfg:        cfg,
		scanner:    scanner,
		burst:      burst,
		classifier: classifier,
		repo:       repo,
		notifier:   notifier,
		pipeline:   pipeline,
		logger:     logger,
	}
}

// Start binds the session to paths and begins consuming change
// notifications. Starting a running session is idempotent: it rebinds to
// the new path set and discards burst state for scopes no longer watched.
func (s *Session) Start(paths []string) error {
	cleaned := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			return ErrEmptyWatchSet
		}
		cleaned = append(cleaned, filepath.Clean(p))
	}
	if len(cleaned) == 0 {
		return ErrEmptyWatchSet
	}

	s.mu.Lock()

	keep := make(map[string]struct{}, len(cleaned))
	for _, p := range cleaned {
		keep[p] = struct{}{}
	}

	if s.running {
		// Rebind: swap the watcher, keep the queue and worker. The old
		// watcher is stopped outside the lock because its emit callback
		// takes the same lock.
		s.burst.DropExcept(keep)
		old := s.watcher
		s.paths = cleaned
		s.watcher = newWatcher(cleaned, s.cfg.PollInterval, int64(s.cfg.MaxReadBytes), s.enqueue, s.logger)
		s.watcher.start()
		s.mu.Unlock()

		old.stop()
		s.logger.Info("monitoring rebound", zap.Strings("paths", cleaned))
		return nil
	}

	s.burst.DropExcept(keep)
	s.paths = cleaned
	s.queue = make(chan RawChange, s.cfg.QueueDepth)
	s.stopCh = make(chan struct{})
	s.running = true

	s.wg.Add(1)
	go s.consume(s.queue, s.stopCh)

	s.watcher = newWatcher(cleaned, s.cfg.PollInterval, int64(s.cfg.MaxReadBytes), s.enqueue, s.logger)
	s.watcher.start()
	s.mu.Unlock()

	s.logger.Info("monitoring started", zap.Strings("paths", cleaned))
	return nil
}

// Stop releases the watch scope. Safe to call repeatedly and concurrently
// with in-flight classification; it only prevents new notifications from
// entering the pipeline.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	w := s.watcher
	s.watcher = nil
	close(s.stopCh)
	s.paths = nil
	s.mu.Unlock()

	// The watcher's emit callback takes the session lock, so it must be
	// stopped after the lock is released.
	w.stop()
	s.wg.Wait()
	s.logger.Info("monitoring stopped")
}

// Status reports the current state, watched paths and burst statistics.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{Status: "stopped", Paths: []string{}}
	if !s.running {
		return st
	}

	st.Status = "running"
	st.Paths = append(st.Paths, s.paths...)

	now := time.Now()
	var abt float64
	var recent int
	for _, scope := range s.paths {
		if t := s.burst.CurrentThreshold(scope, now); t > abt {
			abt = t
		}
		recent += s.burst.Count(scope, now)
	}
	st.ABT = abt
	st.RecentEvents = recent
	return st
}

// enqueue hands a change to the pipeline queue without blocking; a full
// queue drops the notification.
func (s *Session) enqueue(change RawChange) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	queue := s.queue
	s.mu.Unlock()

	select {
	case queue <- change:
	default:
		if s.pipeline != nil {
			s.pipeline.QueueDropped.Inc()
		}
		s.logger.Warn("pipeline queue full, dropping notification", zap.String("path", change.Path))
	}
}

func (s *Session) consume(queue chan RawChange, stopCh chan struct{}) {
	defer s.wg.Done()
	for {
		select {
		case <-stopCh:
			return
		case change := <-queue:
			s.HandleRawChange(change.Path, change.Action, change.Buffer)
		}
	}
}

// HandleRawChange is the single classification entry point, called once
// per observed filesystem change. A FileEvent is always produced; an Alert
// only when the classifier fires. Deleted or unreadable files classify
// with entropy 0 and no indicators, never as an error.
func (s *Session) HandleRawChange(path string, action models.FileAction, buf []byte) (models.FileEvent, *models.Alert) {
	var fme float64
	var tags []detection.IndicatorTag

	if action != models.ActionDeleted && len(buf) > 0 {
		fme = detection.SampledEntropy(buf)
		tags = s.scanner.Scan(path, buf)
	}

	scope := s.scopeFor(path)
	now := time.Now()
	s.burst.Observe(scope, now)
	recent := s.burst.Count(scope, now)
	threshold := s.burst.CurrentThreshold(scope, now)

	event := s.repo.AppendEvent(models.FileEvent{
		Path:   path,
		Action: action,
		FME:    fme,
	})
	if s.pipeline != nil {
		s.pipeline.EventsProcessed.Inc()
	}
	if s.notifier != nil {
		s.notifier.NotifyFileEvent(event)
	}

	alert := s.classifier.Classify(event, tags, recent, threshold)
	if alert == nil {
		return event, nil
	}

	stored := s.repo.AppendAlert(*alert)
	if s.pipeline != nil {
		s.pipeline.AlertsEmitted.WithLabelValues(string(stored.Severity), string(stored.Type)).Inc()
	}
	if s.notifier != nil {
		s.notifier.NotifyAlert(stored)
	}

	s.logger.Warn("alert emitted",
		zap.String("path", stored.Path),
		zap.String("severity", string(stored.Severity)),
		zap.String("type", string(stored.Type)),
		zap.Int("risk_score", stored.RiskScore),
	)
	return event, &stored
}

// scopeFor maps a file path to its watched root; burst statistics are
// tracked per root. Paths outside every root fall back to their directory.
func (s *Session) scopeFor(path string) string {
	s.mu.Lock()
	paths := s.paths
	s.mu.Unlock()

	clean := filepath.Clean(path)
	best := ""
	for _, root := range paths {
		if clean == root || strings.HasPrefix(clean, root+string(filepath.Separator)) {
			if len(root) > len(best) {
				best = root
			}
		}
	}
	if best == "" {
		return filepath.Dir(clean)
	}
	return best
}
