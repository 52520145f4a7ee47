package detection

import (
	"sync"
	"time"
)

// BurstTracker maintains a sliding window of file-change timestamps per
// scope and derives an adaptive activity threshold from it. The threshold
// rises automatically during legitimately busy periods (bulk copies, build
// tooling) while staying sensitive when the scope is quiet.
type BurstTracker struct {
	windows    map[string][]time.Time
	horizon    time.Duration
	base       float64
	adaptation float64
	mu         sync.Mutex
}

// BurstConfig holds BurstTracker tuning. Zero values fall back to the
// reference defaults: 60s horizon, base threshold 2.0, adaptation 1.5.
type BurstConfig struct {
	Horizon          time.Duration
	BaseThreshold    float64
	AdaptationFactor float64
}

// NewBurstTracker creates a tracker with the given tuning.
func NewBurstTracker(cfg BurstConfig) *BurstTracker {
	if cfg.Horizon <= 0 {
		cfg.Horizon = 60 * time.Second
	}
	if cfg.BaseThreshold <= 0 {
		cfg.BaseThreshold = 2.0
	}
	if cfg.AdaptationFactor <= 0 {
		cfg.AdaptationFactor = 1.5
	}
	return &BurstTracker{
		windows:    make(map[string][]time.Time),
		horizon:    cfg.Horizon,
		base:       cfg.BaseThreshold,
		adaptation: cfg.AdaptationFactor,
	}
}

// Observe records an event time for a scope.
func (bt *BurstTracker) Observe(scope string, t time.Time) {
	bt.mu.Lock()
	defer bt.mu.Unlock()

	bt.windows[scope] = append(bt.prune(scope, t), t)
}

// Rate returns recent events per second for a scope, measured over the
// full window horizon.
func (bt *BurstTracker) Rate(scope string, now time.Time) float64 {
	bt.mu.Lock()
	defer bt.mu.Unlock()

	window := bt.prune(scope, now)
	bt.windows[scope] = window

	return float64(len(window)) / bt.horizon.Seconds()
}

// CurrentThreshold returns the adaptive threshold for a scope:
// max(baseThreshold, rate*adaptationFactor). With no observed events the
// rate is 0 and the base threshold is returned, so the result never drops
// below the base.
func (bt *BurstTracker) CurrentThreshold(scope string, now time.Time) float64 {
	rate := bt.Rate(scope, now)

	threshold := rate * bt.adaptation
	if threshold < bt.base {
		threshold = bt.base
	}
	return threshold
}

// Count returns the number of events currently inside the scope's window.
func (bt *BurstTracker) Count(scope string, now time.Time) int {
	bt.mu.Lock()
	defer bt.mu.Unlock()

	window := bt.prune(scope, now)
	bt.windows[scope] = window

	return len(window)
}

// Reset discards the window for a scope.
func (bt *BurstTracker) Reset(scope string) {
	bt.mu.Lock()
	defer bt.mu.Unlock()

	delete(bt.windows, scope)
}

// DropExcept discards state for every scope not in keep. Used when a
// monitoring session rebinds to a new path set.
func (bt *BurstTracker) DropExcept(keep map[string]struct{}) {
	bt.mu.Lock()
	defer bt.mu.Unlock()

	for scope := range bt.windows {
		if _, ok := keep[scope]; !ok {
			delete(bt.windows, scope)
		}
	}
}

// prune drops entries older than the horizon. Caller holds the lock.
func (bt *BurstTracker) prune(scope string, now time.Time) []time.Time {
	cutoff := now.Add(-bt.horizon)
	window := bt.windows[scope]

	valid := window[:0]
	for _, t := range window {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	return valid
}
