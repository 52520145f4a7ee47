package detection

import (
	"math"
	"sync"
	"testing"
	"time"
)

func TestBurstTracker_EmptyScope(t *testing.T) {
	tracker := NewBurstTracker(BurstConfig{})
	now := time.Now()

	if rate := tracker.Rate("/watch", now); rate != 0 {
		t.Errorf("Rate on empty scope = %f, expected 0", rate)
	}
	if threshold := tracker.CurrentThreshold("/watch", now); threshold != 2.0 {
		t.Errorf("CurrentThreshold on empty scope = %f, expected base 2.0", threshold)
	}
}

func TestBurstTracker_FiftyEventsInOneSecond(t *testing.T) {
	tracker := NewBurstTracker(BurstConfig{})
	now := time.Now()

	for i := 0; i < 50; i++ {
		tracker.Observe("/watch", now.Add(time.Duration(i)*20*time.Millisecond))
	}

	read := now.Add(time.Second)

	// 50 events over a 60s horizon.
	rate := tracker.Rate("/watch", read)
	if math.Abs(rate-50.0/60.0) > 1e-9 {
		t.Errorf("Rate = %f, expected %f", rate, 50.0/60.0)
	}

	// burstRate*1.5 ~ 1.25 stays under the base threshold.
	if threshold := tracker.CurrentThreshold("/watch", read); threshold != 2.0 {
		t.Errorf("CurrentThreshold = %f, expected base 2.0", threshold)
	}
}

func TestBurstTracker_ThresholdRisesWithActivity(t *testing.T) {
	tracker := NewBurstTracker(BurstConfig{})
	now := time.Now()

	// 600 events inside the window: rate 10/s, threshold 15.
	for i := 0; i < 600; i++ {
		tracker.Observe("/watch", now)
	}

	threshold := tracker.CurrentThreshold("/watch", now)
	if math.Abs(threshold-15.0) > 1e-9 {
		t.Errorf("CurrentThreshold = %f, expected 15.0", threshold)
	}
}

func TestBurstTracker_ThresholdNeverBelowBase(t *testing.T) {
	tracker := NewBurstTracker(BurstConfig{})
	now := time.Now()

	histories := []int{0, 1, 10, 50, 119, 120, 1000}
	for _, n := range histories {
		tracker.Reset("/watch")
		for i := 0; i < n; i++ {
			tracker.Observe("/watch", now)
		}
		if threshold := tracker.CurrentThreshold("/watch", now); threshold < 2.0 {
			t.Errorf("threshold %f below base after %d events", threshold, n)
		}
	}
}

func TestBurstTracker_PrunesStaleEntries(t *testing.T) {
	tracker := NewBurstTracker(BurstConfig{Horizon: 60 * time.Second})
	now := time.Now()

	for i := 0; i < 30; i++ {
		tracker.Observe("/watch", now)
	}

	if count := tracker.Count("/watch", now); count != 30 {
		t.Fatalf("Count = %d, expected 30", count)
	}

	// All entries fall outside the horizon two minutes later.
	later := now.Add(2 * time.Minute)
	if count := tracker.Count("/watch", later); count != 0 {
		t.Errorf("Count after horizon = %d, expected 0", count)
	}
	if threshold := tracker.CurrentThreshold("/watch", later); threshold != 2.0 {
		t.Errorf("CurrentThreshold after horizon = %f, expected base 2.0", threshold)
	}
}

func TestBurstTracker_ScopesAreIndependent(t *testing.T) {
	tracker := NewBurstTracker(BurstConfig{})
	now := time.Now()

	for i := 0; i < 600; i++ {
		tracker.Observe("/busy", now)
	}
	tracker.Observe("/quiet", now)

	if busy := tracker.CurrentThreshold("/busy", now); busy <= 2.0 {
		t.Errorf("busy scope threshold = %f, expected above base", busy)
	}
	if quiet := tracker.CurrentThreshold("/quiet", now); quiet != 2.0 {
		t.Errorf("quiet scope threshold = %f, expected base", quiet)
	}
}

func TestBurstTracker_DropExcept(t *testing.T) {
	tracker := NewBurstTracker(BurstConfig{})
	now := time.Now()

	tracker.Observe("/keep", now)
	tracker.Observe("/drop", now)

	tracker.DropExcept(map[string]struct{}{"/keep": {}})

	if count := tracker.Count("/keep", now); count != 1 {
		t.Errorf("kept scope count = %d, expected 1", count)
	}
	if count := tracker.Count("/drop", now); count != 0 {
		t.Errorf("dropped scope count = %d, expected 0", count)
	}
}

func TestBurstTracker_ConcurrentObserve(t *testing.T) {
	tracker := NewBurstTracker(BurstConfig{})
	now := time.Now()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				tracker.Observe("/watch", now)
				tracker.CurrentThreshold("/watch", now)
			}
		}()
	}
	wg.Wait()

	if count := tracker.Count("/watch", now); count != 800 {
		t.Errorf("Count = %d, expected 800", count)
	}
}
