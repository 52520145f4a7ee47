package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/0xAdem/ransomguard/internal/models"
)

func TestRepository_AppendStampsRecords(t *testing.T) {
	repo := NewRepository(nil, zaptest.NewLogger(t), 10, 10)

	ev := repo.AppendEvent(models.FileEvent{Path: "/tmp/a.txt", Action: models.ActionCreated, FME: 4.5})
	require.NotEmpty(t, ev.ID)
	require.False(t, ev.CreatedAt.IsZero())

	alert := repo.AppendAlert(models.Alert{
		Host:     "host-1",
		Path:     "/tmp/a.locked",
		Severity: models.SeverityCritical,
		Type:     models.AlertRansomware,
	})
	require.NotEmpty(t, alert.ID)
	assert.NotEqual(t, ev.ID, alert.ID)
}

func TestRepository_MostRecentFirst(t *testing.T) {
	repo := NewRepository(nil, zaptest.NewLogger(t), 10, 10)

	for i := 0; i < 3; i++ {
		repo.AppendEvent(models.FileEvent{Path: fmt.Sprintf("/tmp/f%d", i), Action: models.ActionCreated})
	}

	events := repo.RecentEvents(0)
	require.Len(t, events, 3)
	assert.Equal(t, "/tmp/f2", events[0].Path)
	assert.Equal(t, "/tmp/f0", events[2].Path)
}

func TestRepository_EvictsOldestAtCapacity(t *testing.T) {
	repo := NewRepository(nil, zaptest.NewLogger(t), 5, 3)

	for i := 0; i < 10; i++ {
		repo.AppendEvent(models.FileEvent{Path: fmt.Sprintf("/tmp/f%d", i), Action: models.ActionModified})
		repo.AppendAlert(models.Alert{Path: fmt.Sprintf("/tmp/f%d", i), Severity: models.SeverityLow, Type: models.AlertSuspicious})
	}

	events := repo.RecentEvents(0)
	require.Len(t, events, 3)
	assert.Equal(t, "/tmp/f9", events[0].Path)
	assert.Equal(t, "/tmp/f7", events[2].Path)

	alerts := repo.RecentAlerts(0, "")
	require.Len(t, alerts, 5)
	assert.Equal(t, "/tmp/f9", alerts[0].Path)
}

func TestRepository_SeverityFilter(t *testing.T) {
	repo := NewRepository(nil, zaptest.NewLogger(t), 20, 20)

	repo.AppendAlert(models.Alert{Path: "/a", Severity: models.SeverityLow, Type: models.AlertSuspicious})
	repo.AppendAlert(models.Alert{Path: "/b", Severity: models.SeverityCritical, Type: models.AlertRansomware})
	repo.AppendAlert(models.Alert{Path: "/c", Severity: models.SeverityCritical, Type: models.AlertRansomware})

	critical := repo.RecentAlerts(0, models.SeverityCritical)
	require.Len(t, critical, 2)
	for _, alert := range critical {
		assert.Equal(t, models.SeverityCritical, alert.Severity)
	}
}

func TestRepository_AlertMetrics(t *testing.T) {
	repo := NewRepository(nil, zaptest.NewLogger(t), 20, 20)

	repo.AppendAlert(models.Alert{Severity: models.SeverityCritical, Type: models.AlertRansomware})
	repo.AppendAlert(models.Alert{Severity: models.SeverityHigh, Type: models.AlertRaaS})
	repo.AppendAlert(models.Alert{Severity: models.SeverityLow, Type: models.AlertSuspicious})

	m := repo.AlertMetrics()
	assert.Equal(t, int64(3), m.TotalAlerts)
	assert.Equal(t, int64(1), m.CriticalAlerts)
	assert.Equal(t, int64(1), m.HighAlerts)
	assert.Equal(t, int64(1), m.RansomwareAlerts)
	assert.Equal(t, int64(1), m.RaaSAlerts)
}

func TestRepository_ConcurrentAppendsAndReads(t *testing.T) {
	repo := NewRepository(nil, zaptest.NewLogger(t), 50, 50)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(2)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				repo.AppendEvent(models.FileEvent{Path: fmt.Sprintf("/g%d/f%d", g, i)})
			}
		}(g)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				repo.RecentEvents(10)
				repo.RecentAlerts(10, "")
			}
		}()
	}
	wg.Wait()

	assert.Len(t, repo.RecentEvents(0), 50)
}
