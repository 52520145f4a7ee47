package monitor

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/0xAdem/ransomguard/internal/models"
)

// watcher polls the watched roots and converts tree diffs into change
// notifications. Polling keeps the watch portable and bounds the work per
// cycle; within a single root, notifications preserve walk order.
type watcher struct {
	roots    []string
	interval time.Duration
	maxRead  int64
	emit     func(RawChange)
	logger   *zap.Logger

	stopCh chan struct{}
	done   chan struct{}
	states map[string]time.Time
}

func newWatcher(roots []string, interval time.Duration, maxRead int64, emit func(RawChange), logger *zap.Logger) *watcher {
	return &watcher{
		roots:    roots,
		interval: interval,
		maxRead:  maxRead,
		emit:     emit,
		logger:   logger,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
		states:   make(map[string]time.Time),
	}
}

func (w *watcher) start() {
	go w.run()
}

func (w *watcher) stop() {
	close(w.stopCh)
	<-w.done
}

func (w *watcher) run() {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Baseline scan: existing files are recorded without notifications so
	// a fresh session does not flood the pipeline with created events.
	w.scan(false)

	for {
		select {
		case <-ticker.C:
			w.scan(true)
		case <-w.stopCh:
			return
		}
	}
}

func (w *watcher) scan(notify bool) {
	seen := make(map[string]struct{}, len(w.states))

	for _, root := range w.roots {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				// Skip entries we cannot stat; the root itself may not
				// exist yet.
				return nil
			}
			if info.IsDir() {
				return nil
			}

			seen[path] = struct{}{}
			modTime := info.ModTime()
			cached, known := w.states[path]
			w.states[path] = modTime

			if !notify {
				return nil
			}

			switch {
			case !known:
				w.emit(RawChange{Path: path, Action: models.ActionCreated, Buffer: w.readPrefix(path)})
			case modTime.After(cached):
				w.emit(RawChange{Path: path, Action: models.ActionModified, Buffer: w.readPrefix(path)})
			}
			return nil
		})
		if err != nil {
			w.logger.Warn("watch scan failed", zap.String("root", root), zap.Error(err))
		}
	}

	for path := range w.states {
		if _, ok := seen[path]; !ok {
			delete(w.states, path)
			if notify {
				w.emit(RawChange{Path: path, Action: models.ActionDeleted})
			}
		}
	}
}

// readPrefix reads at most maxRead bytes of a file. A file that vanished
// or cannot be read yields nil; the pipeline treats that as zero entropy.
func (w *watcher) readPrefix(path string) []byte {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	buf, err := io.ReadAll(io.LimitReader(f, w.maxRead))
	if err != nil {
		return nil
	}
	return buf
}
