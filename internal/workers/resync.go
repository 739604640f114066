// SPDX-License-Identifier: Apache-2.0

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/offlinekit/offlinekit/internal/connectivity"
	"github.com/offlinekit/offlinekit/internal/logger"
	"github.com/offlinekit/offlinekit/internal/service"
)

// ResyncWorker keeps cached reference data fresh: on a ticker it checks the
// top-level scope's staleness and, while online, runs a full hierarchy sync
// when the last pull is older than maxAge.
type ResyncWorker struct {
	syncService service.SyncService
	monitor     connectivity.Monitor
	interval    time.Duration
	maxAge      time.Duration
	logger      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewResyncWorker creates a ResyncWorker that checks every interval. Zero or
// negative interval defaults to 5 minutes; zero or negative maxAge defers to
// the synchronizer's default bound. The worker is idle until Start is called.
func NewResyncWorker(syncService service.SyncService, monitor connectivity.Monitor, interval, maxAge time.Duration, log *logger.Logger) *ResyncWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &ResyncWorker{
		syncService: syncService,
		monitor:     monitor,
		interval:    interval,
		maxAge:      maxAge,
		logger:      log,
	}
}

// Start implements [Worker]. It stops any previously running instance first.
func (w *ResyncWorker) Start(ctx context.Context) {
	w.Stop()

	w.mu.Lock()
	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		t := time.NewTicker(w.interval)
		defer t.Stop()

		for {
			select {
			case <-workerCtx.Done():
				return
			case <-t.C:
				w.resync(workerCtx)
			}
		}
	}()
}

// Stop implements [Worker].
func (w *ResyncWorker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

// resync runs one staleness check. Errors are logged and swallowed so a bad
// tick never stops the worker.
func (w *ResyncWorker) resync(ctx context.Context) {
	if !w.monitor.Online() {
		return
	}

	needs, err := w.syncService.NeedsSync(ctx, service.CatalogsScope(), w.maxAge)
	if err != nil {
		w.logger.Err(err).
			Str("func", "ResyncWorker.resync").
			Msg("staleness check failed")
		return
	}
	if !needs {
		return
	}

	summary, err := w.syncService.SyncAll(ctx)
	if err != nil {
		w.logger.Warn().Err(err).
			Str("func", "ResyncWorker.resync").
			Msg("periodic resync incomplete")
		return
	}

	w.logger.Info().
		Str("func", "ResyncWorker.resync").
		Int("catalogs", summary.Catalogs).
		Int("sections", summary.Sections).
		Int("items", summary.Items).
		Msg("periodic resync completed")
}
