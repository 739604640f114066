// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/offlinekit/offlinekit/internal/connectivity"
	"github.com/offlinekit/offlinekit/internal/logger"
)

var errStillPending = errors.New("operations still pending")

// Orchestrator composes the monitor, the mutation queue and the synchronizer.
// On every Offline→Online transition it triggers exactly one asynchronous
// flush; callers observe progress via the queue-changed notification rather
// than blocking on completion.
type Orchestrator struct {
	queue   QueueService
	sync    SyncService
	monitor connectivity.Monitor
	logger  *logger.Logger

	mu         sync.Mutex
	recovering bool
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

func NewOrchestrator(queue QueueService, syncSvc SyncService, monitor connectivity.Monitor, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		queue:   queue,
		sync:    syncSvc,
		monitor: monitor,
		logger:  log,
	}
}

// Start subscribes to connectivity transitions. It stops a previously running
// subscription first. The goroutine exits when ctx is cancelled or Stop is
// called.
func (o *Orchestrator) Start(ctx context.Context) {
	o.Stop()

	o.mu.Lock()
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.wg.Add(1)
	o.mu.Unlock()

	transitions, cancelSub := o.monitor.Subscribe()

	go func() {
		defer o.wg.Done()
		defer cancelSub()

		for {
			select {
			case <-runCtx.Done():
				return
			case state, ok := <-transitions:
				if !ok {
					return
				}
				if state == connectivity.StateOnline {
					o.wg.Add(1)
					go o.recover(runCtx)
				}
			}
		}
	}()
}

// Stop cancels the subscription and any in-flight recovery flush, then waits
// for both to exit. Safe to call when not running.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	cancel := o.cancel
	o.cancel = nil
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	o.wg.Wait()
}

// State reports Offline, Recovering while the automatic reconnect flush is in
// flight, or Online.
func (o *Orchestrator) State() connectivity.State {
	if !o.monitor.Online() {
		return connectivity.StateOffline
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.recovering {
		return connectivity.StateRecovering
	}
	return connectivity.StateOnline
}

// NeedsSync passes the staleness check through to the synchronizer so UI code
// can decide whether to trigger a pull on reconnect.
func (o *Orchestrator) NeedsSync(ctx context.Context, scope string, maxAge time.Duration) (bool, error) {
	return o.sync.NeedsSync(ctx, scope, maxAge)
}

// recover runs the post-reconnect flush. Transient leftovers are retried with
// capped exponential backoff while the link stays up; a retry budget keeps a
// flapping backend from pinning the loop forever.
func (o *Orchestrator) recover(ctx context.Context) {
	defer o.wg.Done()

	o.setRecovering(true)
	defer o.setRecovering(false)

	backoff := retry.WithMaxRetries(4, retry.WithCappedDuration(30*time.Second, retry.NewExponential(500*time.Millisecond)))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		result, err := o.queue.Flush(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}

		o.logger.Info().
			Str("func", "Orchestrator.recover").
			Int("success", result.Success).
			Int("failed", result.Failed).
			Int("remaining", result.Remaining).
			Msg("reconnect flush completed")

		if result.Remaining > 0 && o.monitor.Online() {
			return retry.RetryableError(errStillPending)
		}
		return nil
	})
	if err != nil {
		o.logger.Warn().Err(err).
			Str("func", "Orchestrator.recover").
			Msg("reconnect flush left operations queued")
	}
}

func (o *Orchestrator) setRecovering(v bool) {
	o.mu.Lock()
	o.recovering = v
	o.mu.Unlock()
}
