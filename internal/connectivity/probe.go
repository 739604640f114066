package connectivity

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/offlinekit/offlinekit/internal/config"
	"github.com/offlinekit/offlinekit/internal/logger"
	"github.com/offlinekit/offlinekit/internal/utils"
)

// ProbeMonitor derives connectivity from periodic HEAD requests against a
// health endpoint. Any response, regardless of status code, proves the link is
// up; only transport failures count as offline.
type ProbeMonitor struct {
	*broadcaster

	client   *utils.HTTPClient
	url      string
	interval time.Duration
	logger   *logger.Logger

	online atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewProbeMonitor builds a monitor probing cfg.HealthURL every cfg.Interval.
// The monitor starts in the offline state and is idle until Start is called;
// the first probe fires immediately so startup does not wait a full interval
// for the initial state.
func NewProbeMonitor(apiCfg config.API, probeCfg config.Probe, log *logger.Logger) *ProbeMonitor {
	client := utils.NewHTTPClient()
	client.SetTimeout(apiCfg.RequestTimeout)

	return &ProbeMonitor{
		broadcaster: newBroadcaster(),
		client:      client,
		url:         apiCfg.HealthURL,
		interval:    probeCfg.Interval,
		logger:      log,
	}
}

func (m *ProbeMonitor) Online() bool {
	return m.online.Load()
}

func (m *ProbeMonitor) Subscribe() (<-chan State, func()) {
	return m.subscribe()
}

// Start launches the probe loop. It stops any previously running loop first,
// so calling Start twice does not leak goroutines.
func (m *ProbeMonitor) Start(ctx context.Context) {
	m.Stop()

	m.mu.Lock()
	probeCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		t := time.NewTicker(m.interval)
		defer t.Stop()

		m.probe(probeCtx)
		for {
			select {
			case <-probeCtx.Done():
				return
			case <-t.C:
				m.probe(probeCtx)
			}
		}
	}()
}

// Stop cancels the probe loop and waits for it to exit. Safe to call when the
// monitor is not running.
func (m *ProbeMonitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

func (m *ProbeMonitor) probe(ctx context.Context) {
	_, err := m.client.R().SetContext(ctx).Head(m.url)
	nowOnline := err == nil

	if m.online.Swap(nowOnline) == nowOnline {
		return // no transition
	}

	state := StateOffline
	if nowOnline {
		state = StateOnline
	}
	m.logger.Info().
		Str("func", "ProbeMonitor.probe").
		Str("state", state.String()).
		Msg("connectivity transition")
	m.notify(state)
}
