package connectivity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offlinekit/offlinekit/internal/config"
	"github.com/offlinekit/offlinekit/internal/logger"
)

func TestFake_TransitionsNotifySubscribers(t *testing.T) {
	fake := NewFake(false)
	assert.False(t, fake.Online())

	ch, cancel := fake.Subscribe()
	defer cancel()

	fake.SetOnline(true)
	select {
	case state := <-ch:
		assert.Equal(t, StateOnline, state)
	case <-time.After(time.Second):
		t.Fatal("expected a transition notification")
	}
	assert.True(t, fake.Online())
}

func TestFake_NoNotificationWithoutTransition(t *testing.T) {
	fake := NewFake(true)

	ch, cancel := fake.Subscribe()
	defer cancel()

	fake.SetOnline(true) // already online

	select {
	case <-ch:
		t.Fatal("no transition happened, nothing should be delivered")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFake_CancelledSubscriptionStops(t *testing.T) {
	fake := NewFake(false)

	ch, cancel := fake.Subscribe()
	cancel()

	fake.SetOnline(true)

	_, open := <-ch
	assert.False(t, open, "cancelled subscription channel must be closed")
}

func TestProbeMonitor_DetectsRecovery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	m := NewProbeMonitor(
		config.API{HealthURL: srv.URL, RequestTimeout: time.Second},
		config.Probe{Interval: 10 * time.Millisecond},
		logger.Nop(),
	)

	ch, cancelSub := m.Subscribe()
	defer cancelSub()

	m.Start(context.Background())
	defer m.Stop()

	select {
	case state := <-ch:
		assert.Equal(t, StateOnline, state)
	case <-time.After(2 * time.Second):
		t.Fatal("probe never reported online")
	}
	require.True(t, m.Online())
}

func TestProbeMonitor_DetectsLoss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	m := NewProbeMonitor(
		config.API{HealthURL: srv.URL, RequestTimeout: 200 * time.Millisecond},
		config.Probe{Interval: 10 * time.Millisecond},
		logger.Nop(),
	)

	m.Start(context.Background())
	defer m.Stop()

	require.Eventually(t, m.Online, 2*time.Second, 10*time.Millisecond)

	srv.Close()

	require.Eventually(t, func() bool { return !m.Online() }, 2*time.Second, 10*time.Millisecond)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "offline", StateOffline.String())
	assert.Equal(t, "online", StateOnline.String())
	assert.Equal(t, "recovering", StateRecovering.String())
}
