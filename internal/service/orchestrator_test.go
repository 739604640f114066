package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/offlinekit/offlinekit/internal/config"
	"github.com/offlinekit/offlinekit/internal/connectivity"
	"github.com/offlinekit/offlinekit/internal/logger"
	"github.com/offlinekit/offlinekit/internal/mock"
	"github.com/offlinekit/offlinekit/models"
)

func newTestServices(t *testing.T, online bool) (*Services, *mock.MockRemoteAPI, *connectivity.Fake) {
	t.Helper()

	ctrl := gomock.NewController(t)
	api := mock.NewMockRemoteAPI(ctrl)
	monitor := connectivity.NewFake(online)

	services := NewServices(newTestStorages(t), api, monitor, config.Sync{PageSize: 10}, logger.Nop())
	return services, api, monitor
}

// Full offline round trip: a mutation queued while offline is delivered
// automatically on reconnect, and observers see exactly two queue-changed
// notifications, one for the enqueue and one for the flush.
func TestOrchestrator_ReconnectFlushesQueue(t *testing.T) {
	services, api, monitor := newTestServices(t, false)
	ctx := context.Background()

	changed, cancelSub := services.Queue.Subscribe()
	defer cancelSub()

	_, err := services.Queue.Enqueue(ctx, "create_item", "/api/items", "POST", json.RawMessage(`{"title":"x"}`))
	require.NoError(t, err)

	result, err := services.Queue.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.FlushResult{Remaining: 1}, result)

	api.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	services.Orchestrator.Start(ctx)
	defer services.Orchestrator.Stop()

	monitor.SetOnline(true)

	require.Eventually(t, func() bool {
		count, countErr := services.Queue.PendingCount(ctx)
		return countErr == nil && count == 0
	}, 2*time.Second, 10*time.Millisecond, "reconnect must drain the queue")

	// Let the recovery goroutine settle before counting signals.
	require.Eventually(t, func() bool {
		return services.Orchestrator.State() == connectivity.StateOnline
	}, 2*time.Second, 10*time.Millisecond)

	notifications := 0
	counting := true
	for counting {
		select {
		case <-changed:
			notifications++
		default:
			counting = false
		}
	}
	assert.Equal(t, 2, notifications, "one notification per enqueue, one per non-empty flush")
}

func TestOrchestrator_State(t *testing.T) {
	services, api, monitor := newTestServices(t, false)
	ctx := context.Background()

	assert.Equal(t, connectivity.StateOffline, services.Orchestrator.State())

	_, err := services.Queue.Enqueue(ctx, "create_item", "/api/items", "POST", json.RawMessage(`{}`))
	require.NoError(t, err)

	release := make(chan struct{})
	api.EXPECT().Deliver(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, models.PendingOperation) error {
			<-release
			return nil
		}).
		Times(1)

	services.Orchestrator.Start(ctx)
	defer services.Orchestrator.Stop()

	monitor.SetOnline(true)

	require.Eventually(t, func() bool {
		return services.Orchestrator.State() == connectivity.StateRecovering
	}, 2*time.Second, 10*time.Millisecond, "flush in flight reports Recovering")

	close(release)

	require.Eventually(t, func() bool {
		return services.Orchestrator.State() == connectivity.StateOnline
	}, 2*time.Second, 10*time.Millisecond)

	monitor.SetOnline(false)
	assert.Equal(t, connectivity.StateOffline, services.Orchestrator.State())
}

func TestOrchestrator_StopIsIdempotent(t *testing.T) {
	services, _, _ := newTestServices(t, false)

	services.Orchestrator.Stop()

	services.Orchestrator.Start(context.Background())
	services.Orchestrator.Stop()
	services.Orchestrator.Stop()
}

func TestOrchestrator_NeedsSyncPassthrough(t *testing.T) {
	services, _, _ := newTestServices(t, true)

	needs, err := services.Orchestrator.NeedsSync(context.Background(), CatalogsScope(), time.Hour)
	require.NoError(t, err)
	assert.True(t, needs)
}
