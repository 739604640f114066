package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/offlinekit/offlinekit/internal/adapter"
	"github.com/offlinekit/offlinekit/internal/connectivity"
	"github.com/offlinekit/offlinekit/internal/logger"
	"github.com/offlinekit/offlinekit/internal/mock"
	"github.com/offlinekit/offlinekit/models"
)

func TestResyncWorker_SyncsWhenStale(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockSyncService(ctrl)
	monitor := connectivity.NewFake(true)

	var syncs atomic.Int32
	syncSvc.EXPECT().NeedsSync(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()
	syncSvc.EXPECT().SyncAll(gomock.Any()).
		DoAndReturn(func(context.Context) (models.SyncSummary, error) {
			syncs.Add(1)
			return models.SyncSummary{Catalogs: 1}, nil
		}).
		AnyTimes()

	w := NewResyncWorker(syncSvc, monitor, 10*time.Millisecond, time.Hour, logger.Nop())
	w.Start(context.Background())
	defer w.Stop()

	require.Eventually(t, func() bool {
		return syncs.Load() >= 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestResyncWorker_SkipsWhenFresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockSyncService(ctrl)
	monitor := connectivity.NewFake(true)

	var checks atomic.Int32
	syncSvc.EXPECT().NeedsSync(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, time.Duration) (bool, error) {
			checks.Add(1)
			return false, nil
		}).
		AnyTimes()
	// No SyncAll expectation: a call would fail via the controller.

	w := NewResyncWorker(syncSvc, monitor, 10*time.Millisecond, time.Hour, logger.Nop())
	w.Start(context.Background())
	defer w.Stop()

	require.Eventually(t, func() bool {
		return checks.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestResyncWorker_SkipsWhenOffline(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockSyncService(ctrl)
	monitor := connectivity.NewFake(false)

	// No expectations at all: the worker must not touch the synchronizer.
	w := NewResyncWorker(syncSvc, monitor, 10*time.Millisecond, time.Hour, logger.Nop())
	w.Start(context.Background())

	time.Sleep(50 * time.Millisecond)
	w.Stop()
}

func TestResyncWorker_SyncErrorDoesNotStopWorker(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockSyncService(ctrl)
	monitor := connectivity.NewFake(true)

	var syncs atomic.Int32
	syncSvc.EXPECT().NeedsSync(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()
	syncSvc.EXPECT().SyncAll(gomock.Any()).
		DoAndReturn(func(context.Context) (models.SyncSummary, error) {
			syncs.Add(1)
			return models.SyncSummary{}, adapter.ErrNetwork
		}).
		AnyTimes()

	w := NewResyncWorker(syncSvc, monitor, 10*time.Millisecond, time.Hour, logger.Nop())
	w.Start(context.Background())
	defer w.Stop()

	require.Eventually(t, func() bool {
		return syncs.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond, "worker keeps ticking after a failed sync")
}

func TestResyncWorker_StopBeforeStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockSyncService(ctrl)

	w := NewResyncWorker(syncSvc, connectivity.NewFake(true), time.Minute, time.Hour, logger.Nop())

	w.Stop()
	w.Stop()
}

func TestResyncWorker_ContextCancelStopsWorker(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockSyncService(ctrl)
	monitor := connectivity.NewFake(false)

	ctx, cancel := context.WithCancel(context.Background())

	w := NewResyncWorker(syncSvc, monitor, 10*time.Millisecond, time.Hour, logger.Nop())
	w.Start(ctx)

	cancel()
	// Stop after cancel must not hang.
	w.Stop()
}
