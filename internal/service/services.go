package service

import (
	"github.com/offlinekit/offlinekit/internal/adapter"
	"github.com/offlinekit/offlinekit/internal/config"
	"github.com/offlinekit/offlinekit/internal/connectivity"
	"github.com/offlinekit/offlinekit/internal/logger"
	"github.com/offlinekit/offlinekit/internal/store"
)

// Services groups the offline layer's services into a single value handed to
// the composing application.
type Services struct {
	// Sync is the reference-data synchronizer and offline read surface.
	Sync SyncService
	// Queue is the durable mutation queue.
	Queue QueueService
	// Orchestrator reacts to connectivity transitions.
	Orchestrator *Orchestrator
}

// NewServices wires the service layer on top of the shared storages, the
// remote API adapter and the connectivity monitor.
func NewServices(storages *store.Storages, api adapter.RemoteAPI, monitor connectivity.Monitor, cfg config.Sync, log *logger.Logger) *Services {
	notifier := NewNotifier()

	syncSvc := NewSyncService(storages, api, monitor, cfg, log)
	queueSvc := NewQueueService(storages, api, monitor, notifier, log)

	return &Services{
		Sync:         syncSvc,
		Queue:        queueSvc,
		Orchestrator: NewOrchestrator(queueSvc, syncSvc, monitor, log),
	}
}
