package client

import (
	"context"
	"fmt"

	"github.com/offlinekit/offlinekit/internal/adapter"
	"github.com/offlinekit/offlinekit/internal/config"
	"github.com/offlinekit/offlinekit/internal/connectivity"
	"github.com/offlinekit/offlinekit/internal/logger"
	"github.com/offlinekit/offlinekit/internal/service"
	"github.com/offlinekit/offlinekit/internal/store"
	"github.com/offlinekit/offlinekit/internal/workers"
)

// App is the composition root of the offline data layer. It owns the shared
// storage handle, the connectivity monitor, the services and the background
// workers, and exposes them to the embedding application.
type App struct {
	Storages *store.Storages
	Monitor  *connectivity.ProbeMonitor
	Services *service.Services
	Workers  *workers.Workers

	logger *logger.Logger
}

// NewApp wires the full offline layer from the given configuration. The
// returned App is idle until Start is called.
func NewApp(cfg *config.StructuredConfig, log *logger.Logger) (*App, error) {
	storages, err := store.NewStorages(cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create storages: %w", err)
	}

	api, err := adapter.NewHTTPRemoteAPI(cfg.API, log)
	if err != nil {
		return nil, fmt.Errorf("create remote api: %w", err)
	}

	monitor := connectivity.NewProbeMonitor(cfg.API, cfg.Probe, log)
	services := service.NewServices(storages, api, monitor, cfg.Sync, log)

	resync := workers.NewResyncWorker(services.Sync, monitor, cfg.Sync.ResyncInterval, cfg.Sync.MaxAge, log)

	return &App{
		Storages: storages,
		Monitor:  monitor,
		Services: services,
		Workers:  workers.NewWorkers(resync),
		logger:   log,
	}, nil
}

// Start launches the probe loop, the reconnect orchestrator and the background
// workers. It returns immediately; the components run until Stop is called or
// ctx is cancelled.
func (a *App) Start(ctx context.Context) {
	a.Monitor.Start(ctx)
	a.Services.Orchestrator.Start(ctx)
	a.Workers.Start(ctx)

	a.logger.Info().
		Str("func", "App.Start").
		Msg("offline layer started")
}

// Stop shuts the background components down in reverse start order and closes
// the database handle.
func (a *App) Stop() error {
	a.Workers.Stop()
	a.Services.Orchestrator.Stop()
	a.Monitor.Stop()

	if err := a.Storages.Close(); err != nil {
		return fmt.Errorf("close storages: %w", err)
	}

	a.logger.Info().
		Str("func", "App.Stop").
		Msg("offline layer stopped")
	return nil
}
