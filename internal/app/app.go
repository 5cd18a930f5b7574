package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"agrorelay/internal/config"
	"agrorelay/internal/logger"
	"agrorelay/internal/observability"
	"agrorelay/internal/repository"
	"agrorelay/internal/repository/memory"
	"agrorelay/internal/repository/sqlite"
	"agrorelay/internal/route"
	"agrorelay/internal/service"
	"agrorelay/internal/service/ai"
	"agrorelay/internal/service/storage"
	"agrorelay/internal/service/websocket"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	config     *config.Config
	logger     *logger.Logger
	state      repository.StateStore
	hubService *websocket.HubService
	manager    *service.Manager
	handler    http.Handler
}

// NewApp builds every service from cfg. The caller owns Close.
func NewApp(cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.LogDirectory)
	if err != nil {
		return nil, err
	}

	state, err := newStateStore(cfg)
	if err != nil {
		log.Close()
		return nil, err
	}

	images, err := storage.NewImageStore(cfg.UploadDirectory)
	if err != nil {
		state.Close()
		log.Close()
		return nil, err
	}

	analyzer, err := ai.New(cfg.Analyzer)
	if err != nil {
		state.Close()
		log.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	hub := websocket.NewHubService(log)
	mng := service.NewManager(state, images, ai.NewGuarded(analyzer), hub, metrics, cfg, log)

	return &App{
		config:     cfg,
		logger:     log,
		state:      state,
		hubService: hub,
		manager:    mng,
		handler:    route.SetupRoutes(mng, hub, cfg, log, registry),
	}, nil
}

func newStateStore(cfg *config.Config) (repository.StateStore, error) {
	switch cfg.StateBackend {
	case "memory", "":
		return memory.NewStore(), nil
	case "sqlite":
		db, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStateRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
	}
}

// Handler exposes the routed HTTP handler, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves HTTP until ctx is cancelled. Request contexts derive from ctx,
// so open MJPEG streams and event feeds end as soon as shutdown starts.
func (a *App) Run(ctx context.Context) error {
	go a.hubService.Run(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.Port),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	a.logger.Info("🌱 Field relay server")
	a.logger.Info("📍 URL: http://localhost:%d/?pi_id=%s", a.config.Port, a.config.DefaultDeviceID)
	a.logger.Info("📁 Uploads: %s", a.config.UploadDirectory)
	a.logger.Info("🤖 Analyzer: %s, state backend: %s", a.config.Analyzer, a.config.StateBackend)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("🛑 Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the state store and log files.
func (a *App) Close() {
	if err := a.state.Close(); err != nil {
		a.logger.Error("Error closing state store: %v", err)
	}
	a.logger.Close()
}
