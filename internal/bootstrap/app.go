package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/tithi-calendar/internal/domain/calendar"
	"github.com/yanqian/tithi-calendar/internal/infra/config"
	"github.com/yanqian/tithi-calendar/internal/infra/scheduler"
)

// Seeder makes sure a saved location exists before requests are served.
type Seeder interface {
	EnsureDefaultLocation(ctx context.Context) (calendar.Location, bool, error)
}

// BackgroundJobs runs work alongside the HTTP server.
type BackgroundJobs interface {
	Start()
	Stop(ctx context.Context)
}

var (
	_ Seeder         = (*calendar.Service)(nil)
	_ BackgroundJobs = (*scheduler.Scheduler)(nil)
)

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
	seeder Seeder
	jobs   BackgroundJobs
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, seeder *calendar.Service, jobs *scheduler.Scheduler) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With("component", "bootstrap"),
		server: server,
		seeder: seeder,
		jobs:   jobs,
	}
}

// Run seeds the default location, starts the server and the scheduler, and
// blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	loc, created, err := a.seeder.EnsureDefaultLocation(ctx)
	if err != nil {
		return err
	}
	if created {
		a.logger.Info("default location created", "location_id", loc.ID, "name", loc.Name)
	}

	if a.cfg.Scheduler.Enabled {
		a.jobs.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		a.jobs.Stop(shutdownCtx)
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		a.jobs.Stop(context.Background())
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
