package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/tithi-calendar/internal/domain/astronomy"
	"github.com/yanqian/tithi-calendar/internal/domain/calendar"
	"github.com/yanqian/tithi-calendar/internal/domain/generation"
	"github.com/yanqian/tithi-calendar/internal/domain/lunar"
	"github.com/yanqian/tithi-calendar/internal/infra/astronomyrepo"
	"github.com/yanqian/tithi-calendar/internal/infra/config"
	"github.com/yanqian/tithi-calendar/internal/infra/jobqueue"
	"github.com/yanqian/tithi-calendar/internal/infra/jobrepo"
	"github.com/yanqian/tithi-calendar/internal/infra/locationrepo"
	"github.com/yanqian/tithi-calendar/internal/infra/occurrencerepo"
	"github.com/yanqian/tithi-calendar/internal/infra/postgres"
	"github.com/yanqian/tithi-calendar/internal/infra/prefstore"
	"github.com/yanqian/tithi-calendar/internal/infra/scheduler"
	"github.com/yanqian/tithi-calendar/pkg/metrics"
	"github.com/yanqian/tithi-calendar/pkg/util"
)

func provideClock() func() time.Time {
	return util.NowUTC
}

func provideCalendarConfig(cfg *config.Config) calendar.Config {
	return calendar.Config{
		MaxRangeDays: cfg.Astronomy.MaxRangeDays,
		EpochYear:    cfg.Astronomy.EpochYear,
		HorizonYears: cfg.Astronomy.HorizonYears,
		DefaultLocation: calendar.DefaultLocation{
			Name:      cfg.DefaultLocation.Name,
			Latitude:  cfg.DefaultLocation.Latitude,
			Longitude: cfg.DefaultLocation.Longitude,
		},
	}
}

func provideGenerationConfig(cfg *config.Config) generation.Config {
	return generation.Config{
		WaitTimeout:  cfg.Generation.WaitTimeout,
		PollInterval: cfg.Generation.PollInterval,
	}
}

func provideGenerator(cfg *config.Config) *astronomy.Generator {
	return astronomy.NewGenerator(cfg.Astronomy.MaxRangeDays)
}

// providePostgresPool returns a nil pool when Postgres is not configured or
// unreachable; repositories then fall back to memory.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func()) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := postgres.Connect(ctx, postgres.Options{
		DSN:      cfg.Postgres.DSN,
		MaxConns: cfg.Postgres.MaxConns,
		MinConns: cfg.Postgres.MinConns,
	})
	switch {
	case errors.Is(err, postgres.ErrNoDSN):
		logger.Info("postgres dsn not set, using memory repositories")
		return nil, func() {}
	case err != nil:
		logger.Error("postgres unavailable, using memory repositories", "error", err)
		return nil, func() {}
	}
	logger.Info("postgres repositories enabled")
	return pool, pool.Close
}

func provideLocationRepository(pool *pgxpool.Pool) calendar.LocationRepository {
	if pool == nil {
		return locationrepo.NewMemoryRepository()
	}
	return locationrepo.NewPostgresRepository(pool)
}

func provideDailyAstronomyRepository(pool *pgxpool.Pool) calendar.DailyAstronomyRepository {
	if pool == nil {
		return astronomyrepo.NewMemoryRepository()
	}
	return astronomyrepo.NewPostgresRepository(pool)
}

func provideJobRepository(pool *pgxpool.Pool) generation.Repository {
	if pool == nil {
		return jobrepo.NewMemoryRepository()
	}
	return jobrepo.NewPostgresRepository(pool)
}

func provideOccurrenceRepository(pool *pgxpool.Pool) lunar.OccurrenceRepository {
	if pool == nil {
		return occurrencerepo.NewMemoryRepository()
	}
	return occurrencerepo.NewPostgresRepository(pool)
}

// provideValkeyClient returns a nil client when Valkey is disabled or unreachable.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) (valkey.Client, func()) {
	if !cfg.Valkey.Enabled {
		return nil, func() {}
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory", "error", err)
		return nil, func() {}
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory", "error", err)
		return nil, func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory", "error", err)
		client.Close()
		return nil, func() {}
	}
	logger.Info("valkey enabled", "addr", cfg.Valkey.Addr)
	return client, client.Close
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Valkey.Addr, "://") {
		return valkey.ParseURL(cfg.Valkey.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}, nil
}

func providePreferenceStore(cfg *config.Config, client valkey.Client) calendar.PreferenceStore {
	if client == nil {
		return prefstore.NewMemoryStore()
	}
	return prefstore.NewValkeyStore(client, cfg.Valkey.Prefix)
}

func provideJobQueue(cfg *config.Config, client valkey.Client, logger *slog.Logger) (jobqueue.HandlerQueue, func()) {
	var queue jobqueue.HandlerQueue
	if cfg.Generation.Queue == config.QueueValkey && client != nil {
		logger.Info("generation jobs use the valkey queue")
		queue = jobqueue.NewValkeyQueue(client, cfg.Valkey.Prefix+":generation:jobs", logger)
	} else {
		queue = jobqueue.NewImmediateQueue(nil)
	}
	return queue, queue.Close
}

// provideGenerationService attaches the service as the queue consumer.
func provideGenerationService(cfg generation.Config, jobs generation.Repository, locations calendar.LocationRepository, records calendar.DailyAstronomyRepository, generator *astronomy.Generator, queue jobqueue.HandlerQueue, m *metrics.Metrics, logger *slog.Logger) *generation.Service {
	svc := generation.NewService(cfg, jobs, locations, records, generator, queue, m, logger)
	queue.SetHandler(svc.Handle)
	return svc
}

func provideScheduler(cfg *config.Config, svc *calendar.Service, logger *slog.Logger) (*scheduler.Scheduler, error) {
	sched := scheduler.New(svc, 0, logger)
	if !cfg.Scheduler.Enabled {
		return sched, nil
	}
	if err := sched.Register(cfg.Scheduler.HorizonSpec); err != nil {
		return nil, err
	}
	return sched, nil
}
