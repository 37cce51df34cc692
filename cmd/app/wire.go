//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/tithi-calendar/internal/bootstrap"
	"github.com/yanqian/tithi-calendar/internal/domain/calendar"
	"github.com/yanqian/tithi-calendar/internal/domain/generation"
	"github.com/yanqian/tithi-calendar/internal/domain/lunar"
	"github.com/yanqian/tithi-calendar/internal/infra/config"
	"github.com/yanqian/tithi-calendar/internal/infra/ical"
	httpiface "github.com/yanqian/tithi-calendar/internal/interface/http"
	"github.com/yanqian/tithi-calendar/pkg/logger"
	"github.com/yanqian/tithi-calendar/pkg/metrics"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.New,
		provideClock,
		provideCalendarConfig,
		provideGenerationConfig,
		provideGenerator,
		providePostgresPool,
		provideLocationRepository,
		provideDailyAstronomyRepository,
		provideJobRepository,
		provideOccurrenceRepository,
		provideValkeyClient,
		providePreferenceStore,
		provideJobQueue,
		provideGenerationService,
		provideScheduler,
		calendar.NewReconciler,
		calendar.NewService,
		lunar.NewService,
		ical.NewExporter,
		wire.Bind(new(calendar.DatasetBuilder), new(*generation.Service)),
		wire.Bind(new(httpiface.CalendarService), new(*calendar.Service)),
		wire.Bind(new(httpiface.JobService), new(*generation.Service)),
		wire.Bind(new(httpiface.LunarService), new(*lunar.Service)),
		wire.Bind(new(httpiface.CalendarEncoder), new(*ical.Exporter)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
