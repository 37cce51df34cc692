package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/tithi-calendar/internal/infra/config"
	"github.com/yanqian/tithi-calendar/pkg/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, m *metrics.Metrics, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	logger = logger.With("component", "http")

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		metricsMiddleware(m),
		errorHandlingMiddleware(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
	)

	router.GET("/healthz", handler.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/astronomy", handler.DailyAstronomy)
		api.GET("/astronomy/calendar.ics", handler.CalendarFeed)

		api.GET("/locations", handler.ListLocations)
		api.POST("/locations", handler.CreateLocation)
		api.GET("/locations/:id", handler.GetLocation)
		api.DELETE("/locations/:id", handler.DeleteLocation)
		api.POST("/locations/:id/generate", handler.GenerateLocation)
		api.GET("/locations/:id/jobs", handler.ListLocationJobs)
		api.GET("/jobs/:id", handler.GetJob)

		api.GET("/preferences", handler.Preferences)
		api.PUT("/preferences/active-location", handler.SetActiveLocation)
		api.PUT("/preferences/temporary-location", handler.SetTemporaryLocation)
		api.DELETE("/preferences/temporary-location", handler.ClearTemporaryLocation)

		api.GET("/lunar/vocabulary", handler.Vocabulary)
		api.POST("/occurrences", handler.TagOccurrence)
		api.GET("/occurrences", handler.ListOccurrences)
		api.GET("/occurrences/audit", handler.AuditOccurrences)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
