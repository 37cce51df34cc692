package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the Prometheus collectors of the service. A nil *Metrics is a no-op.
type Metrics struct {
	registry           *prometheus.Registry
	rangeRequests      *prometheus.CounterVec
	rangeDays          *prometheus.HistogramVec
	generatedRecords   prometheus.Counter
	generationDuration *prometheus.HistogramVec
	httpRequests       *prometheus.CounterVec
}

// New registers all collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rangeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tithi_astronomy_range_requests_total",
			Help: "Daily astronomy range requests by data source.",
		}, []string{"source"}),
		rangeDays: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tithi_astronomy_range_days",
			Help:    "Number of civil days returned per range request.",
			Buckets: []float64{1, 7, 31, 92, 366, 1100},
		}, []string{"source"}),
		generatedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tithi_astronomy_generated_records_total",
			Help: "Daily astronomy records persisted by generation jobs.",
		}),
		generationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tithi_generation_job_duration_seconds",
			Help:    "Wall time of bulk generation jobs.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tithi_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(
		m.rangeRequests,
		m.rangeDays,
		m.generatedRecords,
		m.generationDuration,
		m.httpRequests,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveRange records a served range request.
func (m *Metrics) ObserveRange(source string, days int) {
	if m == nil {
		return
	}
	m.rangeRequests.WithLabelValues(source).Inc()
	m.rangeDays.WithLabelValues(source).Observe(float64(days))
}

// ObserveGeneration records a finished generation job.
func (m *Metrics) ObserveGeneration(status string, rows int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.generationDuration.WithLabelValues(status).Observe(elapsed.Seconds())
	if rows > 0 {
		m.generatedRecords.Add(float64(rows))
	}
}

// ObserveHTTP counts a finished HTTP request.
func (m *Metrics) ObserveHTTP(method, route, status string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
