package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetricsExposeCollectors(t *testing.T) {
	m := New()
	m.ObserveRange("saved", 31)
	m.ObserveGeneration("completed", 914, 200*time.Millisecond)
	m.ObserveHTTP("GET", "/api/v1/astronomy", "200")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `tithi_astronomy_range_requests_total{source="saved"} 1`)
	require.Contains(t, string(body), "tithi_astronomy_generated_records_total 914")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRange("temporary", 3)
	m.ObserveGeneration("failed", 0, time.Second)
	m.ObserveHTTP("GET", "/", "200")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
