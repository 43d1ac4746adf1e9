package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordAndExpose(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.ObserveHTTP("/api/eval", http.StatusOK, 10*time.Millisecond)
	m.ObserveInference("tps_temp", time.Millisecond, nil)
	m.ObserveInference("tps_temp", time.Millisecond, errors.New("boom"))
	m.ProviderCall("nasa_power", nil)
	m.ProviderCall("nasa_power", errors.New("timeout"))
	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()
	m.UndefinedField("F1")

	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("/api/eval", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.inferenceErrors.WithLabelValues("tps_temp")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.providerCalls.WithLabelValues("nasa_power", "error")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.cacheMisses))
	require.Equal(t, 1.0, testutil.ToFloat64(m.undefinedFields.WithLabelValues("F1")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "solarcook_weather_cache_hits_total 1")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveHTTP("/", http.StatusOK, time.Second)
	m.ObserveInference("x", time.Second, nil)
	m.ProviderCall("x", nil)
	m.CacheHit()
	m.CacheMiss()
	m.UndefinedField("F1")
}
