package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the Prometheus collectors exported by the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer          prometheus.Gatherer
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	inferenceDuration *prometheus.HistogramVec
	inferenceErrors   *prometheus.CounterVec
	providerCalls     *prometheus.CounterVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	undefinedFields   *prometheus.CounterVec
}

// New registers the collectors on a dedicated registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solarcook_http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "solarcook_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		inferenceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "solarcook_inference_duration_seconds",
			Help:    "Histogram of regressor batch inference durations by task.",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}, []string{"task"}),
		inferenceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solarcook_inference_errors_total",
			Help: "Total regressor inference failures by task.",
		}, []string{"task"}),
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solarcook_provider_calls_total",
			Help: "Total outbound provider calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "solarcook_weather_cache_hits_total",
			Help: "Total weather report cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "solarcook_weather_cache_misses_total",
			Help: "Total weather report cache misses.",
		}),
		undefinedFields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solarcook_efficiency_undefined_total",
			Help: "Efficiency result fields suppressed because they were not finite.",
		}, []string{"field"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.inferenceDuration,
		m.inferenceErrors,
		m.providerCalls,
		m.cacheHits,
		m.cacheMisses,
		m.undefinedFields,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveInference records one batch prediction.
func (m *Metrics) ObserveInference(task string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.inferenceDuration.WithLabelValues(task).Observe(elapsed.Seconds())
	if err != nil {
		m.inferenceErrors.WithLabelValues(task).Inc()
	}
}

// ProviderCall records the outcome of an outbound provider request.
func (m *Metrics) ProviderCall(provider string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.providerCalls.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// UndefinedField counts an efficiency field replaced by null.
func (m *Metrics) UndefinedField(field string) {
	if m == nil {
		return
	}
	m.undefinedFields.WithLabelValues(field).Inc()
}
