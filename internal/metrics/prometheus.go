// Package metrics exposes Prometheus metrics for the connection-security
// layer: TLS config construction, connection tests, and the SSL status
// cache.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics wraps the prometheus collectors for Quasar.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	tlsConfigsBuilt  *prometheus.CounterVec
	connectionTests  *prometheus.CounterVec
	connectDuration  *prometheus.HistogramVec
	statusCacheTotal *prometheus.CounterVec
	profilesLoaded   prometheus.Gauge
}

// Default histogram buckets for connection establishment (milliseconds).
var defaultBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

var promMetrics *PrometheusMetrics

// InitPrometheus initializes the metrics subsystem. Call once at startup.
func InitPrometheus(namespace string, buckets []float64) {
	if len(buckets) == 0 {
		buckets = defaultBuckets
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	pm := &PrometheusMetrics{
		registry: registry,

		tlsConfigsBuilt: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tls_configs_built_total",
				Help:      "TLS configurations built, by database, mode and outcome",
			},
			[]string{"database", "mode", "status"},
		),

		connectionTests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "connection_tests_total",
				Help:      "Connection test attempts, by database and outcome",
			},
			[]string{"database", "status"},
		),

		connectDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "connect_duration_milliseconds",
				Help:      "Duration of connection establishment in milliseconds",
				Buckets:   buckets,
			},
			[]string{"database"},
		),

		statusCacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ssl_status_cache_total",
				Help:      "SSL status cache lookups, by result (hit/miss)",
			},
			[]string{"result"},
		),

		profilesLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "profiles_loaded",
				Help:      "Number of connection profiles currently loaded",
			},
		),
	}

	registry.MustRegister(
		pm.tlsConfigsBuilt,
		pm.connectionTests,
		pm.connectDuration,
		pm.statusCacheTotal,
		pm.profilesLoaded,
	)

	promMetrics = pm
}

// RecordTLSConfigBuilt counts one TLS config construction.
func RecordTLSConfigBuilt(database, mode string, err error) {
	if promMetrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	promMetrics.tlsConfigsBuilt.WithLabelValues(database, mode, status).Inc()
}

// RecordConnectionTest counts one connection test and its duration.
func RecordConnectionTest(database string, elapsed time.Duration, err error) {
	if promMetrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	promMetrics.connectionTests.WithLabelValues(database, status).Inc()
	promMetrics.connectDuration.WithLabelValues(database).Observe(float64(elapsed.Milliseconds()))
}

// RecordStatusCacheLookup counts one SSL status cache lookup.
func RecordStatusCacheLookup(hit bool) {
	if promMetrics == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	promMetrics.statusCacheTotal.WithLabelValues(result).Inc()
}

// SetProfilesLoaded records the current profile count.
func SetProfilesLoaded(n int) {
	if promMetrics == nil {
		return
	}
	promMetrics.profilesLoaded.Set(float64(n))
}

// PrometheusHandler returns the HTTP handler for the /metrics endpoint.
func PrometheusHandler() http.Handler {
	if promMetrics == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(promMetrics.registry, promhttp.HandlerOpts{})
}

// PrometheusRegistry exposes the registry for tests.
func PrometheusRegistry() *prometheus.Registry {
	if promMetrics == nil {
		return nil
	}
	return promMetrics.registry
}
