package httpclient

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the request lifecycle and
// the retry transport. It is safe for concurrent use; all record methods are
// nil-safe so a disabled collector costs a single nil check.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	retriesTotal     *prometheus.CounterVec
	retryWaitSeconds *prometheus.HistogramVec

	errorsTotal *prometheus.CounterVec

	registerer prometheus.Registerer
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied registerer.
func NewMetricsCollectorWithRegistry(registerer prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: promauto.With(registerer).NewCounterVec(
			prometheus.CounterOpts{
				Name: "httpclient_requests_total",
				Help: "Total number of HTTP requests made",
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestDuration: promauto.With(registerer).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "httpclient_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestsInFlight: promauto.With(registerer).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "httpclient_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
			[]string{"method", "endpoint"},
		),
		retriesTotal: promauto.With(registerer).NewCounterVec(
			prometheus.CounterOpts{
				Name: "httpclient_retries_total",
				Help: "Total number of retry attempts",
			},
			[]string{"method", "endpoint", "attempt"},
		),
		retryWaitSeconds: promauto.With(registerer).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "httpclient_retry_wait_seconds",
				Help:    "Backoff wait before each retry in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		errorsTotal: promauto.With(registerer).NewCounterVec(
			prometheus.CounterOpts{
				Name: "httpclient_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type", "method", "endpoint"},
		),
		registerer: registerer,
	}
}

// RecordRequest records request count and duration.
func (mc *MetricsCollector) RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}

	statusCodeStr := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(method, statusCodeStr, endpoint).Inc()
	mc.requestDuration.WithLabelValues(method, statusCodeStr, endpoint).Observe(duration.Seconds())
}

// RecordRequestStart increments the in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart(method, endpoint string) {
	if mc == nil {
		return
	}

	mc.requestsInFlight.WithLabelValues(method, endpoint).Inc()
}

// RecordRequestEnd decrements the in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd(method, endpoint string) {
	if mc == nil {
		return
	}

	mc.requestsInFlight.WithLabelValues(method, endpoint).Dec()
}

// RecordRetry increments the retry counter for an attempt.
func (mc *MetricsCollector) RecordRetry(method, endpoint string, attempt int) {
	if mc == nil {
		return
	}

	attemptStr := strconv.Itoa(attempt)
	mc.retriesTotal.WithLabelValues(method, endpoint, attemptStr).Inc()
}

// RecordRetryWait observes the backoff wait before a retry.
func (mc *MetricsCollector) RecordRetryWait(method, endpoint string, wait time.Duration) {
	if mc == nil {
		return
	}

	mc.retryWaitSeconds.WithLabelValues(method, endpoint).Observe(wait.Seconds())
}

// RecordError increments the error counter by type.
func (mc *MetricsCollector) RecordError(errorType, method, endpoint string) {
	if mc == nil {
		return
	}

	mc.errorsTotal.WithLabelValues(errorType, method, endpoint).Inc()
}

// GetRegistry exposes the underlying prometheus registry, if the collector
// was built on one.
func (mc *MetricsCollector) GetRegistry() *prometheus.Registry {
	if mc == nil {
		return nil
	}
	if registry, ok := mc.registerer.(*prometheus.Registry); ok {
		return registry
	}
	return nil
}
