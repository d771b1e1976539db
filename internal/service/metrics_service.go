package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus registry for outgoing API calls.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	toastsTotal     *prometheus.CounterVec

	requestCount         uint64
	requestDurationTotal uint64
}

// MetricsSnapshot is a point-in-time summary for the console.
type MetricsSnapshot struct {
	RequestsTotal            uint64
	AverageRequestDurationMs float64
	Goroutines               int
}

// ClientNamespace prefixes the console's own collectors.
const ClientNamespace = "scanova_client"

// NewMetricsService registers the client collectors.
func NewMetricsService() *MetricsService {
	return NewNamespacedMetricsService(ClientNamespace)
}

// NewNamespacedMetricsService registers the collectors under namespace; the
// development backend uses it for served requests.
func NewNamespacedMetricsService(namespace string) *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    namespace + "_request_duration_seconds",
		Help:    "Duration of Scanova API requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: namespace + "_requests_total",
		Help: "Total number of Scanova API requests",
	}, []string{"method", "route", "status"})

	toastsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: namespace + "_toasts_total",
		Help: "Operation outcomes reported to the user",
	}, []string{"kind"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, toastsTotal, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		toastsTotal:     toastsTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records one API call. Status 0 marks a transport failure.
func (m *MetricsService) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, route, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, route, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveToast counts a surfaced outcome.
func (m *MetricsService) ObserveToast(kind string) {
	if m == nil {
		return
	}
	m.toastsTotal.WithLabelValues(kind).Inc()
}

// Snapshot returns aggregated request stats.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	total := atomic.LoadUint64(&m.requestDurationTotal)

	var avg float64
	if requests > 0 {
		avg = float64(total) / float64(requests) / float64(time.Millisecond)
	}
	return MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avg,
		Goroutines:               runtime.NumGoroutine(),
	}
}
