package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics contains Prometheus metrics for the gallery HTTP handlers.
// A nil *HTTPMetrics records nothing.
type HTTPMetrics struct {
	httpRequestsTotal      *prometheus.CounterVec
	httpRequestDuration    *prometheus.HistogramVec
	templateRenderDuration *prometheus.HistogramVec
	templateRenderErrors   *prometheus.CounterVec
}

// NewHTTPMetrics creates and registers new HTTP handler metrics
func NewHTTPMetrics(registry *prometheus.Registry) (*HTTPMetrics, error) {
	m := &HTTPMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register HTTP metrics: %w", err)
	}
	return m, nil
}

func (m *HTTPMetrics) initMetrics() {
	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"}, // path is the route pattern, not the raw URL
	)

	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time taken for HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	m.templateRenderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_template_render_duration_seconds",
			Help:    "Time taken for template rendering",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 10),
		},
		[]string{"template"},
	)

	m.templateRenderErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_template_render_errors_total",
			Help: "Total number of template rendering errors",
		},
		[]string{"template"},
	)
}

func (m *HTTPMetrics) getCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.templateRenderDuration,
		m.templateRenderErrors,
	}
}

// Describe implements the Collector interface
func (m *HTTPMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.getCollectors() {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *HTTPMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.getCollectors() {
		collector.Collect(ch)
	}
}

// RecordHTTPRequest records an HTTP request
func (m *HTTPMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTemplateRender records a template render and whether it failed
func (m *HTTPMetrics) RecordTemplateRender(template string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.templateRenderDuration.WithLabelValues(template).Observe(duration.Seconds())
	if err != nil {
		m.templateRenderErrors.WithLabelValues(template).Inc()
	}
}
