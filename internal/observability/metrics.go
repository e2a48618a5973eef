// Package observability owns the Prometheus registry of the gallery service
// and exposes it over HTTP.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tphakala/inat-gallery/internal/logger"
	"github.com/tphakala/inat-gallery/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry    *prometheus.Registry
	INaturalist *metrics.INaturalistMetrics
	HTTP        *metrics.HTTPMetrics
}

// NewMetrics creates a registry with the gallery collectors plus the Go
// runtime and process collectors.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register Go collector: %w", err)
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("failed to register process collector: %w", err)
	}

	inatMetrics, err := metrics.NewINaturalistMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create iNaturalist metrics: %w", err)
	}

	httpMetrics, err := metrics.NewHTTPMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}

	return &Metrics{
		registry:    registry,
		INaturalist: inatMetrics,
		HTTP:        httpMetrics,
	}, nil
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the /metrics handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      promErrorLog{log: getLogger()},
		ErrorHandling: promhttp.ContinueOnError,
		Registry:      m.registry,
	})
}

// promErrorLog adapts the module logger to promhttp.Logger.
type promErrorLog struct {
	log logger.Logger
}

func (p promErrorLog) Println(v ...any) {
	p.log.Warn("metrics exposition error", logger.String("detail", fmt.Sprint(v...)))
}
