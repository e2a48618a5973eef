// Package metrics provides custom Prometheus metrics for the iNaturalist
// gallery: outbound API calls, taxon resolution outcomes and HTTP handlers.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resolution outcomes recorded by RecordResolution.
const (
	OutcomeStandardTaxonomy = "standard_taxonomy"
	OutcomeProvisionalName  = "provisional_name"
	OutcomeNotFound         = "not_found"
	OutcomeInvalid          = "invalid"
)

// Endpoint labels for outbound iNaturalist calls.
const (
	EndpointTaxa                    = "taxa"
	EndpointStandardObservations    = "observations_standard"
	EndpointProvisionalObservations = "observations_provisional"
)

// INaturalistMetrics contains Prometheus metrics for iNaturalist API usage
// and gallery resolution. A nil *INaturalistMetrics records nothing.
type INaturalistMetrics struct {
	apiRequestsTotal   *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec
	apiErrorsTotal     *prometheus.CounterVec
	resolutionsTotal   *prometheus.CounterVec
	galleryPhotos      prometheus.Histogram
}

// NewINaturalistMetrics creates the collectors and registers them with registry.
func NewINaturalistMetrics(registry *prometheus.Registry) (*INaturalistMetrics, error) {
	m := &INaturalistMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register iNaturalist metrics: %w", err)
	}
	return m, nil
}

func (m *INaturalistMetrics) initMetrics() {
	m.apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inat_api_requests_total",
			Help: "Total number of iNaturalist API requests",
		},
		[]string{"endpoint", "status_code"},
	)

	m.apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inat_api_request_duration_seconds",
			Help:    "Time taken for iNaturalist API requests",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"endpoint"},
	)

	m.apiErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inat_api_errors_total",
			Help: "Total number of failed iNaturalist API calls",
		},
		[]string{"endpoint", "category"}, // category: network, http-request, file-parsing, not-found
	)

	m.resolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_resolutions_total",
			Help: "Total number of gallery resolutions by outcome",
		},
		[]string{"outcome"},
	)

	m.galleryPhotos = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gallery_photos",
		Help:    "Number of photos in resolved galleries",
		Buckets: prometheus.ExponentialBuckets(1, 4, 6),
	})
}

func (m *INaturalistMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.apiRequestsTotal,
		m.apiRequestDuration,
		m.apiErrorsTotal,
		m.resolutionsTotal,
		m.galleryPhotos,
	}
}

// Describe implements the prometheus.Collector interface.
func (m *INaturalistMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements the prometheus.Collector interface.
func (m *INaturalistMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

// RecordAPIRequest records a completed API round trip. statusCode is 0 when
// no response was received.
func (m *INaturalistMetrics) RecordAPIRequest(endpoint string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.apiRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	m.apiRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordAPIError records a failed API call by error category.
func (m *INaturalistMetrics) RecordAPIError(endpoint, category string) {
	if m == nil {
		return
	}
	m.apiErrorsTotal.WithLabelValues(endpoint, category).Inc()
}

// RecordResolution records the outcome of one gallery resolution.
func (m *INaturalistMetrics) RecordResolution(outcome string) {
	if m == nil {
		return
	}
	m.resolutionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveGalleryPhotos records the photo count of a found gallery.
func (m *INaturalistMetrics) ObserveGalleryPhotos(count int) {
	if m == nil {
		return
	}
	m.galleryPhotos.Observe(float64(count))
}
