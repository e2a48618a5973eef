package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/inat-gallery/internal/observability/metrics"
)

func TestNewMetricsIsolatedRegistries(t *testing.T) {
	t.Parallel()

	first, err := NewMetrics()
	require.NoError(t, err)
	second, err := NewMetrics()
	require.NoError(t, err, "each instance owns its registry")

	assert.NotSame(t, first.Registry(), second.Registry())
	assert.NotNil(t, first.INaturalist)
	assert.NotNil(t, first.HTTP)
}

func TestHandlerExposesGalleryMetrics(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)
	m.INaturalist.RecordAPIRequest(metrics.EndpointTaxa, http.StatusOK, 50*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `inat_api_requests_total{endpoint="taxa",status_code="200"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
