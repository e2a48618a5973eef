package gallery

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/inat-gallery/internal/inaturalist"
	"github.com/tphakala/inat-gallery/internal/logger"
	"github.com/tphakala/inat-gallery/internal/observability/metrics"
)

const (
	taxaURL         = "https://api.inaturalist.org/v1/taxa"
	observationsURL = "https://api.inaturalist.org/v1/observations"
)

// setupEndToEnd wires a Service to a real iNaturalist client on an httpmock transport.
func setupEndToEnd(t *testing.T) (*Service, *inaturalist.Client, *httpmock.MockTransport, *metrics.INaturalistMetrics) {
	t.Helper()

	m, err := metrics.NewINaturalistMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	log := logger.NewSlogLogger(io.Discard, logger.LogLevelDebug, nil)
	mock := httpmock.NewMockTransport()
	client, err := inaturalist.NewClient(inaturalist.DefaultConfig(),
		inaturalist.WithTransport(mock),
		inaturalist.WithLogger(log),
		inaturalist.WithMetrics(m))
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return NewService(client, log, m), client, mock, m
}

// observationsResponder dispatches on the query family.
func observationsResponder(standardBody, provisionalBody string) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		if strings.Contains(req.URL.RawQuery, "taxon_id=") {
			return httpmock.NewStringResponse(http.StatusOK, standardBody), nil
		}
		return httpmock.NewStringResponse(http.StatusOK, provisionalBody), nil
	}
}

func TestServiceFetchStandardTaxonomy(t *testing.T) {
	t.Parallel()

	svc, client, mock, m := setupEndToEnd(t)
	mock.RegisterResponder(http.MethodGet, taxaURL,
		httpmock.NewStringResponder(http.StatusOK, `{"results":[{"id":48715}]}`))
	mock.RegisterResponder(http.MethodGet, observationsURL, observationsResponder(`{
		"total_results": 1,
		"results": [{
			"id": 1,
			"uri": "https://x/1",
			"location": "12.5, -3.25",
			"taxon": {"name": "Amanita muscaria"},
			"photos": [{"url": "https://static/1/square.jpg"}, {"url": "https://static/2/square.jpg"}]
		}]
	}`, `{"results":[]}`))

	result, err := svc.Fetch(t.Context(), "Amanita muscaria")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, StandardTaxonomy(48715), result.Strategy)
	assert.Len(t, result.RegularPhotos, 1)
	assert.Len(t, result.AllPhotos, 2)
	assert.Equal(t, 2, result.TotalPhotos)
	require.Len(t, result.Locations, 1)
	assert.Equal(t, "12.5", result.Locations[0].Latitude)
	assert.Equal(t, "-3.25", result.Locations[0].Longitude)

	info := mock.GetCallCountInfo()
	assert.Equal(t, 1, info["GET "+taxaURL])
	assert.Equal(t, 2, mock.GetTotalCallCount(), "provisional query is not issued")

	assert.Equal(t,
		"https://www.inaturalist.org/observations?subview=map&taxon_id=48715&field:DNA%20Barcode%20ITS=",
		DeepLink(client, result))
	assertResolutions(t, m, metrics.OutcomeStandardTaxonomy, 1)
}

func TestServiceFetchProvisionalAfterRemoteFailure(t *testing.T) {
	t.Parallel()

	svc, client, mock, _ := setupEndToEnd(t)
	mock.RegisterResponder(http.MethodGet, taxaURL, httpmock.NewStringResponder(http.StatusServiceUnavailable, "down"))
	mock.RegisterResponder(http.MethodGet, observationsURL, observationsResponder(
		`{"results":[]}`,
		`{"total_results": 3, "results":[{"id":9,"uri":"https://x/9","photos":[{"url":"https://static/9/square.jpg"}]}]}`))

	result, err := svc.Fetch(t.Context(), "Hygrocybe PNW05")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, StrategyProvisionalName, result.Strategy.Kind())
	assert.Equal(t, 3, result.TotalResults)
	assert.Equal(t, 2, mock.GetTotalCallCount(), "taxa then provisional")
	assert.Equal(t,
		"https://www.inaturalist.org/observations?verifiable=any&place_id=any&field:Provisional%20Species%20Name=Hygrocybe+PNW05",
		DeepLink(client, result))
}

func TestServiceFetchQuotedNameOnlyQueriesProvisional(t *testing.T) {
	t.Parallel()

	svc, _, mock, _ := setupEndToEnd(t)
	var queries []string
	mock.RegisterResponder(http.MethodGet, taxaURL,
		httpmock.NewStringResponder(http.StatusOK, `{"results":[{"id":1}]}`))
	mock.RegisterResponder(http.MethodGet, observationsURL, func(req *http.Request) (*http.Response, error) {
		queries = append(queries, req.URL.RawQuery)
		return httpmock.NewStringResponse(http.StatusOK, `{"results":[{"id":5,"uri":"https://x/5","photos":[]}]}`), nil
	})

	result, err := svc.Fetch(t.Context(), "Psathyrella 'alluvinana PNW10'")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Zero(t, mock.GetCallCountInfo()["GET "+taxaURL])
	require.Len(t, queries, 1)
	assert.Contains(t, queries[0], "field:Provisional%20Species%20Name=Psathyrella+%27alluvinana+PNW10%27")
	assert.Contains(t, queries[0], "per_page=100")
}

func TestServiceFetchNotFound(t *testing.T) {
	t.Parallel()

	svc, client, mock, m := setupEndToEnd(t)
	mock.RegisterResponder(http.MethodGet, taxaURL, httpmock.NewStringResponder(http.StatusOK, `{"results":[]}`))
	mock.RegisterResponder(http.MethodGet, observationsURL, httpmock.NewStringResponder(http.StatusOK, `{"results":[]}`))

	result, err := svc.Fetch(t.Context(), "Nonexistent fungus")
	require.NoError(t, err)

	assert.False(t, result.Found)
	assert.Equal(t, "Nonexistent fungus", result.Query)
	assert.Empty(t, DeepLink(client, result))
	assertResolutions(t, m, metrics.OutcomeNotFound, 1)
}

func TestServiceFetchEmptyName(t *testing.T) {
	t.Parallel()

	svc, _, mock, m := setupEndToEnd(t)

	_, err := svc.Fetch(t.Context(), "")
	require.ErrorIs(t, err, ErrEmptyName)
	assert.Zero(t, mock.GetTotalCallCount())
	assertResolutions(t, m, metrics.OutcomeInvalid, 1)
}

// assertResolutions checks the only recorded resolution outcome.
func assertResolutions(t *testing.T, m *metrics.INaturalistMetrics, outcome string, count int) {
	t.Helper()
	expected := fmt.Sprintf(`
# HELP gallery_resolutions_total Total number of gallery resolutions by outcome
# TYPE gallery_resolutions_total counter
gallery_resolutions_total{outcome=%q} %d
`, outcome, count)
	require.NoError(t, testutil.CollectAndCompare(m, strings.NewReader(expected), "gallery_resolutions_total"))
}
