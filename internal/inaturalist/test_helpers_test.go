package inaturalist

import (
	"io"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/inat-gallery/internal/logger"
)

const (
	testTaxaURL         = "https://api.inaturalist.org/v1/taxa"
	testObservationsURL = "https://api.inaturalist.org/v1/observations"
)

// setupMockClient returns a client wired to a fresh httpmock transport.
func setupMockClient(t *testing.T, opts ...Option) (*Client, *httpmock.MockTransport) {
	t.Helper()

	mock := httpmock.NewMockTransport()
	opts = append([]Option{
		WithTransport(mock),
		WithLogger(logger.NewSlogLogger(io.Discard, logger.LogLevelTrace, nil)),
	}, opts...)

	client, err := NewClient(DefaultConfig(), opts...)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return client, mock
}

// jsonResponder answers with body and records the raw query of each call.
func jsonResponder(t *testing.T, status int, body string, queries *[]string) httpmock.Responder {
	t.Helper()
	return func(req *http.Request) (*http.Response, error) {
		if queries != nil {
			*queries = append(*queries, req.URL.RawQuery)
		}
		resp := httpmock.NewStringResponse(status, body)
		resp.Header.Set("Content-Type", "application/json")
		return resp, nil
	}
}

const observationsFixture = `{
  "total_results": 42,
  "page": 1,
  "per_page": 200,
  "results": [
    {
      "id": 101,
      "uri": "https://www.inaturalist.org/observations/101",
      "location": "47.6062,-122.3321",
      "taxon": {"id": 48715, "name": "Amanita muscaria"},
      "photos": [
        {"id": 1, "url": "https://static.inaturalist.org/photos/1/square.jpg"},
        {"id": 2, "url": "https://static.inaturalist.org/photos/2/square.jpg"}
      ]
    },
    {
      "id": 100,
      "uri": "https://www.inaturalist.org/observations/100",
      "location": null,
      "taxon": null,
      "photos": []
    }
  ]
}`
