package inaturalist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/antonholmquist/jason"
	"github.com/tphakala/inat-gallery/internal/errors"
	"github.com/tphakala/inat-gallery/internal/httpclient"
	"github.com/tphakala/inat-gallery/internal/logger"
	"github.com/tphakala/inat-gallery/internal/observability/metrics"
)

const (
	componentName = "inaturalist"

	// maxResponseBytes bounds a single API response body. A full page of
	// 200 observations is typically well under 2 MiB.
	maxResponseBytes = 16 << 20

	bodyPreviewLen = 200
)

// Client provides methods for interacting with the iNaturalist API.
// Safe for concurrent use.
type Client struct {
	config  Config
	http    *httpclient.Client
	metrics *metrics.INaturalistMetrics
	log     logger.Logger
}

// Option configures optional Client collaborators.
type Option func(*clientOptions)

type clientOptions struct {
	metrics   *metrics.INaturalistMetrics
	log       logger.Logger
	transport http.RoundTripper
}

// WithMetrics records API calls in m.
func WithMetrics(m *metrics.INaturalistMetrics) Option {
	return func(o *clientOptions) { o.metrics = m }
}

// WithLogger sets the client's logger. The default is the global "inaturalist" module.
func WithLogger(l logger.Logger) Option {
	return func(o *clientOptions) { o.log = l }
}

// WithTransport replaces the HTTP transport, mainly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) { o.transport = rt }
}

// NewClient creates a new iNaturalist API client. Zero config values take
// their defaults; page sizes above the API caps are clamped.
func NewClient(config Config, opts ...Option) (*Client, error) {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.WebURL == "" {
		config.WebURL = defaults.WebURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}
	config.StandardPerPage = clampPerPage(config.StandardPerPage, MaxStandardPerPage)
	config.ProvisionalPerPage = clampPerPage(config.ProvisionalPerPage, MaxProvisionalPerPage)

	for key, raw := range map[string]string{"base_url": config.BaseURL, "web_url": config.WebURL} {
		if err := validateHTTPURL(raw); err != nil {
			return nil, errors.New(err).
				Category(errors.CategoryConfiguration).
				Component(componentName).
				Context(key, raw).
				Build()
		}
	}

	if o.log == nil {
		o.log = logger.Global().Module(componentName)
	}

	httpClient := httpclient.New(&httpclient.Config{
		DefaultTimeout: config.Timeout,
		UserAgent:      config.UserAgent,
		Headers:        map[string]string{"Accept": "application/json"},
		Transport:      o.transport,
	})

	log := o.log
	httpClient.SetAfterResponseHook(func(req *http.Request, resp *http.Response, err error, elapsed time.Duration) {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		log.Trace("iNaturalist API round trip",
			logger.String("url", req.URL.String()),
			logger.Int("status_code", status),
			logger.Duration("elapsed", elapsed),
			logger.Error(err))
	})

	return &Client{
		config:  config,
		http:    httpClient,
		metrics: o.metrics,
		log:     o.log,
	}, nil
}

func clampPerPage(n, maxN int) int {
	if n <= 0 || n > maxN {
		return maxN
	}
	return n
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %q has no host", raw)
	}
	return nil
}

// Config returns the effective client configuration.
func (c *Client) Config() Config {
	return c.config
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.Close()
}

// SearchTaxonID looks name up in the taxa endpoint and returns the first
// result's id. found is false when there are no results.
func (c *Client) SearchTaxonID(ctx context.Context, name string) (id int, found bool, err error) {
	body, err := c.get(ctx, metrics.EndpointTaxa, c.TaxaSearchURL(name))
	if err != nil {
		return 0, false, err
	}

	obj, err := jason.NewObjectFromBytes(body)
	if err != nil {
		return 0, false, c.decodeError(err, metrics.EndpointTaxa, body)
	}

	results, err := obj.GetObjectArray("results")
	if err != nil {
		return 0, false, c.decodeError(err, metrics.EndpointTaxa, body)
	}
	if len(results) == 0 {
		c.log.Debug("Taxon search returned no results", logger.String("query", name))
		return 0, false, nil
	}

	taxonID, err := results[0].GetInt64("id")
	if err != nil {
		c.log.Debug("First taxon result has no id",
			logger.String("query", name),
			logger.Error(err))
		return 0, false, nil
	}

	c.log.Debug("Taxon search matched",
		logger.String("query", name),
		logger.Int64("taxon_id", taxonID),
		logger.Int("results", len(results)))

	return int(taxonID), true, nil
}

// StandardObservations returns the newest sequenced observations of a taxon.
func (c *Client) StandardObservations(ctx context.Context, taxonID int) (*ObservationPage, error) {
	return c.observations(ctx, metrics.EndpointStandardObservations, c.StandardObservationsURL(taxonID))
}

// ProvisionalObservations returns the newest observations whose Provisional
// Species Name field equals name.
func (c *Client) ProvisionalObservations(ctx context.Context, name string) (*ObservationPage, error) {
	return c.observations(ctx, metrics.EndpointProvisionalObservations, c.ProvisionalObservationsURL(name))
}

func (c *Client) observations(ctx context.Context, endpoint, rawURL string) (*ObservationPage, error) {
	body, err := c.get(ctx, endpoint, rawURL)
	if err != nil {
		return nil, err
	}

	var page ObservationPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, c.decodeError(err, endpoint, body)
	}
	if page.Results == nil {
		return nil, c.decodeError(errors.NewStd("response has no results array"), endpoint, body)
	}

	c.log.Debug("Observation search finished",
		logger.String("endpoint", endpoint),
		logger.Int("results", len(page.Results)),
		logger.Int("total_results", page.Total()))

	return &page, nil
}

// get performs a GET and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, endpoint, rawURL string) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Get(ctx, rawURL)
	if err != nil {
		c.metrics.RecordAPIRequest(endpoint, 0, time.Since(start))
		category := errors.CategoryNetwork
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			category = errors.CategoryTimeout
		case errors.Is(err, context.Canceled):
			category = errors.CategoryCancellation
		}
		c.metrics.RecordAPIError(endpoint, string(category))
		return nil, errors.Newf("iNaturalist request failed: %w", err).
			Category(category).
			Component(componentName).
			Context("endpoint", endpoint).
			Context("url", rawURL).
			Timing("api_request", time.Since(start)).
			Build()
	}

	body, readErr := httpclient.ReadBody(resp, maxResponseBytes)
	c.metrics.RecordAPIRequest(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		category := errors.CategoryHTTP
		if resp.StatusCode == http.StatusNotFound {
			category = errors.CategoryNotFound
		}
		c.metrics.RecordAPIError(endpoint, string(category))
		return nil, errors.Newf("iNaturalist API returned status %d", resp.StatusCode).
			Category(category).
			Component(componentName).
			Context("endpoint", endpoint).
			Context("url", rawURL).
			Context("status_code", resp.StatusCode).
			Context("response_preview", preview(body)).
			Build()
	}

	if readErr != nil {
		c.metrics.RecordAPIError(endpoint, string(errors.CategoryNetwork))
		return nil, errors.New(readErr).
			Category(errors.CategoryNetwork).
			Component(componentName).
			Context("endpoint", endpoint).
			Context("url", rawURL).
			Build()
	}

	return body, nil
}

func (c *Client) decodeError(err error, endpoint string, body []byte) error {
	c.metrics.RecordAPIError(endpoint, string(errors.CategoryFileParsing))
	return errors.Newf("failed to decode iNaturalist response: %w", err).
		Category(errors.CategoryFileParsing).
		Component(componentName).
		Context("endpoint", endpoint).
		Context("response_preview", preview(body)).
		Build()
}

func preview(body []byte) string {
	if len(body) > bodyPreviewLen {
		return string(body[:bodyPreviewLen]) + "..."
	}
	return string(body)
}
