// Package inaturalist provides a client for the iNaturalist v1 REST API,
// limited to the taxon search and observation queries the gallery needs.
package inaturalist

import "time"

const (
	// MaxStandardPerPage caps the page size of taxon-filtered observation queries.
	MaxStandardPerPage = 200
	// MaxProvisionalPerPage caps the page size of provisional-name queries.
	MaxProvisionalPerPage = 100

	// DNABarcodeITSField is the observation field marking sequenced observations.
	DNABarcodeITSField = "DNA Barcode ITS"
	// ProvisionalNameField holds informal names of organisms without a taxon.
	ProvisionalNameField = "Provisional Species Name"
)

// Config holds configuration for the iNaturalist client
type Config struct {
	BaseURL            string        `json:"base_url"`
	WebURL             string        `json:"web_url"`
	Timeout            time.Duration `json:"timeout"`
	UserAgent          string        `json:"user_agent"`
	StandardPerPage    int           `json:"standard_per_page"`
	ProvisionalPerPage int           `json:"provisional_per_page"`
}

// DefaultConfig returns a Config with the public API endpoints
func DefaultConfig() Config {
	return Config{
		BaseURL:            "https://api.inaturalist.org/v1",
		WebURL:             "https://www.inaturalist.org",
		Timeout:            30 * time.Second,
		UserAgent:          "inat-gallery",
		StandardPerPage:    MaxStandardPerPage,
		ProvisionalPerPage: MaxProvisionalPerPage,
	}
}

// Observation is one observation record as returned by /v1/observations.
type Observation struct {
	ID       int     `json:"id"`
	URI      string  `json:"uri"`
	Location string  `json:"location,omitempty"` // "lat,lon"
	Photos   []Photo `json:"photos"`
	Taxon    *Taxon  `json:"taxon,omitempty"`
}

// TaxonName returns the observation's taxon name, or "" when it has no taxon.
func (o *Observation) TaxonName() string {
	if o.Taxon == nil {
		return ""
	}
	return o.Taxon.Name
}

// Photo is an observation photo. URL points at the "square" size.
type Photo struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

// Taxon is the subset of taxon fields embedded in observations.
type Taxon struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ObservationPage is one page of observation search results.
type ObservationPage struct {
	TotalResults *int          `json:"total_results,omitempty"`
	Page         int           `json:"page,omitempty"`
	PerPage      int           `json:"per_page,omitempty"`
	Results      []Observation `json:"results"`
}

// Total returns the API-reported total, falling back to the number of
// results on this page when the API omitted it.
func (p *ObservationPage) Total() int {
	if p == nil {
		return 0
	}
	if p.TotalResults != nil {
		return *p.TotalResults
	}
	return len(p.Results)
}

// Empty reports whether the page carries no observations.
func (p *ObservationPage) Empty() bool {
	return p == nil || len(p.Results) == 0
}
