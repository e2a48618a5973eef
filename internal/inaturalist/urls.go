package inaturalist

import (
	"net/url"
	"strconv"
	"strings"
)

// fieldKey renders an observation-field query key. The API expects the
// "field:" prefix verbatim; only the spaces are escaped so the request line
// stays valid.
func fieldKey(field string) string {
	return "field:" + strings.ReplaceAll(field, " ", "%20")
}

// queryBuilder assembles a query string in insertion order. url.Values would
// sort the keys and escape the colon in field keys.
type queryBuilder struct {
	parts []string
}

// raw appends key=value without escaping either side.
func (q *queryBuilder) raw(key, value string) *queryBuilder {
	q.parts = append(q.parts, key+"="+value)
	return q
}

// add appends key=value with the value query-escaped.
func (q *queryBuilder) add(key, value string) *queryBuilder {
	return q.raw(key, url.QueryEscape(value))
}

func (q *queryBuilder) String() string {
	return strings.Join(q.parts, "&")
}

func observationsQuery() *queryBuilder {
	q := &queryBuilder{}
	return q.raw("order_by", "id").raw("order", "desc").raw("page", "1").raw("spam", "false")
}

// TaxaSearchURL returns the taxon search URL for name.
func (c *Client) TaxaSearchURL(name string) string {
	q := &queryBuilder{}
	return c.config.BaseURL + "/taxa?" + q.add("q", name).String()
}

// StandardObservationsURL returns the observation search for a taxon id,
// restricted to observations with a DNA Barcode ITS field.
func (c *Client) StandardObservationsURL(taxonID int) string {
	q := observationsQuery().
		raw("taxon_id", strconv.Itoa(taxonID)).
		raw(fieldKey(DNABarcodeITSField), "").
		raw("per_page", strconv.Itoa(c.config.StandardPerPage)).
		raw("return_bounds", "true")
	return c.config.BaseURL + "/observations?" + q.String()
}

// ProvisionalObservationsURL returns the observation search matching the
// Provisional Species Name field exactly.
func (c *Client) ProvisionalObservationsURL(name string) string {
	q := observationsQuery().
		add(fieldKey(ProvisionalNameField), name).
		raw("per_page", strconv.Itoa(c.config.ProvisionalPerPage)).
		raw("return_bounds", "true")
	return c.config.BaseURL + "/observations?" + q.String()
}

// ObservationsMapURL links to the website's map of sequenced observations of a taxon.
func (c *Client) ObservationsMapURL(taxonID int) string {
	q := &queryBuilder{}
	q.raw("subview", "map").
		raw("taxon_id", strconv.Itoa(taxonID)).
		raw(fieldKey(DNABarcodeITSField), "")
	return c.config.WebURL + "/observations?" + q.String()
}

// ProvisionalSearchURL links to the website's search for a provisional name.
func (c *Client) ProvisionalSearchURL(name string) string {
	q := &queryBuilder{}
	q.raw("verifiable", "any").
		raw("place_id", "any").
		add(fieldKey(ProvisionalNameField), name)
	return c.config.WebURL + "/observations?" + q.String()
}
