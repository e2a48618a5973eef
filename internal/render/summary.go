package render

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/tphakala/inat-gallery/internal/gallery"
	"golang.org/x/text/unicode/norm"
)

// Summary returns the line shown above a gallery, e.g.
// "Found 1,234 observations with 2,345 photos (standard taxonomy (taxon_id: 42))".
func Summary(result *gallery.Result) string {
	if result == nil || !result.Found {
		query := ""
		if result != nil {
			query = result.Query
		}
		return fmt.Sprintf("No iNaturalist observations found for %q", query)
	}

	return fmt.Sprintf("Found %s %s with %s %s (%s)",
		humanize.Comma(int64(result.TotalResults)),
		english.PluralWord(result.TotalResults, "observation", ""),
		humanize.Comma(int64(result.TotalPhotos)),
		english.PluralWord(result.TotalPhotos, "photo", ""),
		result.Strategy)
}

// SpeciesFromPageTitle derives the default species name from a wiki page
// title: underscores become spaces, the text is NFC normalized and runs of
// whitespace collapse to one space.
func SpeciesFromPageTitle(title string) string {
	title = strings.ReplaceAll(title, "_", " ")
	title = norm.NFC.String(title)
	return strings.Join(strings.Fields(title), " ")
}
