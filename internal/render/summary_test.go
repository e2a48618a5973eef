package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/inat-gallery/internal/gallery"
)

func TestSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *gallery.Result
		want   string
	}{
		{
			name:   "standard taxonomy",
			result: &gallery.Result{Found: true, Strategy: gallery.StandardTaxonomy(42), TotalResults: 1234, TotalPhotos: 2345},
			want:   "Found 1,234 observations with 2,345 photos (standard taxonomy (taxon_id: 42))",
		},
		{
			name:   "singular",
			result: &gallery.Result{Found: true, Strategy: gallery.ProvisionalName(), TotalResults: 1, TotalPhotos: 1},
			want:   "Found 1 observation with 1 photo (provisional species name)",
		},
		{
			name:   "observations without photos",
			result: &gallery.Result{Found: true, Strategy: gallery.ProvisionalName(), TotalResults: 2},
			want:   "Found 2 observations with 0 photos (provisional species name)",
		},
		{
			name:   "not found",
			result: &gallery.Result{Query: "Mycena 'X'"},
			want:   `No iNaturalist observations found for "Mycena 'X'"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Summary(tt.result))
		})
	}
}

func TestSpeciesFromPageTitle(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Amanita_muscaria":               "Amanita muscaria",
		"  Amanita__muscaria  ":          "Amanita muscaria",
		"Cortinarius violaceus":          "Cortinarius violaceus",
		"Russula_crémea":                 "Russula crémea",
		"Psathyrella_'alluvinana_PNW10'": "Psathyrella 'alluvinana PNW10'",
		"":                               "",
	}

	for title, want := range tests {
		assert.Equal(t, want, SpeciesFromPageTitle(title), "title %q", title)
	}
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	out := PlainText("<p>Found <b>2</b> observations</p><p>second<br>line</p>")
	assert.Contains(t, out, "Found 2 observations")
	assert.Contains(t, out, "second\nline")
	assert.NotContains(t, out, "<")
}
