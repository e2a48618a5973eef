package render

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"
	"github.com/tphakala/inat-gallery/internal/gallery"
)

// LocationsFeatureCollection converts map points to a GeoJSON
// FeatureCollection of Points. Properties: "uri" and, when present, "photo".
func LocationsFeatureCollection(locations []gallery.LocationPoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i := range locations {
		loc := &locations[i]
		// GeoJSON positions are [longitude, latitude]
		f := geojson.NewPointFeature([]float64{loc.Lon, loc.Lat})
		f.SetProperty("uri", loc.ObservationURI)
		if loc.PhotoURL != "" {
			f.SetProperty("photo", loc.PhotoURL)
		}
		fc.AddFeature(f)
	}
	return fc
}

// LocationsGeoJSON returns the encoded FeatureCollection for locations.
func LocationsGeoJSON(locations []gallery.LocationPoint) ([]byte, error) {
	data, err := LocationsFeatureCollection(locations).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode locations as GeoJSON: %w", err)
	}
	return data, nil
}
