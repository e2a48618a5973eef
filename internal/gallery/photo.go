package gallery

import (
	"math"
	"strconv"
	"strings"
)

// PhotoSize is a size keyword understood by the iNaturalist photo CDN.
type PhotoSize string

const (
	SizeSquare   PhotoSize = "square"
	SizeSmall    PhotoSize = "small"
	SizeMedium   PhotoSize = "medium"
	SizeOriginal PhotoSize = "original"
)

// SizeVariant derives the URL of another size from a photo's base URL by
// swapping the "square" token. URLs without the token are returned unchanged.
func SizeVariant(photoURL string, size PhotoSize) string {
	return strings.ReplaceAll(photoURL, string(SizeSquare), string(size))
}

// Photo is one gallery photo, ready for display.
type Photo struct {
	DisplayURL         string `json:"display_url"`
	OriginalURL        string `json:"original_url"`
	TaxonName          string `json:"taxon_name"`
	ObservationURI     string `json:"observation_uri"`
	ObservationID      int    `json:"observation_id"`
	PhotoIndex         int    `json:"photo_index"` // 1-based
	TotalInObservation int    `json:"total_in_observation"`
}

// LocationPoint is an observation position for the map. Latitude and
// Longitude keep the API's text; Lat and Lon are the parsed values.
type LocationPoint struct {
	Latitude       string  `json:"latitude"`
	Longitude      string  `json:"longitude"`
	Lat            float64 `json:"-"`
	Lon            float64 `json:"-"`
	ObservationURI string  `json:"observation_uri"`
	PhotoURL       string  `json:"photo_url,omitempty"`
}

// parseLocation splits an API "lat,lon" string. ok is false unless there are
// exactly two comma separated parts that both parse as finite numbers.
func parseLocation(location string) (lat, lon string, latF, lonF float64, ok bool) {
	if !strings.Contains(location, ",") {
		return "", "", 0, 0, false
	}

	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return "", "", 0, 0, false
	}

	lat = strings.TrimSpace(parts[0])
	lon = strings.TrimSpace(parts[1])

	var err error
	if latF, err = strconv.ParseFloat(lat, 64); err != nil || !finite(latF) {
		return "", "", 0, 0, false
	}
	if lonF, err = strconv.ParseFloat(lon, 64); err != nil || !finite(lonF) {
		return "", "", 0, 0, false
	}

	return lat, lon, latF, lonF, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
