package gallery

// Result is a resolved gallery ready for rendering.
type Result struct {
	Query         string          `json:"query"`
	Found         bool            `json:"found"`
	Strategy      Strategy        `json:"strategy"`
	TotalResults  int             `json:"total_results"`
	TotalPhotos   int             `json:"total_photos"`
	RegularPhotos []Photo         `json:"regular_photos"`
	AllPhotos     []Photo         `json:"all_photos"`
	Locations     []LocationPoint `json:"locations"`
}

// Normalize turns a Resolution into a Result. Each observation with photos
// contributes its first photo to RegularPhotos and every photo to AllPhotos;
// observations with a parseable "lat,lon" contribute a LocationPoint. The
// input order is kept.
func Normalize(res Resolution) Result {
	out := Result{
		Query:         res.Query,
		Found:         res.Found,
		Strategy:      res.Strategy,
		TotalResults:  res.TotalResults,
		RegularPhotos: []Photo{},
		AllPhotos:     []Photo{},
		Locations:     []LocationPoint{},
	}

	for i := range res.Observations {
		obs := &res.Observations[i]
		count := len(obs.Photos)
		out.TotalPhotos += count

		for j, p := range obs.Photos {
			photo := Photo{
				DisplayURL:         SizeVariant(p.URL, SizeMedium),
				OriginalURL:        SizeVariant(p.URL, SizeOriginal),
				TaxonName:          obs.TaxonName(),
				ObservationURI:     obs.URI,
				ObservationID:      obs.ID,
				PhotoIndex:         j + 1,
				TotalInObservation: count,
			}
			if j == 0 {
				out.RegularPhotos = append(out.RegularPhotos, photo)
			}
			out.AllPhotos = append(out.AllPhotos, photo)
		}

		lat, lon, latF, lonF, ok := parseLocation(obs.Location)
		if !ok {
			continue
		}
		point := LocationPoint{
			Latitude:       lat,
			Longitude:      lon,
			Lat:            latF,
			Lon:            lonF,
			ObservationURI: obs.URI,
		}
		if count > 0 {
			point.PhotoURL = SizeVariant(obs.Photos[0].URL, SizeSmall)
		}
		out.Locations = append(out.Locations, point)
	}

	return out
}
