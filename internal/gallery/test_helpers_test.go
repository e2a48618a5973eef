package gallery

import (
	"context"
	"io"
	"strconv"
	"sync"
	"testing"

	"github.com/tphakala/inat-gallery/internal/errors"
	"github.com/tphakala/inat-gallery/internal/inaturalist"
	"github.com/tphakala/inat-gallery/internal/logger"
)

const (
	callTaxa        = "taxa"
	callStandard    = "standard"
	callProvisional = "provisional"
)

// fakeSource is a call-recording ObservationSource.
type fakeSource struct {
	mu    sync.Mutex
	calls []string

	taxonID    int
	taxonFound bool
	taxonErr   error

	standard    *inaturalist.ObservationPage
	standardErr error

	provisional    *inaturalist.ObservationPage
	provisionalErr error

	lastTaxonID int
}

func (f *fakeSource) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeSource) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeSource) SearchTaxonID(_ context.Context, _ string) (int, bool, error) {
	f.record(callTaxa)
	return f.taxonID, f.taxonFound, f.taxonErr
}

func (f *fakeSource) StandardObservations(_ context.Context, taxonID int) (*inaturalist.ObservationPage, error) {
	f.record(callStandard)
	f.lastTaxonID = taxonID
	return f.standard, f.standardErr
}

func (f *fakeSource) ProvisionalObservations(_ context.Context, _ string) (*inaturalist.ObservationPage, error) {
	f.record(callProvisional)
	return f.provisional, f.provisionalErr
}

func newTestResolver(t *testing.T, source ObservationSource) *Resolver {
	t.Helper()
	return NewResolver(source, logger.NewSlogLogger(io.Discard, logger.LogLevelDebug, nil))
}

func pageOf(observations ...inaturalist.Observation) *inaturalist.ObservationPage {
	if observations == nil {
		observations = []inaturalist.Observation{}
	}
	return &inaturalist.ObservationPage{Results: observations}
}

func pageWithTotal(total int, observations ...inaturalist.Observation) *inaturalist.ObservationPage {
	p := pageOf(observations...)
	p.TotalResults = &total
	return p
}

func observation(id int, photos ...string) inaturalist.Observation {
	obs := inaturalist.Observation{ID: id, URI: "https://www.inaturalist.org/observations/" + strconv.Itoa(id)}
	for _, u := range photos {
		obs.Photos = append(obs.Photos, inaturalist.Photo{URL: u})
	}
	return obs
}

var errRemote = errors.Newf("remote unavailable").Category(errors.CategoryNetwork).Component("test").Build()
