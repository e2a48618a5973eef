// Package gallery resolves a species name to iNaturalist observations and
// normalizes them into the photo and location model used for rendering.
//
// Resolution tries the standard taxonomy first (taxon search, then sequenced
// observations of that taxon) and falls back to the Provisional Species Name
// observation field. Names containing quote characters are provisional by
// convention and skip the taxonomy lookup entirely.
package gallery

import (
	"context"
	"strings"

	"github.com/tphakala/inat-gallery/internal/errors"
	"github.com/tphakala/inat-gallery/internal/inaturalist"
	"github.com/tphakala/inat-gallery/internal/logger"
)

const componentName = "gallery"

// ErrEmptyName is returned when there is no species name to resolve.
var ErrEmptyName = errors.Newf("no species name given").
	Category(errors.CategoryValidation).
	Component(componentName).
	Build()

// ObservationSource is the remote API the Resolver queries.
// *inaturalist.Client implements it.
type ObservationSource interface {
	SearchTaxonID(ctx context.Context, name string) (id int, found bool, err error)
	StandardObservations(ctx context.Context, taxonID int) (*inaturalist.ObservationPage, error)
	ProvisionalObservations(ctx context.Context, name string) (*inaturalist.ObservationPage, error)
}

// Resolution is the raw outcome of resolving a name. When Found is false the
// other fields are zero.
type Resolution struct {
	Query        string
	Strategy     Strategy
	Observations []inaturalist.Observation
	TotalResults int
	Found        bool
}

// Resolver picks and runs the query strategy for a species name.
type Resolver struct {
	source ObservationSource
	log    logger.Logger
}

// NewResolver creates a Resolver backed by source.
func NewResolver(source ObservationSource, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.Global().Module(componentName)
	}
	return &Resolver{source: source, log: log}
}

// IsProvisionalName reports whether name is provisional-only, which is
// marked by a single or double quote anywhere in it.
func IsProvisionalName(name string) bool {
	return strings.ContainsAny(name, `'"`)
}

// Resolve runs at most one taxon search, one taxon observation query and one
// provisional-name query, in that order, stopping at the first non-empty
// observation page. Remote failures count as an empty step. Not finding
// anything is a normal outcome with Found false and a nil error.
func (r *Resolver) Resolve(ctx context.Context, name string) (Resolution, error) {
	if strings.TrimSpace(name) == "" {
		return Resolution{}, ErrEmptyName
	}

	log := r.log.WithContext(ctx).With(logger.String("query", name))

	if IsProvisionalName(name) {
		log.Debug("Quoted name, skipping taxonomy lookup")
	} else if res, ok := r.resolveStandard(ctx, log, name); ok {
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return Resolution{}, cancelled(err, name)
	}

	page, err := r.source.ProvisionalObservations(ctx, name)
	if err != nil {
		log.Debug("Provisional name query failed", logger.Error(err))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Resolution{}, cancelled(ctxErr, name)
		}
		return Resolution{Query: name}, nil
	}
	if page.Empty() {
		log.Debug("No observations for provisional name")
		return Resolution{Query: name}, nil
	}

	return Resolution{
		Query:        name,
		Strategy:     ProvisionalName(),
		Observations: page.Results,
		TotalResults: page.Total(),
		Found:        true,
	}, nil
}

// resolveStandard runs the taxon search and the taxon observation query.
// ok is false when either step yields nothing.
func (r *Resolver) resolveStandard(ctx context.Context, log logger.Logger, name string) (Resolution, bool) {
	taxonID, found, err := r.source.SearchTaxonID(ctx, name)
	if err != nil {
		log.Debug("Taxon search failed", logger.Error(err))
		return Resolution{}, false
	}
	if !found {
		log.Debug("No taxon matched, trying provisional name")
		return Resolution{}, false
	}

	page, err := r.source.StandardObservations(ctx, taxonID)
	if err != nil {
		log.Debug("Taxon observation query failed",
			logger.Int("taxon_id", taxonID),
			logger.Error(err))
		return Resolution{}, false
	}
	if page.Empty() {
		log.Debug("Taxon has no sequenced observations, trying provisional name",
			logger.Int("taxon_id", taxonID))
		return Resolution{}, false
	}

	return Resolution{
		Query:        name,
		Strategy:     StandardTaxonomy(taxonID),
		Observations: page.Results,
		TotalResults: page.Total(),
		Found:        true,
	}, true
}

func cancelled(err error, name string) error {
	return errors.New(err).
		Category(errors.CategoryCancellation).
		Component(componentName).
		Context("query", name).
		Build()
}
