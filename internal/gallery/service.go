package gallery

import (
	"context"
	"time"

	"github.com/tphakala/inat-gallery/internal/errors"
	"github.com/tphakala/inat-gallery/internal/logger"
	"github.com/tphakala/inat-gallery/internal/observability/metrics"
)

// Service resolves and normalizes galleries for hosts (CLI, HTTP server).
type Service struct {
	resolver *Resolver
	metrics  *metrics.INaturalistMetrics
	log      logger.Logger
}

// NewService creates a Service. log and m may be nil.
func NewService(source ObservationSource, log logger.Logger, m *metrics.INaturalistMetrics) *Service {
	if log == nil {
		log = logger.Global().Module(componentName)
	}
	return &Service{
		resolver: NewResolver(source, log),
		metrics:  m,
		log:      log,
	}
}

// Fetch resolves name and normalizes the observations. A name with no
// observations yields a Result with Found false. ErrEmptyName is returned
// for an empty name.
func (s *Service) Fetch(ctx context.Context, name string) (*Result, error) {
	start := time.Now()

	res, err := s.resolver.Resolve(ctx, name)
	if err != nil {
		if errors.Is(err, ErrEmptyName) {
			s.metrics.RecordResolution(metrics.OutcomeInvalid)
		}
		return nil, err
	}

	result := Normalize(res)
	log := s.log.WithContext(ctx).With(
		logger.String("query", name),
		logger.Duration("elapsed", time.Since(start)))

	if !result.Found {
		s.metrics.RecordResolution(metrics.OutcomeNotFound)
		log.Info("No observations found")
		return &result, nil
	}

	outcome := metrics.OutcomeProvisionalName
	if result.Strategy.Kind() == StrategyStandardTaxonomy {
		outcome = metrics.OutcomeStandardTaxonomy
	}
	s.metrics.RecordResolution(outcome)
	s.metrics.ObserveGalleryPhotos(result.TotalPhotos)

	log.Info("Gallery resolved",
		logger.String("strategy", result.Strategy.String()),
		logger.Int("total_results", result.TotalResults),
		logger.Int("observations", len(res.Observations)),
		logger.Int("photos", result.TotalPhotos),
		logger.Int("locations", len(result.Locations)))

	return &result, nil
}

// Linker builds links back to the iNaturalist website.
// *inaturalist.Client implements it.
type Linker interface {
	ObservationsMapURL(taxonID int) string
	ProvisionalSearchURL(name string) string
}

// DeepLink returns the website search matching how result was found, or ""
// for an unresolved result.
func DeepLink(l Linker, result *Result) string {
	if result == nil || !result.Found {
		return ""
	}
	switch result.Strategy.Kind() {
	case StrategyStandardTaxonomy:
		id, _ := result.Strategy.TaxonID()
		return l.ObservationsMapURL(id)
	case StrategyProvisionalName:
		return l.ProvisionalSearchURL(result.Query)
	default:
		return ""
	}
}
