package gallery

import (
	"encoding/json"
	"fmt"
)

// StrategyKind identifies which query family produced a gallery.
type StrategyKind int

const (
	// StrategyUnresolved is the zero value: no query family produced results.
	StrategyUnresolved StrategyKind = iota
	// StrategyStandardTaxonomy means observations were found by taxon id.
	StrategyStandardTaxonomy
	// StrategyProvisionalName means observations were found by the
	// Provisional Species Name observation field.
	StrategyProvisionalName
)

func (k StrategyKind) String() string {
	switch k {
	case StrategyStandardTaxonomy:
		return "standard_taxonomy"
	case StrategyProvisionalName:
		return "provisional_name"
	default:
		return "unresolved"
	}
}

// Strategy records how a gallery was resolved. The taxon id is only carried
// by the standard taxonomy variant. Build values with StandardTaxonomy or
// ProvisionalName.
type Strategy struct {
	kind    StrategyKind
	taxonID int
}

// StandardTaxonomy returns the strategy for observations found by taxon id.
func StandardTaxonomy(taxonID int) Strategy {
	return Strategy{kind: StrategyStandardTaxonomy, taxonID: taxonID}
}

// ProvisionalName returns the strategy for observations found by provisional name.
func ProvisionalName() Strategy {
	return Strategy{kind: StrategyProvisionalName}
}

// Kind returns the strategy variant.
func (s Strategy) Kind() StrategyKind {
	return s.kind
}

// TaxonID returns the taxon id of a standard taxonomy strategy.
func (s Strategy) TaxonID() (int, bool) {
	if s.kind != StrategyStandardTaxonomy {
		return 0, false
	}
	return s.taxonID, true
}

// String returns the human-readable provenance shown under a gallery.
func (s Strategy) String() string {
	switch s.kind {
	case StrategyStandardTaxonomy:
		return fmt.Sprintf("standard taxonomy (taxon_id: %d)", s.taxonID)
	case StrategyProvisionalName:
		return "provisional species name"
	default:
		return "unresolved"
	}
}

type strategyJSON struct {
	Kind        string `json:"kind"`
	TaxonID     *int   `json:"taxon_id,omitempty"`
	Description string `json:"description"`
}

// MarshalJSON renders the strategy as {"kind", "taxon_id", "description"}.
func (s Strategy) MarshalJSON() ([]byte, error) {
	out := strategyJSON{Kind: s.kind.String(), Description: s.String()}
	if id, ok := s.TaxonID(); ok {
		out.TaxonID = &id
	}
	return json.Marshal(out)
}
