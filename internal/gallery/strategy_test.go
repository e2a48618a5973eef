package gallery

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyVariants(t *testing.T) {
	t.Parallel()

	std := StandardTaxonomy(42)
	assert.Equal(t, StrategyStandardTaxonomy, std.Kind())
	id, ok := std.TaxonID()
	assert.True(t, ok)
	assert.Equal(t, 42, id)
	assert.Equal(t, "standard taxonomy (taxon_id: 42)", std.String())

	prov := ProvisionalName()
	assert.Equal(t, StrategyProvisionalName, prov.Kind())
	_, ok = prov.TaxonID()
	assert.False(t, ok)
	assert.Equal(t, "provisional species name", prov.String())

	var zero Strategy
	assert.Equal(t, StrategyUnresolved, zero.Kind())
	_, ok = zero.TaxonID()
	assert.False(t, ok)
}

func TestStrategyJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(StandardTaxonomy(7))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"standard_taxonomy","taxon_id":7,"description":"standard taxonomy (taxon_id: 7)"}`, string(data))

	data, err = json.Marshal(ProvisionalName())
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"provisional_name","description":"provisional species name"}`, string(data))
}
