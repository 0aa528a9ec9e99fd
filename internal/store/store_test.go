package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelatlas/fuelatlas/internal/fuel"
	"github.com/fuelatlas/fuelatlas/internal/model"
	"github.com/fuelatlas/fuelatlas/internal/shape"
)

func TestJoinFeatures(t *testing.T) {
	tracts := []model.Tract{
		testTract(2015, "G0600370207400", "14000US06037207400", "CA",
			fuel.Counts{fuel.NaturalGas: 100}),
		// No geometry for this one; it is dropped from the join.
		testTract(2015, "G0600370209900", "14000US06037209900", "CA",
			fuel.Counts{fuel.Electricity: 100}),
	}
	geoms := []shape.Tract{
		{GISJOIN: "G0600370207500"}, // geometry without a survey record
		{GISJOIN: "G0600370207400"},
	}

	features := JoinFeatures(tracts, geoms)
	require.Len(t, features, 2)

	// Sorted by GISJOIN.
	assert.Equal(t, "G0600370207400", features[0].GISJOIN)
	require.NotNil(t, features[0].Tract)
	assert.Equal(t, "CA", features[0].StateAbbr())
	assert.Equal(t, fuel.SimpleNaturalGas, features[0].FillCategory())

	assert.Equal(t, "G0600370207500", features[1].GISJOIN)
	assert.Nil(t, features[1].Tract)
	assert.Equal(t, "", features[1].StateAbbr())
	assert.Equal(t, fuel.SimpleNoFuelMissing, features[1].FillCategory())
}

func TestJoinFeatures_Empty(t *testing.T) {
	assert.Empty(t, JoinFeatures(nil, nil))
}
