package census

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFIPSState(t *testing.T) {
	assert.Equal(t, "06", NormalizeFIPSState("6"))
	assert.Equal(t, "06", NormalizeFIPSState("06"))
	assert.Equal(t, "36", NormalizeFIPSState(" 36 "))
	assert.Equal(t, "", NormalizeFIPSState(""))
}

func TestNormalizeFIPSCounty(t *testing.T) {
	assert.Equal(t, "001", NormalizeFIPSCounty("1"))
	assert.Equal(t, "037", NormalizeFIPSCounty("37"))
	assert.Equal(t, "037", NormalizeFIPSCounty("037"))
	assert.Equal(t, "", NormalizeFIPSCounty(""))
}

func TestNormalizeTractCode(t *testing.T) {
	assert.Equal(t, "207400", NormalizeTractCode("207400"))
	assert.Equal(t, "000100", NormalizeTractCode("100"))
	assert.Equal(t, "", NormalizeTractCode(""))
}

func TestTractFIPSFromGEOID(t *testing.T) {
	fips, err := TractFIPSFromGEOID("14000US06037207400")
	require.NoError(t, err)
	assert.Equal(t, "06037207400", fips)

	// 2023 extracts use the bare GEO_ID form.
	fips, err = TractFIPSFromGEOID("1400000US06037207400")
	require.NoError(t, err)
	assert.Equal(t, "06037207400", fips)

	_, err = TractFIPSFromGEOID("0603720")
	assert.Error(t, err)
}

func TestCombineTractFIPS(t *testing.T) {
	assert.Equal(t, "06037207400", CombineTractFIPS("6", "37", "207400"))
	assert.Equal(t, "", CombineTractFIPS("", "037", "207400"))
}

func TestGISJOINRoundTrip(t *testing.T) {
	gj, err := GISJOINFromFIPS("06037207400")
	require.NoError(t, err)
	assert.Equal(t, "G0600370207400", gj)

	state, county, tract, err := ParseGISJOIN(gj)
	require.NoError(t, err)
	assert.Equal(t, "06", state)
	assert.Equal(t, "037", county)
	assert.Equal(t, "207400", tract)
}

func TestParseGISJOIN_Malformed(t *testing.T) {
	_, _, _, err := ParseGISJOIN("0600370207400")
	assert.Error(t, err)
	_, _, _, err = ParseGISJOIN("G06003702074")
	assert.Error(t, err)
}

func TestRegionFor(t *testing.T) {
	exclude := DefaultExcludedStates
	assert.Equal(t, RegionConus, RegionFor("CA", exclude))
	assert.Equal(t, RegionConus, RegionFor("", exclude))
	assert.Equal(t, RegionAlaska, RegionFor("AK", exclude))
	assert.Equal(t, RegionExcluded, RegionFor("HI", exclude))
	assert.Equal(t, RegionExcluded, RegionFor("PR", exclude))
}
