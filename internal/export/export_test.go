package export

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"github.com/twpayne/go-geom"

	"github.com/fuelatlas/fuelatlas/internal/fuel"
	"github.com/fuelatlas/fuelatlas/internal/model"
	"github.com/fuelatlas/fuelatlas/internal/summary"
)

func testTract(gisjoin, abbr string, counts fuel.Counts) model.Tract {
	var total int64
	for _, n := range counts {
		total += n
	}
	return model.Tract{
		Year:       2015,
		GISJOIN:    gisjoin,
		GEOID:      "14000US" + gisjoin[1:3] + gisjoin[4:7] + gisjoin[8:],
		StateAbbr:  abbr,
		StateName:  abbr,
		CountyName: "Test County",
		TotalUnits: total,
		Counts:     counts,
		Class:      fuel.Classify(total, false, counts),
	}
}

func TestWriteCSV(t *testing.T) {
	tracts := []model.Tract{
		testTract("G0600370207400", "CA", fuel.Counts{fuel.NaturalGas: 80, fuel.Electricity: 20}),
		testTract("G7201100000100", "PR", fuel.Counts{}),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tracts))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	assert.True(t, strings.HasPrefix(lines[0], "year,gisjoin,"))
	assert.Contains(t, lines[0], "pct_natural_gas")

	assert.Contains(t, lines[1], "Natural_Gas")
	assert.Contains(t, lines[1], "80")

	// Sentinel rows export empty dominant statistics.
	assert.Contains(t, lines[2], "No_Data")
	assert.Contains(t, lines[2], ",,")
}

func TestWriteGeoJSON(t *testing.T) {
	mp := geom.NewMultiPolygon(geom.XY)
	mp.SetSRID(4326)
	poly := geom.NewPolygonFlat(geom.XY, []float64{-118, 34, -117, 34, -117, 35, -118, 34}, []int{8})
	require.NoError(t, mp.Push(poly))

	tract := testTract("G0600370207400", "CA", fuel.Counts{fuel.NaturalGas: 100})
	features := []model.Feature{
		{GISJOIN: "G0600370207400", Geom: mp, Tract: &tract},
		{GISJOIN: "G0600370207500", Geom: mp}, // unmatched geometry
	}

	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, features))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry   json.RawMessage `json:"geometry"`
			Properties map[string]any  `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)

	matched := fc.Features[0].Properties
	assert.Equal(t, "Natural_Gas", matched["dominant"])
	assert.Equal(t, "#3182bd", matched["fill"])

	unmatched := fc.Features[1].Properties
	assert.Equal(t, "No_Fuel_Missing", unmatched["simplified"])
	assert.Equal(t, "#f0f0f0", unmatched["fill"])
	assert.NotContains(t, unmatched, "dominant")
}

func TestWriteXLSX(t *testing.T) {
	tracts := []model.Tract{
		testTract("G0600370207400", "CA", fuel.Counts{fuel.NaturalGas: 100}),
		testTract("G0600370207500", "CA", fuel.Counts{fuel.NaturalGas: 100}),
		testTract("G0201100000100", "AK", fuel.Counts{fuel.FuelOil: 100}),
	}
	states := summary.ByState(tracts)

	path := filepath.Join(t.TempDir(), "states_2015.xlsx")
	require.NoError(t, WriteXLSX(path, 2015, states))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "States 2015", sheet.Name)
	require.Len(t, sheet.Rows, 3) // header + AK + CA

	assert.Equal(t, "State", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "AK", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "CA", sheet.Rows[2].Cells[0].String())
	assert.Equal(t, "2", sheet.Rows[2].Cells[2].String())
	assert.Equal(t, "Natural Gas", sheet.Rows[2].Cells[5].String())
}
