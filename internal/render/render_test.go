package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/fuelatlas/fuelatlas/internal/fuel"
	"github.com/fuelatlas/fuelatlas/internal/model"
	"github.com/fuelatlas/fuelatlas/internal/shape"
)

func square(t *testing.T, x, y, size float64) *geom.MultiPolygon {
	t.Helper()
	mp := geom.NewMultiPolygon(geom.XY)
	mp.SetSRID(4326)
	poly := geom.NewPolygonFlat(geom.XY, []float64{
		x, y, x + size, y, x + size, y + size, x, y + size, x, y,
	}, []int{10})
	require.NoError(t, mp.Push(poly))
	return mp
}

func feature(t *testing.T, gisjoin, abbr string, counts fuel.Counts, geo *geom.MultiPolygon) model.Feature {
	t.Helper()
	var total int64
	for _, n := range counts {
		total += n
	}
	return model.Feature{
		GISJOIN: gisjoin,
		Geom:    geo,
		Tract: &model.Tract{
			GISJOIN:    gisjoin,
			StateAbbr:  abbr,
			TotalUnits: total,
			Counts:     counts,
			Class:      fuel.Classify(total, false, counts),
		},
	}
}

func testFixtures(t *testing.T) ([]model.Feature, []shape.State) {
	t.Helper()
	features := []model.Feature{
		feature(t, "G0600370207400", "CA", fuel.Counts{fuel.NaturalGas: 100}, square(t, -118, 34, 1)),
		feature(t, "G0201100000100", "AK", fuel.Counts{fuel.FuelOil: 100}, square(t, -150, 61, 1)),
		feature(t, "G1500010021000", "HI", fuel.Counts{fuel.Electricity: 100}, square(t, -157, 21, 1)),
		// Geometry without a survey record; state comes from the GISJOIN.
		{GISJOIN: "G3600810000100", Geom: square(t, -74, 41, 1)},
	}
	states := []shape.State{
		{Abbr: "CA", Name: "California", Geom: square(t, -124, 32, 10)},
		{Abbr: "AK", Name: "Alaska", Geom: square(t, -170, 55, 20)},
		{Abbr: "HI", Name: "Hawaii", Geom: square(t, -160, 18, 5)},
	}
	return features, states
}

func TestGeoCanvasPoint(t *testing.T) {
	c := draw.New(vgimg.NewWith(vgimg.UseWH(100, 50), vgimg.UseDPI(72)))
	b := geom.NewBounds(geom.XY)
	b.Set(-100, 30, -80, 40)

	gc := newGeoCanvas(c, b)

	// Width is the binding dimension: scale = 100pt / 20deg = 5 pt per degree.
	assert.InDelta(t, 5.0, gc.scale, 1e-9)

	min := gc.point(-100, 30)
	max := gc.point(-80, 40)
	assert.InDelta(t, float64(c.Min.X), float64(min.X), 1e-6)
	assert.InDelta(t, float64(c.Max.X), float64(max.X), 1e-6)
	// Vertically centered: 50pt panel, 50pt content.
	assert.InDelta(t, float64(c.Min.Y), float64(min.Y), 1e-6)

	mid := gc.point(-90, 35)
	assert.InDelta(t, float64(c.Min.X+(c.Max.X-c.Min.X)/2), float64(mid.X), 1e-6)
}

func TestSplitPanels(t *testing.T) {
	features, states := testFixtures(t)

	conus, alaska := splitPanels(features, states, []string{"HI", "PR"})

	// CA tract + unmatched NY geometry.
	assert.Len(t, conus.features, 2)
	assert.Len(t, conus.states, 1)
	require.NotNil(t, conus.bounds)

	assert.Len(t, alaska.features, 1)
	assert.Len(t, alaska.states, 1)
}

func TestSplitPanels_NoExclusions(t *testing.T) {
	features, states := testFixtures(t)

	conus, _ := splitPanels(features, states, nil)
	assert.Len(t, conus.features, 3) // HI stays
	assert.Len(t, conus.states, 2)
}

func TestDrawMap_EmptyFeatures(t *testing.T) {
	dc := draw.New(vgimg.NewWith(vgimg.UseWH(vg.Inch*4, vg.Inch*2), vgimg.UseDPI(72)))
	err := DrawMap(dc, nil, nil, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no features")
}

func TestTextStyleMeasures(t *testing.T) {
	// The bundled Liberation faces must resolve so labels can be measured
	// for legend centering.
	sty := textStyle(vg.Points(14), xfont.WeightNormal, text.XLeft, text.YCenter)
	assert.Greater(t, float64(sty.Width("Natural Gas")), 0.0)
	bold := textStyle(vg.Points(14), xfont.WeightBold, text.XLeft, text.YCenter)
	assert.Greater(t, float64(bold.Width("2015")), 0.0)
}

func TestSaveMap(t *testing.T) {
	features, states := testFixtures(t)
	opts := Options{
		Title:         "Primary Heating Fuel by Census Tract, 2015",
		Width:         4 * vg.Inch,
		Height:        2.2 * vg.Inch,
		DPI:           72,
		AlaskaInset:   true,
		ExcludeStates: []string{"HI", "PR"},
	}

	base := filepath.Join(t.TempDir(), "fuel_map_2015")
	err := Save(base, opts, func(dc draw.Canvas) error {
		return DrawMap(dc, features, states, opts)
	})
	require.NoError(t, err)

	for _, ext := range []string{".png", ".pdf"} {
		info, err := os.Stat(base + ext)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestSaveGrid(t *testing.T) {
	features, states := testFixtures(t)
	opts := Options{
		Title:         "Primary Heating Fuel by Census Tract",
		Width:         6 * vg.Inch,
		Height:        2.2 * vg.Inch,
		DPI:           72,
		AlaskaInset:   true,
		ExcludeStates: []string{"HI", "PR"},
	}
	panels := []YearPanel{
		{Year: 2015, Features: features},
		{Year: 2020, Features: features},
		{Year: 2023, Features: features},
	}

	base := filepath.Join(t.TempDir(), "fuel_map_grid")
	err := Save(base, opts, func(dc draw.Canvas) error {
		return DrawGrid(dc, panels, states, opts)
	})
	require.NoError(t, err)
	assert.FileExists(t, base+".png")
	assert.FileExists(t, base+".pdf")
}

func TestDrawGrid_Empty(t *testing.T) {
	dc := draw.New(vgimg.NewWith(vgimg.UseWH(vg.Inch, vg.Inch), vgimg.UseDPI(72)))
	err := DrawGrid(dc, nil, nil, Options{})
	require.Error(t, err)
}
