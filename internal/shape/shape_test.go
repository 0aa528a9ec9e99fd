package shape

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func squarePolygon(x, y, size float64) *shp.Polygon {
	return &shp.Polygon{
		NumParts:  1,
		NumPoints: 5,
		Parts:     []int32{0},
		Points: []shp.Point{
			{X: x, Y: y},
			{X: x, Y: y + size},
			{X: x + size, Y: y + size},
			{X: x + size, Y: y},
			{X: x, Y: y},
		},
	}
}

func TestToMultiPolygon(t *testing.T) {
	mp := toMultiPolygon(squarePolygon(-80, 25, 1))
	require.NotNil(t, mp)
	assert.Equal(t, 1, mp.NumPolygons())
	assert.Equal(t, 4326, mp.SRID())

	b := mp.Bounds()
	assert.InDelta(t, -80.0, b.Min(0), 1e-9)
	assert.InDelta(t, 26.0, b.Max(1), 1e-9)
}

func TestToMultiPolygon_MultiPart(t *testing.T) {
	poly := &shp.Polygon{
		NumParts:  2,
		NumPoints: 10,
		Parts:     []int32{0, 5},
		Points:    append(squarePolygon(-80, 25, 1).Points, squarePolygon(-82, 27, 1).Points...),
	}
	mp := toMultiPolygon(poly)
	require.NotNil(t, mp)
	assert.Equal(t, 2, mp.NumPolygons())
}

func TestToMultiPolygon_Unusable(t *testing.T) {
	assert.Nil(t, toMultiPolygon(nil))
	assert.Nil(t, toMultiPolygon(&shp.Point{X: 1, Y: 2}))
	assert.Nil(t, toMultiPolygon(&shp.Polygon{}))
}

func TestWKBRoundTrip(t *testing.T) {
	mp := toMultiPolygon(squarePolygon(-100, 40, 2))
	require.NotNil(t, mp)

	data, err := EncodeWKB(mp)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	back, err := DecodeWKB(data)
	require.NoError(t, err)
	require.NotNil(t, back)
	assert.Equal(t, mp.FlatCoords(), back.FlatCoords())
	assert.Equal(t, 4326, back.SRID())
}

func TestWKBNil(t *testing.T) {
	data, err := EncodeWKB(nil)
	require.NoError(t, err)
	assert.Nil(t, data)

	mp, err := DecodeWKB(nil)
	require.NoError(t, err)
	assert.Nil(t, mp)
}

func TestExtendAndPadBounds(t *testing.T) {
	var b *geom.Bounds
	b = ExtendBounds(b, toMultiPolygon(squarePolygon(0, 0, 1)))
	b = ExtendBounds(b, toMultiPolygon(squarePolygon(5, 5, 1)))
	require.NotNil(t, b)
	assert.InDelta(t, 0.0, b.Min(0), 1e-9)
	assert.InDelta(t, 6.0, b.Max(0), 1e-9)

	padded := PadBounds(b, 0.1)
	assert.InDelta(t, -0.6, padded.Min(0), 1e-9)
	assert.InDelta(t, 6.6, padded.Max(1), 1e-9)
}

func writeShapefile(t *testing.T, path string, fields []shp.Field, rows []struct {
	poly  *shp.Polygon
	attrs []string
}) {
	t.Helper()
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	w.SetFields(fields)
	for i, row := range rows {
		w.Write(row.poly)
		for j, val := range row.attrs {
			require.NoError(t, w.WriteAttribute(i, j, val))
		}
	}
	w.Close()
}

func TestReadTracts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracts.shp")
	writeShapefile(t, path,
		[]shp.Field{shp.StringField("GISJOIN", 14)},
		[]struct {
			poly  *shp.Polygon
			attrs []string
		}{
			{squarePolygon(-118, 34, 0.1), []string{"G0600370207400"}},
			{squarePolygon(-150, 61, 0.1), []string{"G0200130000100"}},
		},
	)

	tracts, err := ReadTracts(path)
	require.NoError(t, err)
	require.Len(t, tracts, 2)
	assert.Equal(t, "G0600370207400", tracts[0].GISJOIN)
	assert.NotNil(t, tracts[0].Geom)
}

func TestReadStates_DetectsAbbrField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "states.shp")
	writeShapefile(t, path,
		[]shp.Field{shp.StringField("STUSPS", 2), shp.StringField("NAME", 24)},
		[]struct {
			poly  *shp.Polygon
			attrs []string
		}{
			{squarePolygon(-120, 35, 5), []string{"CA", "California"}},
			{squarePolygon(-155, 58, 10), []string{"AK", "Alaska"}},
		},
	)

	states, err := ReadStates(path)
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, "CA", states[0].Abbr)
	assert.Equal(t, "California", states[0].Name)
}

func TestReadTracts_MissingGISJOIN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.shp")
	writeShapefile(t, path,
		[]shp.Field{shp.StringField("TRACTID", 14)},
		[]struct {
			poly  *shp.Polygon
			attrs []string
		}{
			{squarePolygon(-118, 34, 0.1), []string{"0600370207400"}},
		},
	)

	_, err := ReadTracts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GISJOIN")
}
