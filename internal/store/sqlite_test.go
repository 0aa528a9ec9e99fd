package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/fuelatlas/fuelatlas/internal/fuel"
	"github.com/fuelatlas/fuelatlas/internal/model"
	"github.com/fuelatlas/fuelatlas/internal/shape"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testTract(year int, gisjoin, geoid, abbr string, counts fuel.Counts) model.Tract {
	var total int64
	for _, n := range counts {
		total += n
	}
	return model.Tract{
		Year:       year,
		GISJOIN:    gisjoin,
		GEOID:      geoid,
		FIPS:       geoid[len(geoid)-11:],
		StateFIPS:  geoid[len(geoid)-11 : len(geoid)-9],
		CountyFIPS: geoid[len(geoid)-9 : len(geoid)-6],
		TractCode:  geoid[len(geoid)-6:],
		StateAbbr:  abbr,
		StateName:  abbr,
		CountyName: "Test County",
		TotalUnits: total,
		Counts:     counts,
		Class:      fuel.Classify(total, false, counts),
	}
}

func testGeom(t *testing.T) *geom.MultiPolygon {
	t.Helper()
	mp := geom.NewMultiPolygon(geom.XY)
	mp.SetSRID(4326)
	poly := geom.NewPolygonFlat(geom.XY, []float64{-118, 34, -117, 34, -117, 35, -118, 35, -118, 34}, []int{10})
	require.NoError(t, mp.Push(poly))
	return mp
}

func TestSQLiteStore_ReplaceTracts_RoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	in := []model.Tract{
		testTract(2015, "G0600370207400", "14000US06037207400", "CA",
			fuel.Counts{fuel.NaturalGas: 800, fuel.Electricity: 150, fuel.NoFuel: 50}),
		testTract(2015, "G0201100000100", "14000US02110000100", "AK",
			fuel.Counts{fuel.FuelOil: 100, fuel.Wood: 100}),
	}

	n, err := s.ReplaceTracts(ctx, 2015, in)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := s.Tracts(ctx, TractFilter{Year: 2015})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by GISJOIN, so the Alaska tract comes first.
	ak := got[0]
	assert.Equal(t, "G0201100000100", ak.GISJOIN)
	assert.True(t, ak.Class.HasTie)
	assert.Equal(t, fuel.Tie, ak.Class.Dominant)
	assert.False(t, ak.Class.HasDominant())

	ca := got[1]
	assert.Equal(t, "G0600370207400", ca.GISJOIN)
	assert.Equal(t, "06037207400", ca.FIPS)
	assert.Equal(t, fuel.NaturalGas, ca.Class.Dominant)
	assert.Equal(t, int64(800), ca.Class.DominantCount)
	assert.InDelta(t, 80.0, ca.Class.DominantShare, 0.001)
	assert.InDelta(t, 80.0, ca.Class.Percent[fuel.NaturalGas], 0.001)
	assert.Equal(t, int64(150), ca.Counts[fuel.Electricity])
}

func TestSQLiteStore_ReplaceTracts_ReplacesVintage(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	first := []model.Tract{
		testTract(2020, "G0600370207400", "14000US06037207400", "CA",
			fuel.Counts{fuel.NaturalGas: 10}),
		testTract(2020, "G0600370207500", "14000US06037207500", "CA",
			fuel.Counts{fuel.Electricity: 10}),
	}
	_, err := s.ReplaceTracts(ctx, 2020, first)
	require.NoError(t, err)

	// Another vintage must be untouched by the replace.
	_, err = s.ReplaceTracts(ctx, 2015, []model.Tract{
		testTract(2015, "G0600370207400", "14000US06037207400", "CA",
			fuel.Counts{fuel.NaturalGas: 10}),
	})
	require.NoError(t, err)

	second := []model.Tract{
		testTract(2020, "G0600370207600", "14000US06037207600", "CA",
			fuel.Counts{fuel.Propane: 10}),
	}
	n, err := s.ReplaceTracts(ctx, 2020, second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.Tracts(ctx, TractFilter{Year: 2020})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "G0600370207600", got[0].GISJOIN)

	got, err = s.Tracts(ctx, TractFilter{Year: 2015})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLiteStore_ReplaceTracts_RejectsMixedVintage(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	existing := testTract(2015, "G0600370207400", "14000US06037207400", "CA",
		fuel.Counts{fuel.NaturalGas: 10})
	_, err := s.ReplaceTracts(ctx, 2015, []model.Tract{existing})
	require.NoError(t, err)

	mixed := []model.Tract{
		existing,
		testTract(2020, "G0600370207500", "14000US06037207500", "CA",
			fuel.Counts{fuel.Propane: 5}),
	}
	_, err = s.ReplaceTracts(ctx, 2015, mixed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "year 2020 in a replace of year 2015")

	// The rejected batch must not have deleted the vintage it targeted.
	got, err := s.Tracts(ctx, TractFilter{Year: 2015})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLiteStore_Tracts_Filters(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	in := []model.Tract{
		testTract(2023, "G0600370207400", "1400000US06037207400", "CA",
			fuel.Counts{fuel.NaturalGas: 100}),
		testTract(2023, "G0201100000100", "1400000US02110000100", "AK",
			fuel.Counts{fuel.FuelOil: 100}),
		testTract(2023, "G0201100000200", "1400000US02110000200", "AK",
			fuel.Counts{fuel.NaturalGas: 100}),
	}
	_, err := s.ReplaceTracts(ctx, 2023, in)
	require.NoError(t, err)

	got, err := s.Tracts(ctx, TractFilter{Year: 2023, StateAbbr: "AK"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.Tracts(ctx, TractFilter{Year: 2023, Dominant: fuel.FuelOil})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "G0201100000100", got[0].GISJOIN)

	got, err = s.Tracts(ctx, TractFilter{Year: 2023, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "G0201100000200", got[0].GISJOIN)
}

func TestSQLiteStore_Geometries_RoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	mp := testGeom(t)
	n, err := s.ReplaceGeometries(ctx, 2015, []shape.Tract{
		{GISJOIN: "G0600370207400", Geom: mp},
		{GISJOIN: "G0600370207500", Geom: nil}, // unusable shapes are skipped
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.Geometries(ctx, 2015)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "G0600370207400", got[0].GISJOIN)
	require.NotNil(t, got[0].Geom)
	assert.Equal(t, 4326, got[0].Geom.SRID())
	assert.Equal(t, mp.FlatCoords(), got[0].Geom.FlatCoords())
}

func TestSQLiteStore_YearStatuses(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	in := []model.Tract{
		testTract(2015, "G0600370207400", "14000US06037207400", "CA",
			fuel.Counts{fuel.NaturalGas: 100}),
		testTract(2015, "G0201100000100", "14000US02110000100", "AK",
			fuel.Counts{fuel.FuelOil: 50, fuel.Wood: 50}),
		testTract(2015, "G7201100000100", "14000US72110000100", "PR",
			fuel.Counts{}),
	}
	_, err := s.ReplaceTracts(ctx, 2015, in)
	require.NoError(t, err)

	_, err = s.ReplaceGeometries(ctx, 2015, []shape.Tract{
		{GISJOIN: "G0600370207400", Geom: testGeom(t)},
	})
	require.NoError(t, err)

	loadedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.AppendLoad(ctx, model.LoadRecord{
		ID: uuid.NewString(), Year: 2015, Kind: "tracts", Rows: 3,
		Source: "nhgis0011_ds215_20155_tract.csv", Duration: 2 * time.Second, LoadedAt: loadedAt,
	}))

	statuses, err := s.YearStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)

	st := statuses[0]
	assert.Equal(t, 2015, st.Year)
	assert.Equal(t, int64(3), st.Tracts)
	assert.Equal(t, int64(2), st.Valid)
	assert.Equal(t, int64(1), st.Ties)
	assert.Equal(t, int64(1), st.NoData)
	assert.Equal(t, int64(1), st.Geometries)
	// MAX(loaded_at) strips the column decltype, so the timestamp must
	// round-trip through the string form intact.
	assert.True(t, loadedAt.Equal(st.LastLoadedAt), "got %v", st.LastLoadedAt)
}

func TestSQLiteStore_Loads(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, kind := range []string{"tracts", "geometries", "tracts"} {
		require.NoError(t, s.AppendLoad(ctx, model.LoadRecord{
			ID:       uuid.NewString(),
			Year:     2015 + i,
			Kind:     kind,
			Rows:     int64(100 * (i + 1)),
			Source:   "src",
			Duration: time.Duration(i+1) * time.Second,
			LoadedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	recs, err := s.Loads(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	// Most recent first.
	assert.Equal(t, 2017, recs[0].Year)
	assert.Equal(t, int64(300), recs[0].Rows)
	assert.Equal(t, 3*time.Second, recs[0].Duration)
	assert.True(t, base.Add(2*time.Hour).Equal(recs[0].LoadedAt))
	assert.Equal(t, 2016, recs[1].Year)
}
