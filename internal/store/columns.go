package store

import (
	"database/sql"
	"strings"

	"github.com/fuelatlas/fuelatlas/internal/fuel"
	"github.com/fuelatlas/fuelatlas/internal/model"
)

// fuelColumn maps a category to its snake_case column suffix.
func fuelColumn(c fuel.Category) string {
	return strings.ToLower(string(c))
}

// tractColumns lists the tracts-table insert columns in order. The order is
// shared by both backends and by tractValues / scanTract.
func tractColumns() []string {
	cols := []string{
		"year", "gisjoin", "geoid", "fips",
		"state_fips", "county_fips", "tract_code",
		"state_abbr", "state_name", "county_name",
		"total_units", "total_missing",
	}
	for _, cat := range fuel.Categories {
		cols = append(cols, "count_"+fuelColumn(cat))
	}
	cols = append(cols, "quality", "has_tie", "dominant", "dominant_count", "dominant_share")
	for _, cat := range fuel.Categories {
		cols = append(cols, "pct_"+fuelColumn(cat))
	}
	return cols
}

// tractValues converts a tract to insert values aligned with tractColumns.
// Dominant statistics and percentages are NULL when unset.
func tractValues(t model.Tract) []any {
	vals := []any{
		t.Year, t.GISJOIN, t.GEOID, t.FIPS,
		t.StateFIPS, t.CountyFIPS, t.TractCode,
		t.StateAbbr, t.StateName, t.CountyName,
		t.TotalUnits, t.TotalMissing,
	}
	for _, cat := range fuel.Categories {
		vals = append(vals, t.Counts[cat])
	}

	var domCount any
	var domShare any
	if t.Class.HasDominant() {
		domCount = t.Class.DominantCount
		domShare = t.Class.DominantShare
	}
	vals = append(vals, string(t.Class.Quality), t.Class.HasTie, string(t.Class.Dominant), domCount, domShare)

	for _, cat := range fuel.Categories {
		if t.Class.Percent == nil {
			vals = append(vals, nil)
		} else {
			vals = append(vals, t.Class.Percent[cat])
		}
	}
	return vals
}

// scanTract reconstructs a tract from a row scan in tractColumns order.
// Works with both database/sql and pgx row scanners.
func scanTract(scan func(dest ...any) error) (model.Tract, error) {
	var t model.Tract
	var quality, dominant string
	var domCount sql.NullInt64
	var domShare sql.NullFloat64
	counts := make([]int64, len(fuel.Categories))
	pcts := make([]sql.NullFloat64, len(fuel.Categories))

	dests := []any{
		&t.Year, &t.GISJOIN, &t.GEOID, &t.FIPS,
		&t.StateFIPS, &t.CountyFIPS, &t.TractCode,
		&t.StateAbbr, &t.StateName, &t.CountyName,
		&t.TotalUnits, &t.TotalMissing,
	}
	for i := range counts {
		dests = append(dests, &counts[i])
	}
	dests = append(dests, &quality, &t.Class.HasTie, &dominant, &domCount, &domShare)
	for i := range pcts {
		dests = append(dests, &pcts[i])
	}

	if err := scan(dests...); err != nil {
		return t, err
	}

	t.Counts = make(fuel.Counts, len(fuel.Categories))
	for i, cat := range fuel.Categories {
		t.Counts[cat] = counts[i]
	}

	t.Class.Quality = fuel.Quality(quality)
	t.Class.Dominant = fuel.Category(dominant)
	if domCount.Valid {
		t.Class.DominantCount = domCount.Int64
	}
	if domShare.Valid {
		t.Class.DominantShare = domShare.Float64
	}
	if t.Class.Quality == fuel.QualityValid {
		t.Class.Percent = make(map[fuel.Category]float64, len(fuel.Categories))
		for i, cat := range fuel.Categories {
			if pcts[i].Valid {
				t.Class.Percent[cat] = pcts[i].Float64
			}
		}
	}
	return t, nil
}
