// Package export writes processed tracts as CSV, GeoJSON, and XLSX.
package export

import (
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/fuelatlas/fuelatlas/internal/fuel"
	"github.com/fuelatlas/fuelatlas/internal/model"
)

// tractRow is the flat CSV schema. Dominant statistics and percentages are
// pointers so sentinel rows export empty cells rather than zeros.
type tractRow struct {
	Year       int    `csv:"year"`
	GISJOIN    string `csv:"gisjoin"`
	GEOID      string `csv:"geoid"`
	FIPS       string `csv:"fips"`
	StateFIPS  string `csv:"state_fips"`
	CountyFIPS string `csv:"county_fips"`
	TractCode  string `csv:"tract_code"`
	StateAbbr  string `csv:"state_abbr"`
	StateName  string `csv:"state_name"`
	CountyName string `csv:"county_name"`

	TotalUnits int64 `csv:"total_units"`

	CountNaturalGas  int64 `csv:"count_natural_gas"`
	CountPropane     int64 `csv:"count_propane"`
	CountElectricity int64 `csv:"count_electricity"`
	CountFuelOil     int64 `csv:"count_fuel_oil"`
	CountCoal        int64 `csv:"count_coal"`
	CountWood        int64 `csv:"count_wood"`
	CountSolar       int64 `csv:"count_solar"`
	CountOther       int64 `csv:"count_other"`
	CountNoFuel      int64 `csv:"count_no_fuel"`

	Quality       string   `csv:"quality"`
	HasTie        bool     `csv:"has_tie"`
	Dominant      string   `csv:"dominant"`
	DominantCount *int64   `csv:"dominant_count"`
	DominantShare *float64 `csv:"dominant_share"`
	Simplified    string   `csv:"simplified"`

	PctNaturalGas  *float64 `csv:"pct_natural_gas"`
	PctPropane     *float64 `csv:"pct_propane"`
	PctElectricity *float64 `csv:"pct_electricity"`
	PctFuelOil     *float64 `csv:"pct_fuel_oil"`
	PctCoal        *float64 `csv:"pct_coal"`
	PctWood        *float64 `csv:"pct_wood"`
	PctSolar       *float64 `csv:"pct_solar"`
	PctOther       *float64 `csv:"pct_other"`
	PctNoFuel      *float64 `csv:"pct_no_fuel"`
}

func toRow(t model.Tract) tractRow {
	row := tractRow{
		Year:       t.Year,
		GISJOIN:    t.GISJOIN,
		GEOID:      t.GEOID,
		FIPS:       t.FIPS,
		StateFIPS:  t.StateFIPS,
		CountyFIPS: t.CountyFIPS,
		TractCode:  t.TractCode,
		StateAbbr:  t.StateAbbr,
		StateName:  t.StateName,
		CountyName: t.CountyName,
		TotalUnits: t.TotalUnits,

		CountNaturalGas:  t.Counts[fuel.NaturalGas],
		CountPropane:     t.Counts[fuel.Propane],
		CountElectricity: t.Counts[fuel.Electricity],
		CountFuelOil:     t.Counts[fuel.FuelOil],
		CountCoal:        t.Counts[fuel.Coal],
		CountWood:        t.Counts[fuel.Wood],
		CountSolar:       t.Counts[fuel.Solar],
		CountOther:       t.Counts[fuel.Other],
		CountNoFuel:      t.Counts[fuel.NoFuel],

		Quality:    string(t.Class.Quality),
		HasTie:     t.Class.HasTie,
		Dominant:   string(t.Class.Dominant),
		Simplified: string(fuel.Simplify(t.Class.Dominant)),
	}
	if t.Class.HasDominant() {
		count, share := t.Class.DominantCount, t.Class.DominantShare
		row.DominantCount, row.DominantShare = &count, &share
	}
	if t.Class.Percent != nil {
		pct := func(cat fuel.Category) *float64 {
			v := t.Class.Percent[cat]
			return &v
		}
		row.PctNaturalGas = pct(fuel.NaturalGas)
		row.PctPropane = pct(fuel.Propane)
		row.PctElectricity = pct(fuel.Electricity)
		row.PctFuelOil = pct(fuel.FuelOil)
		row.PctCoal = pct(fuel.Coal)
		row.PctWood = pct(fuel.Wood)
		row.PctSolar = pct(fuel.Solar)
		row.PctOther = pct(fuel.Other)
		row.PctNoFuel = pct(fuel.NoFuel)
	}
	return row
}

// WriteCSV exports tracts as a header-first CSV document.
func WriteCSV(w io.Writer, tracts []model.Tract) error {
	rows := make([]tractRow, len(tracts))
	for i, t := range tracts {
		rows[i] = toRow(t)
	}
	data, err := csvutil.Marshal(rows)
	if err != nil {
		return eris.Wrap(err, "export: marshal csv")
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "export: write csv")
	}
	return nil
}
