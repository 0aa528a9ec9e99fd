// Package nhgis parses raw NHGIS ACS tract extracts into tract records.
package nhgis

import (
	"sort"

	"github.com/rotisserie/eris"
)

// Vintage describes one ACS 5-year dataset release. NHGIS renames the
// heating-fuel table columns every release, so each vintage carries its own
// column prefix, and 2023 switched the GEOID header to GEO_ID.
type Vintage struct {
	Year     int
	Period   string // rolling window, e.g. "2011-2015"
	Dataset  string // NHGIS dataset code, e.g. "ds215_20155"
	Prefix   string // fuel-table column prefix, e.g. "ADQYE"
	GEOIDCol string
}

var vintages = map[int]Vintage{
	2015: {Year: 2015, Period: "2011-2015", Dataset: "ds215_20155", Prefix: "ADQYE", GEOIDCol: "GEOID"},
	2020: {Year: 2020, Period: "2016-2020", Dataset: "ds249_20205", Prefix: "AMVDE", GEOIDCol: "GEOID"},
	2023: {Year: 2023, Period: "2019-2023", Dataset: "ds267_20235", Prefix: "ASUPE", GEOIDCol: "GEO_ID"},
}

// VintageFor returns the dataset description for a survey year.
func VintageFor(year int) (Vintage, error) {
	v, ok := vintages[year]
	if !ok {
		return Vintage{}, eris.Errorf("nhgis: unsupported vintage %d (supported: %v)", year, Years())
	}
	return v, nil
}

// Years returns the supported survey years in ascending order.
func Years() []int {
	ys := make([]int, 0, len(vintages))
	for y := range vintages {
		ys = append(ys, y)
	}
	sort.Ints(ys)
	return ys
}
