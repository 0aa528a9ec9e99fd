package nhgis

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/fuelatlas/fuelatlas/internal/census"
	"github.com/fuelatlas/fuelatlas/internal/fuel"
	"github.com/fuelatlas/fuelatlas/internal/model"
)

// fuel-table column suffixes, in ACS table order. 001 is the total.
var fuelSuffixes = map[fuel.Category]string{
	fuel.NaturalGas:  "002",
	fuel.Propane:     "003",
	fuel.Electricity: "004",
	fuel.FuelOil:     "005",
	fuel.Coal:        "006",
	fuel.Wood:        "007",
	fuel.Solar:       "008",
	fuel.Other:       "009",
	fuel.NoFuel:      "010",
}

// ParseFile reads a raw NHGIS extract CSV and returns classified tract
// records for the vintage.
func ParseFile(ctx context.Context, path string, v Vintage) ([]model.Tract, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "nhgis: open extract %s", path)
	}
	defer func() { _ = f.Close() }()

	tracts, err := Parse(ctx, f, v)
	if err != nil {
		return nil, eris.Wrapf(err, "nhgis: parse %s", path)
	}
	return tracts, nil
}

// Parse reads NHGIS extract rows from r. The first row is the header; the
// human-readable description row that NHGIS writes under it is detected by
// its malformed GISJOIN column and skipped. Rows with a missing or malformed
// total are kept and flagged insufficient.
func Parse(ctx context.Context, r io.Reader, v Vintage) ([]model.Tract, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "read header")
	}
	colIdx := mapColumns(header)

	for _, required := range []string{"GISJOIN", v.GEOIDCol, v.Prefix + "001"} {
		if _, ok := colIdx[strings.ToLower(required)]; !ok {
			return nil, eris.Errorf("missing required column %s for vintage %d", required, v.Year)
		}
	}

	log := zap.L().With(zap.Int("vintage", v.Year))

	var tracts []model.Tract
	var skipped int
	for {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "context cancelled")
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		gisjoin := getCol(record, colIdx, "GISJOIN")
		if _, _, _, err := census.ParseGISJOIN(gisjoin); err != nil {
			// NHGIS extracts carry a human-readable description row under
			// the header ("GIS Join Match Code", ...). Anything that is not
			// a well-formed tract GISJOIN is skipped.
			skipped++
			continue
		}

		tracts = append(tracts, buildTract(record, colIdx, v, gisjoin))
	}

	if skipped > 0 {
		log.Debug("nhgis: skipped extract rows", zap.Int("skipped", skipped))
	}

	return tracts, nil
}

func buildTract(record []string, colIdx map[string]int, v Vintage, gisjoin string) model.Tract {
	t := model.Tract{
		Year:       v.Year,
		GISJOIN:    gisjoin,
		GEOID:      getCol(record, colIdx, v.GEOIDCol),
		StateFIPS:  census.NormalizeFIPSState(getCol(record, colIdx, "STATEA")),
		CountyFIPS: census.NormalizeFIPSCounty(getCol(record, colIdx, "COUNTYA")),
		TractCode:  census.NormalizeTractCode(getCol(record, colIdx, "TRACTA")),
		StateAbbr:  getCol(record, colIdx, "STUSAB"),
		StateName:  getCol(record, colIdx, "STATE"),
		CountyName: getCol(record, colIdx, "NAME_E"),
	}
	if t.CountyName == "" {
		t.CountyName = getCol(record, colIdx, "COUNTY")
	}

	if fips, err := census.TractFIPSFromGEOID(t.GEOID); err == nil {
		t.FIPS = fips
	} else {
		t.FIPS = census.CombineTractFIPS(t.StateFIPS, t.CountyFIPS, t.TractCode)
	}

	total := getCol(record, colIdx, v.Prefix+"001")
	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		t.TotalMissing = true
	} else {
		t.TotalUnits = n
	}

	t.Counts = make(fuel.Counts, len(fuelSuffixes))
	for cat, suffix := range fuelSuffixes {
		if c, err := strconv.ParseInt(getCol(record, colIdx, v.Prefix+suffix), 10, 64); err == nil {
			t.Counts[cat] = c
		}
	}

	t.Class = fuel.Classify(t.TotalUnits, t.TotalMissing, t.Counts)
	return t
}

// mapColumns builds a case-insensitive column name to index map.
func mapColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		m[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return m
}

// getCol gets a column value by name from a CSV record, returning empty
// string if not found.
func getCol(record []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[strings.ToLower(name)]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
