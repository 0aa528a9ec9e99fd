package export

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/fuelatlas/fuelatlas/internal/fuel"
	"github.com/fuelatlas/fuelatlas/internal/summary"
)

// WriteXLSX writes the per-state summary workbook: one row per state with
// tract counts, housing units, and dominant-tract counts per display
// category.
func WriteXLSX(path string, year int, states []summary.StateSummary) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("States " + strconv.Itoa(year))
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"State", "Name", "Tracts", "Valid", "Housing Units", "Leading Fuel"} {
		header.AddCell().SetString(h)
	}
	for _, cat := range fuel.SimplifiedOrder {
		header.AddCell().SetString(cat.Label())
	}

	for _, st := range states {
		row := sheet.AddRow()
		row.AddCell().SetString(st.StateAbbr)
		row.AddCell().SetString(st.StateName)
		row.AddCell().SetInt(st.Tracts)
		row.AddCell().SetInt(st.Valid)
		row.AddCell().SetInt64(st.TotalUnits)
		row.AddCell().SetString(st.LeadingFuel.Label())
		for _, cat := range fuel.SimplifiedOrder {
			row.AddCell().SetInt(st.DominantTracts[cat])
		}
	}

	if err := file.Save(path); err != nil {
		return eris.Wrap(err, "export: save workbook")
	}
	return nil
}
