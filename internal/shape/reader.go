// Package shape reads NHGIS/TIGER boundary shapefiles into go-geom
// geometries for joining, storage, and rendering.
package shape

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// Tract is one census-tract polygon keyed by its NHGIS GISJOIN.
type Tract struct {
	GISJOIN string
	Geom    *geom.MultiPolygon
}

// State is one state boundary polygon for map context.
type State struct {
	Abbr string
	Name string
	Geom *geom.MultiPolygon
}

// stateAbbrFields lists attribute names used for the state postal
// abbreviation across TIGER/NHGIS shapefile releases.
var stateAbbrFields = []string{"STUSAB", "STUSPS", "STATE_ABBR", "STATEABBR"}

// ReadTracts reads a tract boundary shapefile. Records with a missing
// GISJOIN attribute or unusable geometry are skipped and counted.
func ReadTracts(path string) ([]Tract, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "shape: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fieldIdx := indexFields(reader.Fields())
	gisjoinIdx, ok := fieldIdx["gisjoin"]
	if !ok {
		return nil, eris.Errorf("shape: no GISJOIN attribute in %s", path)
	}

	var tracts []Tract
	var skipped int
	for reader.Next() {
		_, s := reader.Shape()

		gisjoin := attribute(reader, gisjoinIdx)
		mp := toMultiPolygon(s)
		if gisjoin == "" || mp == nil {
			skipped++
			continue
		}
		tracts = append(tracts, Tract{GISJOIN: gisjoin, Geom: mp})
	}

	if skipped > 0 {
		zap.L().Debug("shape: skipped tract records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return tracts, nil
}

// ReadStates reads a state boundary shapefile, detecting the abbreviation
// attribute across naming variants.
func ReadStates(path string) ([]State, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "shape: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fieldIdx := indexFields(reader.Fields())

	abbrIdx := -1
	for _, cand := range stateAbbrFields {
		if idx, ok := fieldIdx[strings.ToLower(cand)]; ok {
			abbrIdx = idx
			break
		}
	}
	if abbrIdx < 0 {
		return nil, eris.Errorf("shape: no state abbreviation attribute in %s (tried %v)", path, stateAbbrFields)
	}
	nameIdx, hasName := fieldIdx["name"]
	if !hasName {
		nameIdx, hasName = fieldIdx["state"]
	}

	var states []State
	var skipped int
	for reader.Next() {
		_, s := reader.Shape()

		mp := toMultiPolygon(s)
		abbr := attribute(reader, abbrIdx)
		if abbr == "" || mp == nil {
			skipped++
			continue
		}
		st := State{Abbr: abbr, Geom: mp}
		if hasName {
			st.Name = attribute(reader, nameIdx)
		}
		states = append(states, st)
	}

	if skipped > 0 {
		zap.L().Debug("shape: skipped state records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return states, nil
}

// indexFields builds a case-insensitive attribute name to index map.
func indexFields(fields []shp.Field) map[string]int {
	m := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		m[strings.ToLower(name)] = i
	}
	return m
}

// attribute reads a DBF attribute, trimming NUL padding and whitespace.
func attribute(r *shp.Reader, idx int) string {
	return strings.TrimSpace(strings.TrimRight(r.Attribute(idx), "\x00"))
}

// toMultiPolygon converts a shapefile Polygon to a go-geom MultiPolygon
// with SRID 4326. Non-polygon or empty shapes return nil.
func toMultiPolygon(s shp.Shape) *geom.MultiPolygon {
	p, ok := s.(*shp.Polygon)
	if !ok || p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)
	mp.SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("shape: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("shape: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
