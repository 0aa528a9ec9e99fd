// Package model holds the core domain types shared across the pipeline.
package model

import (
	"time"

	"github.com/twpayne/go-geom"

	"github.com/fuelatlas/fuelatlas/internal/fuel"
)

// Tract is one processed (tract, survey-vintage) record: geographic
// identifiers, raw housing-unit counts, and the derived dominant-fuel
// classification. Tracts are derived once and never mutated.
type Tract struct {
	Year int

	GISJOIN    string
	GEOID      string
	FIPS       string // 11-digit tract FIPS, last 11 chars of GEOID
	StateFIPS  string
	CountyFIPS string
	TractCode  string
	StateAbbr  string
	StateName  string
	CountyName string

	TotalUnits   int64
	TotalMissing bool
	Counts       fuel.Counts

	Class fuel.Classification
}

// Feature pairs a tract geometry with its survey record. Geometry-driven:
// every shapefile polygon for the vintage becomes a Feature, and Tract is
// nil when no survey record matched the GISJOIN.
type Feature struct {
	GISJOIN string
	Geom    *geom.MultiPolygon
	Tract   *Tract
}

// StateAbbr returns the feature's state abbreviation, empty when unmatched.
func (f Feature) StateAbbr() string {
	if f.Tract == nil {
		return ""
	}
	return f.Tract.StateAbbr
}

// FillCategory returns the simplified display category for the feature;
// unmatched geometries render as No_Fuel_Missing.
func (f Feature) FillCategory() fuel.Simplified {
	if f.Tract == nil {
		return fuel.SimpleNoFuelMissing
	}
	return fuel.Simplify(f.Tract.Class.Dominant)
}

// LoadRecord is one entry in the load log, written after each successful
// process run.
type LoadRecord struct {
	ID       string
	Year     int
	Kind     string // "tracts" or "geometries"
	Rows     int64
	Source   string
	Duration time.Duration
	LoadedAt time.Time
}

// YearStatus summarizes the store contents for one vintage.
type YearStatus struct {
	Year         int
	Tracts       int64
	Valid        int64
	Ties         int64
	NoData       int64
	Geometries   int64
	LastLoadedAt time.Time
}
