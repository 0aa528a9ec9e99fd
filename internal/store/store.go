// Package store persists processed tract records and their geometries.
// SQLite is the default backend; Postgres is available for shared
// deployments.
package store

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/fuelatlas/fuelatlas/internal/fuel"
	"github.com/fuelatlas/fuelatlas/internal/model"
	"github.com/fuelatlas/fuelatlas/internal/shape"
)

// TractFilter specifies criteria for listing tracts.
type TractFilter struct {
	Year      int
	StateAbbr string
	Dominant  fuel.Category
	Limit     int
	Offset    int
}

// Store defines the persistence interface for the analysis pipeline.
type Store interface {
	// ReplaceTracts atomically replaces all tract records for one vintage.
	ReplaceTracts(ctx context.Context, year int, tracts []model.Tract) (int64, error)

	// ReplaceGeometries atomically replaces all tract geometries for one vintage.
	ReplaceGeometries(ctx context.Context, year int, tracts []shape.Tract) (int64, error)

	// Tracts lists tract records matching the filter, ordered by GISJOIN.
	Tracts(ctx context.Context, filter TractFilter) ([]model.Tract, error)

	// Geometries lists tract geometries for one vintage.
	Geometries(ctx context.Context, year int) ([]shape.Tract, error)

	// YearStatuses summarizes store contents per vintage.
	YearStatuses(ctx context.Context) ([]model.YearStatus, error)

	// AppendLoad records one load-log entry.
	AppendLoad(ctx context.Context, rec model.LoadRecord) error

	// Loads lists load-log entries, most recent first.
	Loads(ctx context.Context, limit int) ([]model.LoadRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// validateVintage rejects a replace batch whose records disagree with the
// vintage being replaced; the delete and the inserts must cover the same year.
func validateVintage(year int, tracts []model.Tract) error {
	for i := range tracts {
		if tracts[i].Year != year {
			return eris.Errorf("store: tract %s carries year %d in a replace of year %d",
				tracts[i].GISJOIN, tracts[i].Year, year)
		}
	}
	return nil
}

// JoinFeatures pairs each geometry with its tract record by GISJOIN.
// Geometry-driven, like the upstream shapefile merge: every geometry becomes
// a feature, and tracts without geometry are dropped here (they still appear
// in tabular exports). Output is sorted by GISJOIN for deterministic
// rendering.
func JoinFeatures(tracts []model.Tract, geoms []shape.Tract) []model.Feature {
	byJoin := make(map[string]*model.Tract, len(tracts))
	for i := range tracts {
		byJoin[tracts[i].GISJOIN] = &tracts[i]
	}

	features := make([]model.Feature, 0, len(geoms))
	for _, g := range geoms {
		features = append(features, model.Feature{
			GISJOIN: g.GISJOIN,
			Geom:    g.Geom,
			Tract:   byJoin[g.GISJOIN],
		})
	}
	sort.Slice(features, func(i, j int) bool { return features[i].GISJOIN < features[j].GISJOIN })
	return features
}
