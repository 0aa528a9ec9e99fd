// Package pipeline orchestrates the per-vintage load: parse the NHGIS CSV,
// classify every tract, read the boundary shapefile, and persist both.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/fuelatlas/fuelatlas/internal/fuel"
	"github.com/fuelatlas/fuelatlas/internal/model"
	"github.com/fuelatlas/fuelatlas/internal/nhgis"
	"github.com/fuelatlas/fuelatlas/internal/shape"
	"github.com/fuelatlas/fuelatlas/internal/store"
)

// Pipeline runs loads against a store.
type Pipeline struct {
	store store.Store
}

// New creates a pipeline on top of the given store.
func New(st store.Store) *Pipeline {
	return &Pipeline{store: st}
}

// Result summarizes one vintage load.
type Result struct {
	Year       int
	Tracts     int64
	Geometries int64
	Valid      int64
	Ties       int64
	NoData     int64
	Skipped    bool
}

// Options controls a process run.
type Options struct {
	// KeepExisting skips vintages that already have rows in the store
	// instead of replacing them.
	KeepExisting bool
}

// ProcessYear loads one vintage from its raw CSV and tract shapefile.
func (p *Pipeline) ProcessYear(ctx context.Context, year int, csvPath, shpPath string, opts Options) (Result, error) {
	log := zap.L().With(zap.Int("year", year))

	if opts.KeepExisting {
		loaded, err := p.yearLoaded(ctx, year)
		if err != nil {
			return Result{}, err
		}
		if loaded {
			log.Info("vintage already loaded, keeping existing rows")
			return Result{Year: year, Skipped: true}, nil
		}
	}

	vintage, err := nhgis.VintageFor(year)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	tracts, err := nhgis.ParseFile(ctx, csvPath, vintage)
	if err != nil {
		return Result{}, err
	}

	res := Result{Year: year}
	for _, t := range tracts {
		switch {
		case t.Class.Quality != fuel.QualityValid:
			res.NoData++
		case t.Class.HasTie:
			res.Ties++
		default:
			res.Valid++
		}
	}

	res.Tracts, err = p.store.ReplaceTracts(ctx, year, tracts)
	if err != nil {
		return Result{}, err
	}
	if err := p.logLoad(ctx, year, "tracts", res.Tracts, csvPath, start); err != nil {
		return Result{}, err
	}
	log.Info("loaded tracts",
		zap.Int64("rows", res.Tracts),
		zap.Int64("valid", res.Valid),
		zap.Int64("ties", res.Ties),
		zap.Int64("no_data", res.NoData),
	)

	start = time.Now()
	geoms, err := shape.ReadTracts(shpPath)
	if err != nil {
		return Result{}, err
	}
	res.Geometries, err = p.store.ReplaceGeometries(ctx, year, geoms)
	if err != nil {
		return Result{}, err
	}
	if err := p.logLoad(ctx, year, "geometries", res.Geometries, shpPath, start); err != nil {
		return Result{}, err
	}
	log.Info("loaded geometries", zap.Int64("rows", res.Geometries))

	return res, nil
}

func (p *Pipeline) yearLoaded(ctx context.Context, year int) (bool, error) {
	statuses, err := p.store.YearStatuses(ctx)
	if err != nil {
		return false, err
	}
	for _, st := range statuses {
		if st.Year == year && st.Tracts > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (p *Pipeline) logLoad(ctx context.Context, year int, kind string, rows int64, source string, start time.Time) error {
	return p.store.AppendLoad(ctx, model.LoadRecord{
		ID:       uuid.NewString(),
		Year:     year,
		Kind:     kind,
		Rows:     rows,
		Source:   filepath.Base(source),
		Duration: time.Since(start),
		LoadedAt: time.Now().UTC(),
	})
}

// Features loads a processed vintage and joins tract records to their
// geometries for rendering and GeoJSON export.
func (p *Pipeline) Features(ctx context.Context, year int) ([]model.Feature, error) {
	tracts, err := p.store.Tracts(ctx, store.TractFilter{Year: year})
	if err != nil {
		return nil, err
	}
	if len(tracts) == 0 {
		return nil, eris.Errorf("pipeline: year %d has not been processed, run `fuelatlas process` first", year)
	}
	geoms, err := p.store.Geometries(ctx, year)
	if err != nil {
		return nil, err
	}
	if len(geoms) == 0 {
		return nil, eris.Errorf("pipeline: year %d has no geometries, run `fuelatlas process` first", year)
	}

	features := store.JoinFeatures(tracts, geoms)

	var unmatched int
	for _, f := range features {
		if f.Tract == nil {
			unmatched++
		}
	}
	zap.L().Debug("joined features",
		zap.Int("year", year),
		zap.Int("features", len(features)),
		zap.Int("shapes_without_tract", unmatched),
		zap.Int("tracts_without_shape", len(tracts)+unmatched-len(features)),
	)
	return features, nil
}
