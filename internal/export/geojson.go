package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/fuelatlas/fuelatlas/internal/fuel"
	"github.com/fuelatlas/fuelatlas/internal/model"
)

func hexColor(cat fuel.Simplified) string {
	c := fuel.Palette[cat]
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// WriteGeoJSON exports joined features as a GeoJSON FeatureCollection with
// classification properties and a ready-to-style fill color.
func WriteGeoJSON(w io.Writer, features []model.Feature) error {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(features))}

	for _, f := range features {
		simplified := f.FillCategory()
		props := map[string]any{
			"gisjoin":    f.GISJOIN,
			"simplified": string(simplified),
			"fill":       hexColor(simplified),
		}
		if t := f.Tract; t != nil {
			props["year"] = t.Year
			props["geoid"] = t.GEOID
			props["fips"] = t.FIPS
			props["state"] = t.StateAbbr
			props["county"] = t.CountyName
			props["total_units"] = t.TotalUnits
			props["quality"] = string(t.Class.Quality)
			props["dominant"] = string(t.Class.Dominant)
			if t.Class.HasDominant() {
				props["dominant_count"] = t.Class.DominantCount
				props["dominant_share"] = t.Class.DominantShare
			}
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         f.GISJOIN,
			Geometry:   f.Geom,
			Properties: props,
		})
	}

	if err := json.NewEncoder(w).Encode(&fc); err != nil {
		return eris.Wrap(err, "export: encode geojson")
	}
	return nil
}
