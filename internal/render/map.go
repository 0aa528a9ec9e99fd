package render

import (
	"image/color"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/fuelatlas/fuelatlas/internal/census"
	"github.com/fuelatlas/fuelatlas/internal/fuel"
	"github.com/fuelatlas/fuelatlas/internal/model"
	"github.com/fuelatlas/fuelatlas/internal/shape"
)

// Options configures map rendering.
type Options struct {
	Title         string
	Width         vg.Length
	Height        vg.Length
	DPI           float64
	AlaskaInset   bool
	ExcludeStates []string
}

var stateOutline = draw.LineStyle{
	Color: color.Black,
	Width: vg.Points(0.5),
}

// panel holds the features and state outlines for one map region.
type panel struct {
	features []model.Feature
	states   []*geom.MultiPolygon
	bounds   *geom.Bounds
}

func (p *panel) add(f model.Feature) {
	p.features = append(p.features, f)
	p.bounds = shape.ExtendBounds(p.bounds, f.Geom)
}

func (p *panel) addState(mp *geom.MultiPolygon) {
	p.states = append(p.states, mp)
	p.bounds = shape.ExtendBounds(p.bounds, mp)
}

// featureState resolves a feature's state abbreviation, falling back to the
// GISJOIN prefix for geometries with no matching survey record.
func featureState(f model.Feature) string {
	if abbr := f.StateAbbr(); abbr != "" {
		return abbr
	}
	stateFIPS, _, _, err := census.ParseGISJOIN(f.GISJOIN)
	if err != nil {
		return ""
	}
	return census.StateAbbrForFIPS(stateFIPS)
}

// splitPanels sorts features and state outlines into the CONUS and Alaska
// panels, dropping excluded states.
func splitPanels(features []model.Feature, states []shape.State, exclude []string) (conus, alaska panel) {
	for _, f := range features {
		switch census.RegionFor(featureState(f), exclude) {
		case census.RegionConus:
			conus.add(f)
		case census.RegionAlaska:
			alaska.add(f)
		}
	}
	for _, st := range states {
		switch census.RegionFor(st.Abbr, exclude) {
		case census.RegionConus:
			conus.addState(st.Geom)
		case census.RegionAlaska:
			alaska.addState(st.Geom)
		}
	}
	return conus, alaska
}

// drawPanel renders one region: tract polygons filled with their category
// color and no outline, then state boundaries stroked on top.
func drawPanel(c draw.Canvas, p panel) {
	if p.bounds == nil {
		return
	}
	gc := newGeoCanvas(c, shape.PadBounds(p.bounds, 0.02))
	for _, f := range p.features {
		gc.fill(f.Geom, fuel.Palette[f.FillCategory()])
	}
	for _, mp := range p.states {
		gc.stroke(mp, stateOutline)
	}
}

// DrawMap renders the single-vintage national choropleth onto dc: CONUS main
// panel, Alaska inset in the lower left, vertical legend block at the right,
// and a bold title across the top.
func DrawMap(dc draw.Canvas, features []model.Feature, states []shape.State, opts Options) error {
	if len(features) == 0 {
		return eris.New("render: no features to draw")
	}

	conus, alaska := splitPanels(features, states, opts.ExcludeStates)
	zap.L().Debug("split map panels",
		zap.Int("conus", len(conus.features)),
		zap.Int("alaska", len(alaska.features)),
	)

	w := dc.Max.X - dc.Min.X
	h := dc.Max.Y - dc.Min.Y

	// Main CONUS panel: left 78% of the figure, below the title band.
	mainc := draw.Crop(dc, 0.02*w, -0.22*w, 0.04*h, -0.10*h)
	drawPanel(mainc, conus)

	// Alaska inset, lower left.
	if opts.AlaskaInset && alaska.bounds != nil {
		insetc := draw.Crop(dc, 0.02*w, -0.76*w, 0.04*h, -0.68*h)
		drawPanel(insetc, alaska)
		labelInset(insetc, "Alaska")
	}

	// Legend block, vertically centered at the right edge.
	legendc := draw.Crop(dc, 0.79*w, -0.01*w, 0.25*h, -0.25*h)
	drawLegendVertical(legendc)

	drawTitle(dc, opts.Title)
	return nil
}

// drawTitle writes a bold centered title across the top of the canvas.
func drawTitle(dc draw.Canvas, title string) {
	if title == "" {
		return
	}
	sty := textStyle(vg.Points(24), xfont.WeightBold, text.XCenter, text.YTop)
	dc.FillText(sty, vg.Point{X: dc.X(0.5), Y: dc.Max.Y - vg.Points(8)}, title)
}

// labelInset writes a small caption under an inset panel.
func labelInset(c draw.Canvas, label string) {
	sty := textStyle(vg.Points(12), xfont.WeightNormal, text.XCenter, text.YBottom)
	c.FillText(sty, vg.Point{X: c.X(0.5), Y: c.Min.Y}, label)
}
