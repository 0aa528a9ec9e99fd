package render

import (
	"strconv"

	"github.com/rotisserie/eris"
	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/fuelatlas/fuelatlas/internal/model"
	"github.com/fuelatlas/fuelatlas/internal/shape"
)

// YearPanel is one column of the multi-vintage grid figure.
type YearPanel struct {
	Year     int
	Features []model.Feature
}

// DrawGrid renders one column per vintage with a shared horizontal legend
// across the bottom and an overall title.
func DrawGrid(dc draw.Canvas, panels []YearPanel, states []shape.State, opts Options) error {
	if len(panels) == 0 {
		return eris.New("render: no vintages to draw")
	}

	w := dc.Max.X - dc.Min.X
	h := dc.Max.Y - dc.Min.Y
	legendH := 0.10 * h
	colW := w / vg.Length(len(panels))

	for i, p := range panels {
		left := vg.Length(i) * colW
		right := w - left - colW
		colc := draw.Crop(dc,
			left+0.01*w, -right-0.01*w,
			legendH+0.02*h, -0.12*h,
		)

		conus, alaska := splitPanels(p.Features, states, opts.ExcludeStates)
		drawPanel(colc, conus)

		if opts.AlaskaInset && alaska.bounds != nil {
			cw := colc.Max.X - colc.Min.X
			ch := colc.Max.Y - colc.Min.Y
			insetc := draw.Crop(colc, 0, -0.65*cw, 0, -0.65*ch)
			drawPanel(insetc, alaska)
		}

		labelColumn(colc, strconv.Itoa(p.Year))
	}

	legendc := draw.Crop(dc, 0, 0, 0, -(h - legendH))
	drawLegendHorizontal(legendc)

	drawTitle(dc, opts.Title)
	return nil
}

// labelColumn writes the vintage year centered above one grid column.
func labelColumn(c draw.Canvas, label string) {
	sty := textStyle(vg.Points(16), xfont.WeightBold, text.XCenter, text.YBottom)
	c.FillText(sty, vg.Point{X: c.X(0.5), Y: c.Max.Y + vg.Points(4)}, label)
}
