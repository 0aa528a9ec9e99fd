package render

import (
	"image/color"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/fuelatlas/fuelatlas/internal/fuel"
)

// swatch fills one legend color box with a thin gray border, so the light
// No_Fuel_Missing entry stays visible on white.
func swatch(c draw.Canvas, x, y, w, h vg.Length, col color.Color) {
	var path vg.Path
	path.Move(vg.Point{X: x, Y: y})
	path.Line(vg.Point{X: x + w, Y: y})
	path.Line(vg.Point{X: x + w, Y: y + h})
	path.Line(vg.Point{X: x, Y: y + h})
	path.Close()

	c.Push()
	c.SetColor(col)
	c.Fill(path)
	c.Pop()

	c.SetLineStyle(draw.LineStyle{Color: color.Gray{Y: 120}, Width: vg.Points(0.4)})
	c.Stroke(path)
}

// drawLegendVertical stacks one entry per display category from top to
// bottom, for the right-hand legend block of the single-map layout.
func drawLegendVertical(c draw.Canvas) {
	sty := textStyle(vg.Points(14), xfont.WeightNormal, text.XLeft, text.YCenter)

	const (
		boxW = vg.Length(22)
		boxH = vg.Length(14)
		gap  = vg.Length(10)
	)
	rowH := boxH + gap
	top := c.Min.Y + (c.Max.Y-c.Min.Y+rowH*vg.Length(len(fuel.SimplifiedOrder)))/2

	for i, cat := range fuel.SimplifiedOrder {
		y := top - vg.Length(i+1)*rowH
		swatch(c, c.Min.X, y, boxW, boxH, fuel.Palette[cat])
		c.FillText(sty, vg.Point{X: c.Min.X + boxW + vg.Points(6), Y: y + boxH/2}, cat.Label())
	}
}

// drawLegendHorizontal lays the categories out in one row, centered, for the
// shared legend under the multi-vintage grid.
func drawLegendHorizontal(c draw.Canvas) {
	sty := textStyle(vg.Points(13), xfont.WeightNormal, text.XLeft, text.YCenter)

	const (
		boxW = vg.Length(20)
		boxH = vg.Length(13)
		gap  = vg.Length(24)
	)

	// Measure total row width so the legend can be centered.
	var total vg.Length
	widths := make([]vg.Length, len(fuel.SimplifiedOrder))
	for i, cat := range fuel.SimplifiedOrder {
		widths[i] = boxW + vg.Points(5) + sty.Width(cat.Label())
		total += widths[i]
		if i > 0 {
			total += gap
		}
	}

	x := c.Min.X + (c.Max.X-c.Min.X-total)/2
	y := c.Min.Y + (c.Max.Y-c.Min.Y-boxH)/2
	for i, cat := range fuel.SimplifiedOrder {
		swatch(c, x, y, boxW, boxH, fuel.Palette[cat])
		c.FillText(sty, vg.Point{X: x + boxW + vg.Points(5), Y: y + boxH/2}, cat.Label())
		x += widths[i] + gap
	}
}
