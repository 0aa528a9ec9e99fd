// Package render draws national choropleth maps of dominant heating fuel
// from joined tract features.
package render

import (
	"image/color"
	"math"

	"github.com/twpayne/go-geom"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// geoCanvas maps lon/lat onto a drawing canvas with a uniform scale
// (equirectangular, no projection), content centered in the panel.
type geoCanvas struct {
	draw.Canvas
	bounds *geom.Bounds
	scale  float64
	offX   vg.Length
	offY   vg.Length
}

func newGeoCanvas(c draw.Canvas, b *geom.Bounds) *geoCanvas {
	w := b.Max(0) - b.Min(0)
	h := b.Max(1) - b.Min(1)
	scale := math.Min(
		float64(c.Max.X-c.Min.X)/w,
		float64(c.Max.Y-c.Min.Y)/h,
	)
	g := &geoCanvas{Canvas: c, bounds: b, scale: scale}
	g.offX = (c.Max.X - c.Min.X - vg.Length(scale*w)) / 2
	g.offY = (c.Max.Y - c.Min.Y - vg.Length(scale*h)) / 2
	return g
}

// point transforms a lon/lat coordinate to canvas coordinates.
func (g *geoCanvas) point(x, y float64) vg.Point {
	return vg.Point{
		X: g.Min.X + g.offX + vg.Length(g.scale*(x-g.bounds.Min(0))),
		Y: g.Min.Y + g.offY + vg.Length(g.scale*(y-g.bounds.Min(1))),
	}
}

// path builds one closed path covering every ring of the multipolygon, so
// interior rings cut holes when filled.
func (g *geoCanvas) path(mp *geom.MultiPolygon) vg.Path {
	var path vg.Path
	for i := 0; i < mp.NumPolygons(); i++ {
		poly := mp.Polygon(i)
		for j := 0; j < poly.NumLinearRings(); j++ {
			ring := poly.LinearRing(j)
			for k := 0; k < ring.NumCoords(); k++ {
				c := ring.Coord(k)
				p := g.point(c[0], c[1])
				if k == 0 {
					path.Move(p)
				} else {
					path.Line(p)
				}
			}
			path.Close()
		}
	}
	return path
}

// fill paints the multipolygon with a solid color and no outline.
func (g *geoCanvas) fill(mp *geom.MultiPolygon, col color.Color) {
	if mp == nil || mp.NumPolygons() == 0 {
		return
	}
	g.Push()
	g.SetColor(col)
	g.Fill(g.path(mp))
	g.Pop()
}

// stroke outlines the multipolygon.
func (g *geoCanvas) stroke(mp *geom.MultiPolygon, sty draw.LineStyle) {
	if mp == nil || mp.NumPolygons() == 0 {
		return
	}
	g.SetLineStyle(sty)
	g.Stroke(g.path(mp))
}
