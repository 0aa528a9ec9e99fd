package shape

import "github.com/twpayne/go-geom"

// ExtendBounds grows b to cover mp, allocating b on first use. Returns the
// (possibly new) bounds so callers can fold over a geometry slice.
func ExtendBounds(b *geom.Bounds, mp *geom.MultiPolygon) *geom.Bounds {
	if mp == nil {
		return b
	}
	if b == nil {
		b = geom.NewBounds(geom.XY)
	}
	return b.Extend(mp)
}

// PadBounds expands bounds on every side by frac of the larger dimension,
// leaving a margin around rendered geometry.
func PadBounds(b *geom.Bounds, frac float64) *geom.Bounds {
	if b == nil {
		return nil
	}
	w := b.Max(0) - b.Min(0)
	h := b.Max(1) - b.Min(1)
	pad := frac * max(w, h)
	out := geom.NewBounds(geom.XY)
	out.Set(b.Min(0)-pad, b.Min(1)-pad, b.Max(0)+pad, b.Max(1)+pad)
	return out
}
