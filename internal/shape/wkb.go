package shape

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

// EncodeWKB serializes a MultiPolygon to EWKB bytes (SRID 4326, little
// endian) for storage. Nil geometries encode to nil.
func EncodeWKB(mp *geom.MultiPolygon) ([]byte, error) {
	if mp == nil {
		return nil, nil
	}
	data, err := ewkb.Marshal(mp, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "shape: encode EWKB")
	}
	return data, nil
}

// DecodeWKB deserializes EWKB bytes back into a MultiPolygon.
func DecodeWKB(data []byte) (*geom.MultiPolygon, error) {
	if len(data) == 0 {
		return nil, nil
	}
	g, err := ewkb.Unmarshal(data)
	if err != nil {
		return nil, eris.Wrap(err, "shape: decode EWKB")
	}
	mp, ok := g.(*geom.MultiPolygon)
	if !ok {
		return nil, eris.Errorf("shape: expected MultiPolygon, got %T", g)
	}
	return mp, nil
}
