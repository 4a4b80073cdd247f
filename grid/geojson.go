package grid

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Bound returns the rectangle covered by d's cell.
func (r Result[P]) Bound(d LayerDatum[P]) orb.Bound {
	return orb.Bound{
		Min: orb.Point{d.Position.Lng(), d.Position.Lat()},
		Max: orb.Point{d.Position.Lng() + r.GridOffset.XOffset, d.Position.Lat() + r.GridOffset.YOffset},
	}
}

// FeatureCollection renders every occupied cell as a polygon feature with
// "index" and "count" properties. Member points are not included.
func (r Result[P]) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, d := range r.LayerData {
		f := geojson.NewFeature(r.Bound(d).ToPolygon())
		f.Properties["index"] = d.Index
		f.Properties["count"] = d.Count
		fc.Append(f)
	}
	return fc
}
