package grid

import (
	"github.com/markdrayton/densitygrid/geo"
)

// LayerDatum describes one occupied cell. Position is the cell's south-west
// corner in degrees.
type LayerDatum[P any] struct {
	Index    int        `json:"index"`
	Position geo.LngLat `json:"position"`
	Count    int        `json:"count"`
	Points   []P        `json:"points"`
}

// Result is the density grid for one set of points.
type Result[P any] struct {
	GridOffset geo.GridOffset  `json:"gridOffset"`
	LayerData  []LayerDatum[P] `json:"layerData"`
}

// Anchor returns the south-west corner of the cell identified by k.
func Anchor(k CellKey, offset geo.GridOffset) geo.LngLat {
	return geo.LngLat{
		-180 + offset.XOffset*float64(k.LngIdx),
		-90 + offset.YOffset*float64(k.LatIdx),
	}
}

// BuildLayerData flattens h into one datum per occupied cell. Indexes follow
// the order in which cells were first touched. Points slices are shared with
// h.
func BuildLayerData[P any](h *Hash[P], offset geo.GridOffset) []LayerDatum[P] {
	data := make([]LayerDatum[P], 0, h.Len())
	h.Each(func(k CellKey, c *Cell[P]) {
		data = append(data, LayerDatum[P]{
			Index:    len(data),
			Position: Anchor(k, offset),
			Count:    c.Count,
			Points:   c.Points,
		})
	})
	return data
}

// PointToDensityGridData bins points into cells of roughly cellSize meters.
// getPosition must return [longitude, latitude] in degrees. Inputs are not
// modified.
func PointToDensityGridData[P any](points []P, cellSize float64, getPosition func(P) geo.LngLat) Result[P] {
	h, offset := HashPointsToGrid(points, cellSize, getPosition)
	return Result[P]{
		GridOffset: offset,
		LayerData:  BuildLayerData(h, offset),
	}
}

// Summary holds aggregate figures for a Result.
type Summary struct {
	Points   int
	Cells    int
	MaxCount int
}

func (r Result[P]) Summary() Summary {
	s := Summary{Cells: len(r.LayerData)}
	for _, d := range r.LayerData {
		s.Points += d.Count
		if d.Count > s.MaxCount {
			s.MaxCount = d.Count
		}
	}
	return s
}
