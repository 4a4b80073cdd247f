package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/markdrayton/densitygrid/geo"
)

// CellKey identifies a cell by its latitude and longitude indices.
type CellKey struct {
	LatIdx int
	LngIdx int
}

// Cell accumulates the points that fall into one grid cell, in input order.
type Cell[P any] struct {
	Count  int
	Points []P
}

// Hash is a sparse grid that remembers the order in which cells were first
// touched. Hashes are built by HashPointsToGrid.
type Hash[P any] struct {
	keys  []CellKey
	cells map[CellKey]*Cell[P]
}

func newHash[P any]() *Hash[P] {
	return &Hash[P]{cells: make(map[CellKey]*Cell[P])}
}

func (h *Hash[P]) Len() int {
	return len(h.keys)
}

func (h *Hash[P]) Get(k CellKey) (*Cell[P], bool) {
	c, ok := h.cells[k]
	return c, ok
}

// Keys returns the occupied cell keys in first-touch order.
func (h *Hash[P]) Keys() []CellKey {
	keys := make([]CellKey, len(h.keys))
	copy(keys, h.keys)
	return keys
}

// Each calls fn for every occupied cell in first-touch order.
func (h *Hash[P]) Each(fn func(k CellKey, c *Cell[P])) {
	for _, k := range h.keys {
		fn(k, h.cells[k])
	}
}

func (h *Hash[P]) add(k CellKey, p P) {
	c, ok := h.cells[k]
	if !ok {
		c = &Cell[P]{Points: []P{}}
		h.cells[k] = c
		h.keys = append(h.keys, k)
	}
	c.Count++
	c.Points = append(c.Points, p)
}

// KeyFor returns the cell containing pos. Points on a boundary belong to the
// cell that starts there.
func KeyFor(pos geo.LngLat, offset geo.GridOffset) CellKey {
	return CellKey{
		LatIdx: int(math.Floor((pos.Lat() + 90) / offset.YOffset)),
		LngIdx: int(math.Floor((pos.Lng() + 180) / offset.XOffset)),
	}
}

// HashPointsToGrid bins points into cells of roughly cellSize meters. The
// longitude width of every cell is fixed by the midpoint of the input's
// latitude range.
//
// An empty input yields an empty hash and a zero offset. A degenerate offset
// (see geo.GridOffset.Valid) yields an empty hash and that offset.
func HashPointsToGrid[P any](points []P, cellSize float64, getPosition func(P) geo.LngLat) (*Hash[P], geo.GridOffset) {
	h := newHash[P]()
	if len(points) == 0 {
		return h, geo.GridOffset{}
	}

	positions := make([]geo.LngLat, len(points))
	lats := make([]float64, len(points))
	for i, p := range points {
		positions[i] = getPosition(p)
		lats[i] = positions[i].Lat()
	}
	centerLat := (floats.Min(lats) + floats.Max(lats)) / 2

	offset := geo.ComputeGridOffset(cellSize, centerLat)
	if !offset.Valid() {
		return h, offset
	}

	for i, p := range points {
		h.add(KeyFor(positions[i], offset), p)
	}
	return h, offset
}
