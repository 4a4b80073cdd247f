package geo

import (
	"math"
)

// EarthRadius is the Earth's radius in meters used to convert a cell size
// into degrees.
const EarthRadius = 6378000

// LngLat is a [longitude, latitude] pair in degrees.
type LngLat [2]float64

func (l LngLat) Lng() float64 {
	return l[0]
}

func (l LngLat) Lat() float64 {
	return l[1]
}

func (l LngLat) IsZero() bool {
	return l.Lat() == 0 && l.Lng() == 0
}

// GridOffset is the angular size of one grid cell.
type GridOffset struct {
	XOffset float64 `json:"xOffset"` // degrees of longitude
	YOffset float64 `json:"yOffset"` // degrees of latitude
}

// Valid reports whether both offsets are strictly positive, i.e. whether a
// grid can be built from them. NaN offsets are not valid. Infinite offsets
// (an infinite cell size) are valid, but every cell anchor computed from them
// is NaN because Inf*0 is NaN.
func (o GridOffset) Valid() bool {
	return o.XOffset > 0 && o.YOffset > 0
}

// ComputeGridOffset returns the angular size of a cellSize meter cell at the
// given latitude. Longitude degrees widen without bound towards the poles and
// turn negative past them; callers must check Valid.
func ComputeGridOffset(cellSize, latitude float64) GridOffset {
	yOffset := rad2deg(cellSize / EarthRadius)
	xOffset := yOffset / math.Cos(deg2rad(latitude))
	return GridOffset{XOffset: xOffset, YOffset: yOffset}
}

func deg2rad(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

func rad2deg(radians float64) float64 {
	return radians * (180 / math.Pi)
}
