package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/markdrayton/densitygrid/geo"
	"github.com/markdrayton/densitygrid/grid"
	"github.com/markdrayton/densitygrid/source"
)

func TestFormat(t *testing.T) {
	rows := []CellRow{
		{D: grid.LayerDatum[source.Point]{Index: 12, Position: geo.LngLat{-0.13, 51.5}, Count: 3}, Total: 4, Place: "London"},
		{D: grid.LayerDatum[source.Point]{Index: 3, Position: geo.LngLat{2.35, 48.85}, Count: 1}, Total: 4},
	}

	lines := NewCellFormatter(columnOpts{}).Format(rows)
	assert.Equal(t, []string{
		" #       Lon       Lat  Count  Share",
		"12  -0.13000  51.50000      3  75.0%",
		" 3   2.35000  48.85000      1  25.0%",
	}, lines)

	lines = NewCellFormatter(columnOpts{places: true}).Format(rows)
	assert.Equal(t, []string{
		" #       Lon       Lat  Count  Share  Place",
		"12  -0.13000  51.50000      3  75.0%  London",
		" 3   2.35000  48.85000      1  25.0%  -",
	}, lines)
}

func TestFormatEmpty(t *testing.T) {
	lines := NewCellFormatter(columnOpts{}).Format(nil)
	assert.Equal(t, []string{"#  Lon  Lat  Count  Share"}, lines)
}

func TestFormatShareWithoutPoints(t *testing.T) {
	assert.Equal(t, "-", formatShare(CellRow{}))
}
