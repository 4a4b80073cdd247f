package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/markdrayton/densitygrid/grid"
	"github.com/markdrayton/densitygrid/source"
)

type alignment int

const (
	alignLeft alignment = iota
	alignRight
)

const alwaysShow bool = true

type columnOpts struct {
	places bool
}

// CellRow is one printed cell. Total is the number of binned points, used
// for the share column.
type CellRow struct {
	D     grid.LayerDatum[source.Point]
	Place string
	Total int
}

type column struct {
	header string
	align  alignment
	show   bool
	format func(cr CellRow) string
}

type CellFormatter struct {
	columns []column
}

func NewCellFormatter(opts columnOpts) *CellFormatter {
	return &CellFormatter{
		columns: []column{
			{"#", alignRight, alwaysShow, formatIndex},
			{"Lon", alignRight, alwaysShow, formatLng},
			{"Lat", alignRight, alwaysShow, formatLat},
			{"Count", alignRight, alwaysShow, formatCount},
			{"Share", alignRight, alwaysShow, formatShare},
			{"Place", alignLeft, opts.places, formatPlace},
		},
	}
}

func (cf *CellFormatter) headers() []string {
	headers := make([]string, 0, len(cf.columns))
	for _, col := range cf.columns {
		headers = append(headers, col.header)
	}
	return headers
}

func (cf *CellFormatter) formatRow(cr CellRow) []string {
	cols := make([]string, 0, len(cf.columns))
	for _, col := range cf.columns {
		cols = append(cols, col.format(cr))
	}
	return cols
}

func (cf *CellFormatter) formatColumns(cols []string, widths []int) string {
	vals := make([]string, 0, len(cols))
	for i, col := range cf.columns {
		if col.show {
			pattern := "%*s" // alignRight
			if col.align == alignLeft {
				pattern = "%-*s"
			}
			vals = append(vals, fmt.Sprintf(pattern, widths[i], cols[i]))
		}
	}
	return strings.TrimRight(strings.Join(vals, "  "), " ")
}

func (cf *CellFormatter) columnWidths(lines [][]string) []int {
	widths := make([]int, len(cf.columns))
	for _, line := range lines {
		for i, col := range line {
			width := utf8.RuneCountInString(col)
			if width > widths[i] {
				widths[i] = width
			}
		}
	}
	return widths
}

func (cf *CellFormatter) Format(rows []CellRow) []string {
	lines := make([][]string, 0, len(rows)+1)
	lines = append(lines, cf.headers())
	for _, cr := range rows {
		lines = append(lines, cf.formatRow(cr))
	}

	output := make([]string, 0, len(lines))
	widths := cf.columnWidths(lines)
	for _, cols := range lines {
		output = append(output, cf.formatColumns(cols, widths))
	}

	return output
}

func formatIndex(cr CellRow) string {
	return strconv.Itoa(cr.D.Index)
}

func formatLng(cr CellRow) string {
	return fmt.Sprintf("%.5f", cr.D.Position.Lng())
}

func formatLat(cr CellRow) string {
	return fmt.Sprintf("%.5f", cr.D.Position.Lat())
}

func formatCount(cr CellRow) string {
	return strconv.Itoa(cr.D.Count)
}

func formatShare(cr CellRow) string {
	if cr.Total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(cr.D.Count)/float64(cr.Total))
}

func formatPlace(cr CellRow) string {
	if len(cr.Place) > 0 {
		return cr.Place
	} else {
		return "-"
	}
}
