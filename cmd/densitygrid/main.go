package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path"
	"sort"

	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/markdrayton/densitygrid/geo"
	"github.com/markdrayton/densitygrid/googlemaps"
	"github.com/markdrayton/densitygrid/grid"
	"github.com/markdrayton/densitygrid/source"
)

type densitygrid struct {
	cellSize float64
	output   string
	format   string
	top      int
	geocode  bool
	loader   *source.Loader
	gm       *googlemaps.Client
}

// validate rejects settings that cannot produce a writable grid. Zero or
// negative cell sizes are allowed and give an empty grid.
func (d *densitygrid) validate() error {
	if math.IsNaN(d.cellSize) || math.IsInf(d.cellSize, 0) {
		return fmt.Errorf("cell size must be a finite number of meters, got %v", d.cellSize)
	}
	switch d.format {
	case formatJSON, formatGeoJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q", d.format)
	}
}

func (d *densitygrid) run(ctx context.Context, locations []string) error {
	if err := d.validate(); err != nil {
		return err
	}

	points, err := d.loader.LoadAll(ctx, locations)
	if err != nil {
		return err
	}

	r := grid.PointToDensityGridData(points, d.cellSize, source.Position)
	if len(points) > 0 && !r.GridOffset.Valid() {
		log.Warnf("no grid for cell size %v: offsets %+v", d.cellSize, r.GridOffset)
	}
	s := r.Summary()
	log.Debugf("%d points in %d cells, offsets %+v", s.Points, s.Cells, r.GridOffset)

	rows, err := d.rows(ctx, r)
	if err != nil {
		return err
	}
	for _, line := range NewCellFormatter(columnOpts{places: d.geocode}).Format(rows) {
		fmt.Println(line)
	}

	if d.output == "" {
		return nil
	}
	return writeResult(d.output, d.format, r)
}

// rows orders cells by descending count, keeps the top ones and names them
// if geocoding is enabled.
func (d *densitygrid) rows(ctx context.Context, r grid.Result[source.Point]) ([]CellRow, error) {
	total := r.Summary().Points
	rows := make([]CellRow, 0, len(r.LayerData))
	for _, datum := range r.LayerData {
		rows = append(rows, CellRow{D: datum, Total: total})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].D.Count > rows[j].D.Count
	})
	if d.top > 0 && len(rows) > d.top {
		rows = rows[:d.top]
	}

	if !d.geocode {
		return rows, nil
	}
	centers := make([]geo.LngLat, 0, len(rows))
	for _, row := range rows {
		centers = append(centers, cellCenter(row.D.Position, r.GridOffset))
	}
	results, err := d.gm.GeocodePoints(ctx, centers)
	if err != nil {
		return nil, fmt.Errorf("couldn't geocode cells: %w", err)
	}
	for i, res := range results {
		rows[i].Place = res.Place()
	}
	return rows, nil
}

func cellCenter(pos geo.LngLat, offset geo.GridOffset) geo.LngLat {
	return geo.LngLat{pos.Lng() + offset.XOffset/2, pos.Lat() + offset.YOffset/2}
}

// addConfigFlags defines the flags that can also be set in the config file.
func addConfigFlags(flags *flag.FlagSet) {
	flags.Float64P("cell-size", "s", 1000, "cell size in meters")
	flags.StringP("format", "f", formatJSON, "output format: json or geojson")
	flags.IntP("top", "n", 0, "only print the n densest cells")
}

// readConfig loads configFile into v. Flags set on the command line take
// precedence over the file; a missing file leaves the defaults in place.
func readConfig(v *viper.Viper, flags *flag.FlagSet, configFile string) error {
	v.SetConfigFile(configFile)
	v.SetDefault("cell_size", 1000)
	v.SetDefault("format", formatJSON)
	v.SetDefault("top", 0)
	v.SetDefault("workers", 4)
	v.SetDefault("google_api_key", "")
	for key, name := range map[string]string{
		"cell_size": "cell-size",
		"format":    "format",
		"top":       "top",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}
	err := v.ReadInConfig()
	if errors.Is(err, fs.ErrNotExist) {
		log.Debugf("no config at %s, using defaults", configFile)
		return nil
	}
	return err
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <file|url|-> ...\n", os.Args[0])
		flag.PrintDefaults()
	}
	var configFile *string = flag.StringP("config", "c", "", "config file (default ~/.densitygrid/config.toml)")
	addConfigFlags(flag.CommandLine)
	var output *string = flag.StringP("output", "o", "", "write the grid to this file")
	var geocode *bool = flag.BoolP("geocode", "g", false, "name the printed cells with Google Maps")
	var verbose *bool = flag.BoolP("verbose", "v", false, "debug logging")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if *configFile == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to determine home directory")
		}
		*configFile = path.Join(homeDir, ".densitygrid", "config.toml")
	}
	if err := readConfig(viper.GetViper(), flag.CommandLine, *configFile); err != nil {
		log.Fatalf("Couldn't read config: %s", err)
	}

	d := densitygrid{
		viper.GetFloat64("cell_size"),
		*output,
		viper.GetString("format"),
		viper.GetInt("top"),
		*geocode,
		source.NewLoader(viper.GetInt("workers")),
		googlemaps.NewClient(viper.GetString("google_api_key")),
	}
	if *geocode && d.gm.APIKey == "" {
		log.Warn("geocoding requested but google_api_key is not configured")
	}

	if err := d.run(context.Background(), flag.Args()); err != nil {
		log.Fatalf("fatal error: %s", err)
	}
}
