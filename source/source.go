package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/markdrayton/densitygrid/geo"
)

// Stdin is the location that reads from standard input.
const Stdin = "-"

// Point is a single input location and the properties of the feature it
// came from.
type Point struct {
	Position   geo.LngLat         `json:"position"`
	Properties geojson.Properties `json:"properties,omitempty"`
}

// Position is the accessor handed to the grid.
func Position(p Point) geo.LngLat {
	return p.Position
}

type Loader struct {
	hc      *http.Client
	workers int
	stdin   io.Reader
}

func NewLoader(workers int) *Loader {
	if workers < 1 {
		workers = 1
	}
	return &Loader{&http.Client{}, workers, os.Stdin}
}

// LoadAll loads every location in parallel and returns their points in
// argument order.
func (l *Loader) LoadAll(ctx context.Context, locations []string) ([]Point, error) {
	sets := make([][]Point, len(locations))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, loc := range locations {
		g.Go(func() error {
			points, err := l.Load(ctx, loc)
			if err == nil {
				sets[i] = points
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	n := 0
	for _, set := range sets {
		n += len(set)
	}
	points := make([]Point, 0, n)
	for _, set := range sets {
		points = append(points, set...)
	}
	return points, nil
}

// Load reads a GeoJSON FeatureCollection from a file, an http(s) URL or
// Stdin.
func (l *Loader) Load(ctx context.Context, location string) ([]Point, error) {
	var data []byte
	var err error
	switch {
	case location == Stdin:
		data, err = io.ReadAll(l.stdin)
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		data, err = l.fetchUrl(ctx, location)
	default:
		data, err = os.ReadFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("couldn't read %s: %w", location, err)
	}

	points, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("couldn't decode %s: %w", location, err)
	}
	log.Debugf("loaded %d points from %s", len(points), location)
	return points, nil
}

func (l *Loader) fetchUrl(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	log.Debug("fetching " + u)
	resp, err := l.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("unexpected HTTP status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func decode(data []byte) ([]Point, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(fc.Features))
	for i, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Point:
			points = append(points, Point{geo.LngLat(g), f.Properties})
		case orb.MultiPoint:
			for _, p := range g {
				points = append(points, Point{geo.LngLat(p), f.Properties})
			}
		default:
			// Only point geometries can be binned
			log.Debugf("skipping feature %d: unsupported geometry %T", i, f.Geometry)
		}
	}
	return points, nil
}
