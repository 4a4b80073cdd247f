package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/markdrayton/densitygrid/geo"
	"golang.org/x/sync/errgroup"
)

const (
	geocodeUrl = "https://maps.googleapis.com/maps/api/geocode/json"
	// The geocoding API has a 50 QPS limit in addition to quotas. The average
	// response time is 100ms so a parallelism of 3 should stay under the cap.
	numWorkers = 3
)

type Client struct {
	APIKey  string
	baseUrl string
	hc      *http.Client
}

func NewClient(APIKey string) *Client {
	return NewClientWithUrl(APIKey, geocodeUrl)
}

// NewClientWithUrl returns a client that sends geocoding requests to baseUrl
// instead of the Google endpoint.
func NewClientWithUrl(APIKey, baseUrl string) *Client {
	return &Client{APIKey, baseUrl, &http.Client{}}
}

type GoogleGeocodeResponse struct {
	Results []GoogleGeocodeResult `json:"results"`
	Status  string                `json:"status"`
}

type GoogleGeocodeResult struct {
	AddressComponents []GoogleAddressComponent `json:"address_components"`
}

type GoogleAddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type GeocodeResult struct {
	LngLat  geo.LngLat            `json:"lnglat"`
	Results []GoogleGeocodeResult `json:"results"`
}

// Place returns the most specific town-like name in the result, or "" if
// there is none.
func (r GeocodeResult) Place() string {
	for _, want := range []string{"locality", "postal_town", "administrative_area_level_2", "country"} {
		for _, res := range r.Results {
			for _, ac := range res.AddressComponents {
				for _, t := range ac.Types {
					if t == want {
						return ac.LongName
					}
				}
			}
		}
	}
	return ""
}

// GeocodePoints reverse geocodes points. Results are in the same order as
// points. Without an API key nothing is looked up and the result is empty.
func (c *Client) GeocodePoints(ctx context.Context, points []geo.LngLat) ([]GeocodeResult, error) {
	if c.APIKey == "" { // not configured
		return []GeocodeResult{}, nil
	}

	group, ctx := errgroup.WithContext(ctx)

	indexes := make(chan int)
	go func() {
		defer close(indexes)
		for i := range points {
			select {
			case indexes <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	n := numWorkers
	if len(points) < numWorkers {
		n = len(points)
	}

	results := make([]GeocodeResult, len(points))
	for i := 0; i < n; i++ {
		group.Go(func() error {
			for idx := range indexes {
				g, err := c.geocode(ctx, points[idx])
				if err != nil {
					return err
				}
				// ZERO_RESULTS returns empty results array
				results[idx] = GeocodeResult{points[idx], g.Results}
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) geocode(ctx context.Context, point geo.LngLat) (GoogleGeocodeResponse, error) {
	var g GoogleGeocodeResponse
	url := fmt.Sprintf("%s?latlng=%f,%f&key=%s", c.baseUrl, point.Lat(), point.Lng(), c.APIKey)
	log.Debugf("geocoding %f,%f", point.Lat(), point.Lng())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return g, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return g, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return g, err
	}

	err = json.Unmarshal(body, &g)
	if err != nil {
		return g, err
	}

	if g.Status != "OK" && g.Status != "ZERO_RESULTS" {
		return g, fmt.Errorf("got non-OK from Google Maps API: %s", g.Status)
	}
	return g, nil
}
