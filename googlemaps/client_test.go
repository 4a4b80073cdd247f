package googlemaps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdrayton/densitygrid/geo"
)

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewClientWithUrl("key", ts.URL)
}

func TestGeocodePointsUnconfigured(t *testing.T) {
	c := NewClient("")
	results, err := c.GeocodePoints(context.Background(), []geo.LngLat{{0, 0}})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGeocodePoints(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.URL.Query().Get("key"))
		if r.URL.Query().Get("latlng") == "0.000000,0.000000" {
			fmt.Fprint(w, `{"status": "ZERO_RESULTS", "results": []}`)
			return
		}
		fmt.Fprintf(w, `{"status": "OK", "results": [{"address_components": [
			{"long_name": "Westminster", "short_name": "Westminster", "types": ["neighborhood"]},
			{"long_name": "%s", "short_name": "x", "types": ["postal_town"]}
		]}]}`, r.URL.Query().Get("latlng"))
	})

	points := []geo.LngLat{{-0.1276, 51.5072}, {0, 0}, {2.3522, 48.8566}}
	results, err := c.GeocodePoints(context.Background(), points)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, points[0], results[0].LngLat)
	assert.Equal(t, "51.507200,-0.127600", results[0].Place())
	assert.Empty(t, results[1].Results)
	assert.Equal(t, "", results[1].Place())
	assert.Equal(t, "48.856600,2.352200", results[2].Place())
}

func TestGeocodePointsError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "REQUEST_DENIED", "results": []}`)
	})
	_, err := c.GeocodePoints(context.Background(), []geo.LngLat{{1, 1}, {2, 2}})
	assert.ErrorContains(t, err, "REQUEST_DENIED")
}

func TestPlacePreference(t *testing.T) {
	r := GeocodeResult{Results: []GoogleGeocodeResult{
		{AddressComponents: []GoogleAddressComponent{{LongName: "France", Types: []string{"country", "political"}}}},
		{AddressComponents: []GoogleAddressComponent{{LongName: "Paris", Types: []string{"locality", "political"}}}},
	}}
	assert.Equal(t, "Paris", r.Place())
}
