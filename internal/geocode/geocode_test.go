package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mqBody = `{
  "info": {"statuscode": 0, "messages": []},
  "results": [{
    "locations": [{
      "street": "233 Bay State Rd",
      "adminArea5": "Boston",
      "adminArea3": "MA",
      "adminArea1": "US",
      "postalCode": "02215",
      "latLng": {"lat": 42.350204, "lng": -71.105494}
    }]
  }]
}`

func TestMapQuest_Geocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocoding/v1/address", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		assert.Equal(t, "02215", r.URL.Query().Get("location"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(mqBody))
	}))
	defer srv.Close()

	g := NewMapQuest(srv.URL, "k", time.Second)
	res, err := First(context.Background(), g, "02215")
	require.NoError(t, err)

	assert.InDelta(t, 42.350204, res.Lat, 1e-9)
	assert.InDelta(t, -71.105494, res.Lng, 1e-9)
	assert.Equal(t, "233 Bay State Rd, Boston, MA 02215, US", res.FormattedAddress)
	assert.Equal(t, "Boston", res.City)
	assert.Equal(t, "02215", res.Zipcode)
}

func TestMapQuest_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(mqBody))
	}))
	defer srv.Close()

	g := NewMapQuest(srv.URL, "k", time.Second)
	res, err := g.Geocode(context.Background(), "02215")
	require.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestMapQuest_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewMapQuest(srv.URL, "bad", time.Second).Geocode(context.Background(), "x")
	assert.ErrorContains(t, err, "status 403")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMapQuest_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"info":{"statuscode":400,"messages":["Illegal argument"]},"results":[]}`))
	}))
	defer srv.Close()

	_, err := NewMapQuest(srv.URL, "k", time.Second).Geocode(context.Background(), "")
	assert.ErrorContains(t, err, "Illegal argument")
}

func TestFirst_NoResult(t *testing.T) {
	_, err := First(context.Background(), &Static{}, "nowhere")
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestStatic(t *testing.T) {
	g := &Static{
		Known:    map[string]Result{"02118": {Lat: 42.34, Lng: -71.07, City: "Boston"}},
		Fallback: &Result{Lat: 1, Lng: 2},
	}

	r, err := First(context.Background(), g, " 02118 ")
	require.NoError(t, err)
	assert.Equal(t, "Boston", r.City)

	r, err = First(context.Background(), g, "somewhere else")
	require.NoError(t, err)
	assert.Equal(t, "somewhere else", r.FormattedAddress)
	assert.Equal(t, 1.0, r.Lat)
}

func TestRadius(t *testing.T) {
	assert.InDelta(t, 1.0, RadiusRadians(EarthRadiusMiles), 1e-12)
	assert.InDelta(t, 0.0, DistanceMiles(42.35, -71.1, 42.35, -71.1), 1e-9)
	// Boston to Providence is roughly 41 miles.
	assert.InDelta(t, 41, DistanceMiles(42.3601, -71.0589, 41.8240, -71.4128), 2)
}
