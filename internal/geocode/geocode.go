// Package geocode resolves free-form addresses to coordinates.
package geocode

import (
	"context"
	"errors"
	"math"
)

// EarthRadiusMiles is used to turn a search distance into radians.
const EarthRadiusMiles = 3963.0

// ErrNoResult is returned when the provider cannot place an address.
var ErrNoResult = errors.New("geocode: no result for address")

// Result is one geocoded match.
type Result struct {
	Lat              float64
	Lng              float64
	FormattedAddress string
	Street           string
	City             string
	State            string
	Zipcode          string
	Country          string
}

// Geocoder turns an address or postcode into candidate locations, best first.
type Geocoder interface {
	Geocode(ctx context.Context, address string) ([]Result, error)
}

// First returns the best match or ErrNoResult.
func First(ctx context.Context, g Geocoder, address string) (Result, error) {
	res, err := g.Geocode(ctx, address)
	if err != nil {
		return Result{}, err
	}
	if len(res) == 0 {
		return Result{}, ErrNoResult
	}
	return res[0], nil
}

// RadiusRadians converts a distance in miles to an angular radius.
func RadiusRadians(miles float64) float64 {
	return miles / EarthRadiusMiles
}

// DistanceMiles is the great-circle distance between two points.
func DistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(a)))
}
