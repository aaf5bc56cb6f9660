package geocode

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const DefaultMapQuestURL = "https://www.mapquestapi.com"

// MapQuest calls the MapQuest geocoding API.
type MapQuest struct {
	http   *httpClient
	apiKey string
}

func NewMapQuest(baseURL, apiKey string, timeout time.Duration) *MapQuest {
	if baseURL == "" {
		baseURL = DefaultMapQuestURL
	}
	return &MapQuest{
		http:   newHTTPClient("mapquest", strings.TrimRight(baseURL, "/"), timeout),
		apiKey: apiKey,
	}
}

type mqResponse struct {
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
	Results []struct {
		Locations []mqLocation `json:"locations"`
	} `json:"results"`
}

type mqLocation struct {
	Street     string `json:"street"`
	AdminArea5 string `json:"adminArea5"` // city
	AdminArea3 string `json:"adminArea3"` // state
	AdminArea1 string `json:"adminArea1"` // country
	PostalCode string `json:"postalCode"`
	LatLng     struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"latLng"`
}

func (m *MapQuest) Geocode(ctx context.Context, address string) ([]Result, error) {
	q := url.Values{}
	q.Set("key", m.apiKey)
	q.Set("location", address)
	q.Set("maxResults", "5")

	resp, err := m.http.get(ctx, "/geocoding/v1/address", q)
	if err != nil {
		return nil, fmt.Errorf("mapquest geocode: %w", err)
	}
	if !resp.isSuccess() {
		return nil, fmt.Errorf("mapquest geocode: status %d", resp.StatusCode)
	}

	var body mqResponse
	if err := resp.decode(&body); err != nil {
		return nil, fmt.Errorf("mapquest geocode: decode: %w", err)
	}
	if body.Info.StatusCode != 0 {
		return nil, fmt.Errorf("mapquest geocode: %s", strings.Join(body.Info.Messages, "; "))
	}

	var out []Result
	for _, r := range body.Results {
		for _, l := range r.Locations {
			out = append(out, l.result())
		}
	}
	return out, nil
}

func (l mqLocation) result() Result {
	parts := make([]string, 0, 4)
	for _, p := range []string{l.Street, l.AdminArea5, strings.TrimSpace(l.AdminArea3 + " " + l.PostalCode), l.AdminArea1} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return Result{
		Lat:              l.LatLng.Lat,
		Lng:              l.LatLng.Lng,
		FormattedAddress: strings.Join(parts, ", "),
		Street:           l.Street,
		City:             l.AdminArea5,
		State:            l.AdminArea3,
		Zipcode:          l.PostalCode,
		Country:          l.AdminArea1,
	}
}
