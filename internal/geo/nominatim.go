// Package geo provides the reverse-geocoding adapter used during pin
// creation. Lookups go to a Nominatim instance and are strictly best-effort:
// the pin service logs failures and carries on without address data.
package geo

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Location is the address data a reverse lookup resolves for a coordinate.
type Location struct {
	City    string
	State   string
	Country string
}

// Reverser resolves a lat/long pair to address data.
type Reverser interface {
	Reverse(ctx context.Context, lat, lon float64) (Location, error)
}

// nominatimAddress mirrors the address object of a Nominatim jsonv2 response.
// City-level naming varies by region, so Town and Municipality are fallbacks.
type nominatimAddress struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Municipality string `json:"municipality"`
	State        string `json:"state"`
	Country      string `json:"country"`
}

type nominatimResponse struct {
	Address nominatimAddress `json:"address"`
}

// NominatimClient implements Reverser against the Nominatim HTTP API.
type NominatimClient struct {
	http *resty.Client
}

// NewNominatimClient constructs a client for the given base URL
// (e.g. https://nominatim.openstreetmap.org). Nominatim's usage policy
// requires an identifying User-Agent.
func NewNominatimClient(baseURL, userAgent string) *NominatimClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept-Language", "en").
		SetTimeout(5 * time.Second)
	return &NominatimClient{http: c}
}

// Reverse looks up the address for a coordinate pair.
func (c *NominatimClient) Reverse(ctx context.Context, lat, lon float64) (Location, error) {
	var out nominatimResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"format": "jsonv2",
			"lat":    fmt.Sprintf("%f", lat),
			"lon":    fmt.Sprintf("%f", lon),
		}).
		SetResult(&out).
		Get("/reverse")
	if err != nil {
		return Location{}, fmt.Errorf("geo.NominatimClient.Reverse: %w", err)
	}
	if resp.IsError() {
		return Location{}, fmt.Errorf("geo.NominatimClient.Reverse: status %d", resp.StatusCode())
	}

	loc := Location{
		City:    out.Address.City,
		State:   out.Address.State,
		Country: out.Address.Country,
	}
	if loc.City == "" {
		loc.City = out.Address.Town
	}
	if loc.State == "" {
		loc.State = out.Address.Municipality
	}
	return loc, nil
}
