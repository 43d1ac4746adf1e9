package google

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/yanqian/solarcook/internal/domain/weather"
	"github.com/yanqian/solarcook/internal/infra/httpretry"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Geocoder resolves place names through the Google Geocoding API.
type Geocoder struct {
	baseURL string
	apiKey  string
	client  *httpretry.Client
}

// NewGeocoder builds a geocoding client.
func NewGeocoder(baseURL, apiKey string, client *httpretry.Client) *Geocoder {
	u := strings.TrimSpace(baseURL)
	if u == "" {
		u = defaultBaseURL
	}
	return &Geocoder{baseURL: u, apiKey: apiKey, client: client}
}

type geocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message"`
	Results      []geocodeResult `json:"results"`
}

type geocodeResult struct {
	FormattedAddress string `json:"formatted_address"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

// Geocode implements weather.Geocoder.
func (g *Geocoder) Geocode(ctx context.Context, place string) (weather.Location, bool, error) {
	params := url.Values{}
	params.Set("address", place)
	params.Set("key", g.apiKey)

	var raw geocodeResponse
	if err := g.client.GetJSON(ctx, g.baseURL+"?"+params.Encode(), &raw); err != nil {
		return weather.Location{}, false, err
	}
	switch raw.Status {
	case "", "OK", "ZERO_RESULTS":
	default:
		return weather.Location{}, false, fmt.Errorf("geocoding status %s: %s", raw.Status, raw.ErrorMessage)
	}
	if len(raw.Results) == 0 {
		return weather.Location{}, false, nil
	}
	first := raw.Results[0]
	return weather.Location{
		Lat:              first.Geometry.Location.Lat,
		Lon:              first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
	}, true, nil
}

var _ weather.Geocoder = (*Geocoder)(nil)
