package openweather

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/yanqian/solarcook/internal/domain/weather"
	"github.com/yanqian/solarcook/internal/infra/httpretry"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Client reads current conditions from OpenWeatherMap. Only the station name is used.
type Client struct {
	baseURL string
	apiKey  string
	client  *httpretry.Client
}

// NewClient builds the OpenWeatherMap adapter.
func NewClient(baseURL, apiKey string, client *httpretry.Client) *Client {
	u := strings.TrimSpace(baseURL)
	if u == "" {
		u = defaultBaseURL
	}
	return &Client{baseURL: u, apiKey: apiKey, client: client}
}

type currentWeather struct {
	Name string `json:"name"`
}

// StationName implements weather.StationNamer.
func (c *Client) StationName(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	var raw currentWeather
	if err := c.client.GetJSON(ctx, c.baseURL+"?"+params.Encode(), &raw); err != nil {
		return "", err
	}
	return raw.Name, nil
}

var _ weather.StationNamer = (*Client)(nil)
