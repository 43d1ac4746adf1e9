package nasapower

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/yanqian/solarcook/internal/domain/weather"
	"github.com/yanqian/solarcook/internal/infra/httpretry"
)

const (
	defaultBaseURL = "https://power.larc.nasa.gov/api/temporal/hourly/point"
	parameter      = "ALLSKY_SFC_SW_DWN"
)

// Client fetches hourly all-sky surface shortwave irradiance from NASA POWER.
type Client struct {
	baseURL string
	client  *httpretry.Client
}

// NewClient builds the NASA POWER adapter.
func NewClient(baseURL string, client *httpretry.Client) *Client {
	u := strings.TrimSpace(baseURL)
	if u == "" {
		u = defaultBaseURL
	}
	return &Client{baseURL: u, client: client}
}

type pointResponse struct {
	Properties struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
}

// Hourly implements weather.IrradianceClient. date is YYYYMMDD.
func (c *Client) Hourly(ctx context.Context, lat, lon float64, date string) (weather.HourlyIrradiance, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("start", date)
	params.Set("end", date)
	params.Set("parameters", parameter)
	params.Set("community", "re")
	params.Set("format", "json")

	var raw pointResponse
	if err := c.client.GetJSON(ctx, c.baseURL+"?"+params.Encode(), &raw); err != nil {
		return nil, err
	}
	return weather.HourlyIrradiance(raw.Properties.Parameter[parameter]), nil
}

var _ weather.IrradianceClient = (*Client)(nil)
