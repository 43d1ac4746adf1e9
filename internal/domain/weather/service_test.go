package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/solarcook/pkg/errors"
)

type stubGeocoder struct {
	loc   Location
	found bool
	err   error
	calls int
}

func (s *stubGeocoder) Geocode(context.Context, string) (Location, bool, error) {
	s.calls++
	return s.loc, s.found, s.err
}

type stubStations struct {
	name string
	err  error
}

func (s *stubStations) StationName(context.Context, float64, float64) (string, error) {
	return s.name, s.err
}

type stubIrradiance struct {
	hourly   HourlyIrradiance
	err      error
	lastDate string
}

func (s *stubIrradiance) Hourly(_ context.Context, _, _ float64, date string) (HourlyIrradiance, error) {
	s.lastDate = date
	return s.hourly, s.err
}

type mapCache struct {
	mu    sync.Mutex
	items map[string]Report
	ttl   time.Duration
}

func (c *mapCache) Get(_ context.Context, key string) (Report, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.items[key]
	return r, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, report Report, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = map[string]Report{}
	}
	c.items[key] = report
	c.ttl = ttl
	return nil
}

type fixture struct {
	geocoder   *stubGeocoder
	stations   *stubStations
	irradiance *stubIrradiance
	cache      *mapCache
	svc        Service
}

func newFixture() *fixture {
	f := &fixture{
		geocoder: &stubGeocoder{
			loc:   Location{Lat: 13.08, Lon: 80.27, FormattedAddress: "Chennai, Tamil Nadu, India"},
			found: true,
		},
		stations: &stubStations{name: "Chennai"},
		irradiance: &stubIrradiance{hourly: HourlyIrradiance{
			"2024060109": 200,
			"2024060110": 300,
		}},
		cache: &mapCache{},
	}
	f.svc = NewService(Config{CacheTTL: time.Hour}, f.geocoder, f.stations, f.irradiance, f.cache, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}

func TestLookupBuildsReport(t *testing.T) {
	f := newFixture()

	report, err := f.svc.Lookup(context.Background(), Request{Place: "Chennai", Date: "2024-06-01"})
	require.NoError(t, err)
	require.Equal(t, "Chennai, Tamil Nadu, India", report.Location)
	require.Equal(t, IrradianceSeries{"9:00": 200, "9:30": 250}, report.SolarRadiation)
	require.Equal(t, "20240601", f.irradiance.lastDate)
	require.Equal(t, time.Hour, f.cache.ttl)
}

func TestLookupUsesCache(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Lookup(context.Background(), Request{Place: "Chennai", Date: "20240601"})
	require.NoError(t, err)
	_, err = f.svc.Lookup(context.Background(), Request{Place: "  chennai ", Date: "2024-06-01"})
	require.NoError(t, err)
	require.Equal(t, 1, f.geocoder.calls)
}

func TestLookupFallsBackToStationName(t *testing.T) {
	f := newFixture()
	f.geocoder.loc.FormattedAddress = ""

	report, err := f.svc.Lookup(context.Background(), Request{Place: "Chennai", Date: "20240601"})
	require.NoError(t, err)
	require.Equal(t, "Chennai", report.Location)
}

func TestLookupErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *fixture)
		req    Request
		code   string
	}{
		{"empty place", func(*fixture) {}, Request{Place: " ", Date: "20240601"}, apperrors.CodeInvalidInput},
		{"bad date", func(*fixture) {}, Request{Place: "Chennai", Date: "01/06/2024"}, apperrors.CodeInvalidInput},
		{"geocoder down", func(f *fixture) { f.geocoder.err = errors.New("status 500") }, Request{Place: "Chennai", Date: "20240601"}, apperrors.CodeProviderUnavailable},
		{"unknown place", func(f *fixture) { f.geocoder.found = false }, Request{Place: "Atlantis", Date: "20240601"}, apperrors.CodeLocationNotFound},
		{"weather down", func(f *fixture) { f.stations.err = errors.New("timeout") }, Request{Place: "Chennai", Date: "20240601"}, apperrors.CodeProviderUnavailable},
		{"irradiance down", func(f *fixture) { f.irradiance.err = errors.New("status 503") }, Request{Place: "Chennai", Date: "20240601"}, apperrors.CodeProviderUnavailable},
		{"no irradiance", func(f *fixture) { f.irradiance.hourly = HourlyIrradiance{} }, Request{Place: "Chennai", Date: "20240601"}, apperrors.CodeNoIrradianceData},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			tc.mutate(f)
			_, err := f.svc.Lookup(context.Background(), tc.req)
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, tc.code), "got %v", err)
			require.Empty(t, f.cache.items)
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	got, err := NormalizeDate("2024-12-31")
	require.NoError(t, err)
	require.Equal(t, "20241231", got)

	got, err = NormalizeDate("20241231")
	require.NoError(t, err)
	require.Equal(t, "20241231", got)

	_, err = NormalizeDate("20241332")
	require.Error(t, err)
}
