package weather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/yanqian/solarcook/pkg/errors"
	"github.com/yanqian/solarcook/pkg/metrics"
)

// Service resolves a place and date into the irradiance context used by the predictors.
type Service interface {
	Lookup(ctx context.Context, req Request) (Report, error)
}

// Geocoder resolves a free-form place name. found is false when the provider
// returned no match.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (loc Location, found bool, err error)
}

// StationNamer returns the provider's name for the weather station nearest to a point.
type StationNamer interface {
	StationName(ctx context.Context, lat, lon float64) (string, error)
}

// IrradianceClient fetches hourly surface shortwave irradiance for one day.
type IrradianceClient interface {
	Hourly(ctx context.Context, lat, lon float64, date string) (HourlyIrradiance, error)
}

// Cache stores finished reports.
type Cache interface {
	Get(ctx context.Context, key string) (Report, bool, error)
	Set(ctx context.Context, key string, report Report, ttl time.Duration) error
}

type service struct {
	cfg        Config
	geocoder   Geocoder
	stations   StationNamer
	irradiance IrradianceClient
	cache      Cache
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewService wires the weather context domain.
func NewService(cfg Config, geocoder Geocoder, stations StationNamer, irradiance IrradianceClient, cache Cache, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		cfg:        cfg,
		geocoder:   geocoder,
		stations:   stations,
		irradiance: irradiance,
		cache:      cache,
		metrics:    m,
		logger:     logger.With("component", "weather.service"),
	}
}

func (s *service) Lookup(ctx context.Context, req Request) (Report, error) {
	place := strings.TrimSpace(req.Place)
	if place == "" {
		return Report{}, apperrors.Wrap(apperrors.CodeInvalidInput, "place cannot be empty", nil)
	}
	date, err := NormalizeDate(req.Date)
	if err != nil {
		return Report{}, apperrors.Wrap(apperrors.CodeInvalidInput, "date must be formatted as YYYYMMDD or YYYY-MM-DD", err)
	}

	key := cacheKey(place, date)
	if report, ok := s.cached(ctx, key); ok {
		return report, nil
	}

	loc, found, err := s.geocoder.Geocode(ctx, place)
	if err != nil {
		return Report{}, apperrors.Wrap(apperrors.CodeProviderUnavailable, "geocoding provider error", err)
	}
	if !found {
		return Report{}, apperrors.Wrap(apperrors.CodeLocationNotFound, "unable to find location", nil)
	}
	s.logger.Info("place geocoded", "place", place, "lat", loc.Lat, "lon", loc.Lon)

	var (
		station string
		hourly  HourlyIrradiance
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		name, err := s.stations.StationName(gctx, loc.Lat, loc.Lon)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeProviderUnavailable, "failed to fetch weather data", err)
		}
		station = name
		return nil
	})
	g.Go(func() error {
		readings, err := s.irradiance.Hourly(gctx, loc.Lat, loc.Lon, date)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeProviderUnavailable, "failed to fetch solar radiation data", err)
		}
		hourly = readings
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	if len(hourly) == 0 {
		return Report{}, apperrors.Wrap(apperrors.CodeNoIrradianceData, "no solar radiation data available", nil)
	}

	report := Report{
		Location:       firstNonEmpty(loc.FormattedAddress, station, place),
		SolarRadiation: Interpolate(date, hourly),
	}
	s.logger.Info("weather report built", "place", place, "date", date, "entries", len(report.SolarRadiation))

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("weather cache store failed", "key", key, "error", err)
		}
	}
	return report, nil
}

func (s *service) cached(ctx context.Context, key string) (Report, bool) {
	if s.cache == nil {
		return Report{}, false
	}
	report, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("weather cache lookup failed", "key", key, "error", err)
		ok = false
	}
	if !ok {
		s.metrics.CacheMiss()
		return Report{}, false
	}
	s.metrics.CacheHit()
	return report, true
}

// NormalizeDate accepts YYYYMMDD or YYYY-MM-DD and returns YYYYMMDD.
func NormalizeDate(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range []string{"20060102", "2006-01-02"} {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return ts.Format("20060102"), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", raw)
}

func cacheKey(place, date string) string {
	return strings.ToLower(strings.Join(strings.Fields(place), " ")) + "|" + date
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
