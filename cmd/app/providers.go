package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/solarcook/internal/domain/efficiency"
	"github.com/yanqian/solarcook/internal/domain/regressor"
	"github.com/yanqian/solarcook/internal/domain/weather"
	"github.com/yanqian/solarcook/internal/infra/config"
	"github.com/yanqian/solarcook/internal/infra/evalrepo"
	"github.com/yanqian/solarcook/internal/infra/geo/google"
	"github.com/yanqian/solarcook/internal/infra/httpretry"
	"github.com/yanqian/solarcook/internal/infra/modelstore"
	"github.com/yanqian/solarcook/internal/infra/publish"
	"github.com/yanqian/solarcook/internal/infra/solar/nasapower"
	"github.com/yanqian/solarcook/internal/infra/weather/openweather"
	"github.com/yanqian/solarcook/internal/infra/weathercache"
	"github.com/yanqian/solarcook/pkg/metrics"
)

func provideMetrics() *metrics.Metrics {
	return metrics.New()
}

func provideModelSource(cfg *config.Config, logger *slog.Logger) (modelstore.Source, error) {
	if cfg.Models.Source == "s3" {
		s3 := cfg.Models.S3
		return modelstore.NewObjectSource(s3.Endpoint, s3.AccessKey, s3.SecretKey, s3.Bucket, s3.Region, s3.Prefix, logger)
	}
	return modelstore.FileSource{Dir: cfg.Models.Dir}, nil
}

func provideRegistry(cfg *config.Config, src modelstore.Source, m *metrics.Metrics, logger *slog.Logger) (*regressor.Registry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	registry, err := modelstore.LoadRegistry(ctx, src, cfg.Models.Artifacts, m, logger.With("component", "modelstore"))
	if err != nil {
		return nil, fmt.Errorf("load models: %w", err)
	}
	return registry, nil
}

func provideEfficiencyConfig(cfg *config.Config) efficiency.Config {
	e := cfg.Efficiency
	return efficiency.Config{
		IncludePCM: e.IncludePCM,
		Constants: efficiency.Constants{
			WaterSpecificHeat: e.WaterSpecificHeat,
			PlateArea:         e.PlateArea,
			WaterMass:         e.WaterMass,
			PotMass:           e.PotMass,
			PotSpecificHeat:   e.PotSpecificHeat,
			AmbientTemp:       e.AmbientTemp,
			InitialWaterTemp:  e.InitialWaterTemp,
			ExposureSeconds:   e.ExposureSeconds,
			PCMMass:           e.PCMMass,
			PCMSpecificHeat:   e.PCMSpecificHeat,
		},
	}
}

func provideWeatherConfig(cfg *config.Config) weather.Config {
	return weather.Config{CacheTTL: cfg.Cache.TTL}
}

func newProviderClient(name string, p config.ProviderConfig, m *metrics.Metrics, logger *slog.Logger) *httpretry.Client {
	return httpretry.New(httpretry.Options{
		Provider:    name,
		Timeout:     p.Timeout,
		MaxAttempts: p.MaxAttempts,
		BaseBackoff: p.BaseBackoff,
	}, m, logger)
}

func provideGeocoder(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) *google.Geocoder {
	p := cfg.Providers.Geocoding
	return google.NewGeocoder(p.BaseURL, p.APIKey, newProviderClient("geocoding", p, m, logger))
}

func provideStationNamer(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) *openweather.Client {
	p := cfg.Providers.Weather
	return openweather.NewClient(p.BaseURL, p.APIKey, newProviderClient("weather", p, m, logger))
}

func provideIrradianceClient(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) *nasapower.Client {
	p := cfg.Providers.Irradiance
	return nasapower.NewClient(p.BaseURL, newProviderClient("irradiance", p, m, logger))
}

func provideWeatherCache(cfg *config.Config, logger *slog.Logger) (weather.Cache, func()) {
	noop := func() {}
	if !cfg.Cache.Enabled {
		return weathercache.NewMemoryStore(), noop
	}
	opt, err := buildValkeyOptions(cfg.Cache.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return weathercache.NewMemoryStore(), noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return weathercache.NewMemoryStore(), noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		client.Close()
		return weathercache.NewMemoryStore(), noop
	}
	logger.Info("weather valkey cache enabled", "addr", cfg.Cache.Addr)
	return weathercache.NewValkeyStore(client, "weather"), client.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideHistoryRepository(cfg *config.Config, logger *slog.Logger) (efficiency.HistoryRepository, func()) {
	fallback := evalrepo.NewMemoryRepository(0)
	noop := func() {}
	dsn := strings.TrimSpace(cfg.History.DSN)
	if dsn == "" {
		logger.Info("history postgres dsn not set, using memory repository")
		return fallback, noop
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback, noop
	}
	if cfg.History.MaxConns > 0 {
		poolConfig.MaxConns = cfg.History.MaxConns
	}
	if cfg.History.MinConns > 0 {
		poolConfig.MinConns = cfg.History.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback, noop
	}
	repo := evalrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("evaluation schema setup failed, using memory repository", "error", err)
		pool.Close()
		return fallback, noop
	}
	logger.Info("history postgres repository enabled")
	return repo, pool.Close
}

func providePublisher(cfg *config.Config, logger *slog.Logger) (efficiency.Publisher, func()) {
	p := cfg.Publish
	if !p.Enabled {
		return publish.Noop{}, func() {}
	}
	pub, cleanup, err := publish.Connect(publish.ClientConfig{
		Broker:   p.Broker,
		ClientID: p.ClientID,
		Username: p.Username,
		Password: p.Password,
		Topic:    p.Topic,
		QoS:      p.QoS,
	}, logger)
	if err != nil {
		logger.Error("mqtt connect failed, evaluation publishing disabled", "error", err)
		return publish.Noop{}, func() {}
	}
	return pub, cleanup
}
