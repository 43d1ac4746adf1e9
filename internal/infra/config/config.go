package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Models     ModelsConfig     `yaml:"models"`
	Efficiency EfficiencyConfig `yaml:"efficiency"`
	Providers  ProvidersConfig  `yaml:"providers"`
	Cache      CacheConfig      `yaml:"cache"`
	History    HistoryConfig    `yaml:"history"`
	Publish    PublishConfig    `yaml:"publish"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address         string          `yaml:"address"`
	ReadTimeout     time.Duration   `yaml:"readTimeout"`
	WriteTimeout    time.Duration   `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
	AllowedOrigins  []string        `yaml:"allowedOrigins"`
	RateLimit       RateLimitConfig `yaml:"rateLimit"`
	Retry           RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries of idempotent requests that failed with a 5xx.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// ModelsConfig locates the regressor artifacts.
type ModelsConfig struct {
	// Source is "file" or "s3".
	Source    string            `yaml:"source"`
	Dir       string            `yaml:"dir"`
	S3        S3Config          `yaml:"s3"`
	Artifacts map[string]string `yaml:"artifacts"`
}

// S3Config points at an S3-compatible bucket holding model artifacts.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
}

// EfficiencyConfig holds the cooker constants and the PCM switch.
type EfficiencyConfig struct {
	IncludePCM        bool    `yaml:"includePcm"`
	WaterSpecificHeat float64 `yaml:"waterSpecificHeat"`
	PlateArea         float64 `yaml:"plateArea"`
	WaterMass         float64 `yaml:"waterMass"`
	PotMass           float64 `yaml:"potMass"`
	PotSpecificHeat   float64 `yaml:"potSpecificHeat"`
	AmbientTemp       float64 `yaml:"ambientTemp"`
	InitialWaterTemp  float64 `yaml:"initialWaterTemp"`
	ExposureSeconds   float64 `yaml:"exposureSeconds"`
	PCMMass           float64 `yaml:"pcmMass"`
	PCMSpecificHeat   float64 `yaml:"pcmSpecificHeat"`
}

// ProvidersConfig groups the outbound API settings.
type ProvidersConfig struct {
	Geocoding  ProviderConfig `yaml:"geocoding"`
	Weather    ProviderConfig `yaml:"weather"`
	Irradiance ProviderConfig `yaml:"irradiance"`
}

// ProviderConfig configures one outbound HTTP API.
type ProviderConfig struct {
	BaseURL     string        `yaml:"baseUrl"`
	APIKey      string        `yaml:"apiKey"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
}

// CacheConfig contains connection information for the weather report cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Addr    string        `yaml:"addr"`
	TTL     time.Duration `yaml:"ttl"`
}

// HistoryConfig contains DSN and pooling settings for evaluation history.
type HistoryConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// PublishConfig controls MQTT publication of evaluation records.
type PublishConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"clientId"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Topic    string `yaml:"topic"`
	QoS      byte   `yaml:"qos"`
}

// Load reads configuration from .env, a YAML file and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	setBool(&cfg.HTTP.Retry.Enabled, "HTTP_RETRY_ENABLED")
	setInt(&cfg.HTTP.Retry.MaxAttempts, "HTTP_RETRY_MAX_ATTEMPTS")
	setDuration(&cfg.HTTP.Retry.BaseBackoff, "HTTP_RETRY_BASE_BACKOFF")

	setString(&cfg.Models.Source, "MODELS_SOURCE")
	setString(&cfg.Models.Dir, "MODELS_DIR")
	setString(&cfg.Models.S3.Endpoint, "MODELS_S3_ENDPOINT")
	setString(&cfg.Models.S3.AccessKey, "MODELS_S3_ACCESS_KEY")
	setString(&cfg.Models.S3.SecretKey, "MODELS_S3_SECRET_KEY")
	setString(&cfg.Models.S3.Bucket, "MODELS_S3_BUCKET")
	setString(&cfg.Models.S3.Region, "MODELS_S3_REGION")
	setString(&cfg.Models.S3.Prefix, "MODELS_S3_PREFIX")

	setBool(&cfg.Efficiency.IncludePCM, "EFFICIENCY_INCLUDE_PCM")
	setFloat(&cfg.Efficiency.PCMMass, "EFFICIENCY_PCM_MASS")
	setFloat(&cfg.Efficiency.PCMSpecificHeat, "EFFICIENCY_PCM_SPECIFIC_HEAT")
	setFloat(&cfg.Efficiency.AmbientTemp, "EFFICIENCY_AMBIENT_TEMP")

	setString(&cfg.Providers.Geocoding.APIKey, "GOOGLE_API_KEY")
	setString(&cfg.Providers.Geocoding.BaseURL, "GEOCODING_BASE_URL")
	setString(&cfg.Providers.Weather.APIKey, "OPENWEATHERMAP_API_KEY")
	setString(&cfg.Providers.Weather.BaseURL, "WEATHER_BASE_URL")
	setString(&cfg.Providers.Irradiance.BaseURL, "IRRADIANCE_BASE_URL")

	setBool(&cfg.Cache.Enabled, "CACHE_ENABLED")
	setString(&cfg.Cache.Addr, "CACHE_ADDR")
	setDuration(&cfg.Cache.TTL, "CACHE_TTL")

	setString(&cfg.History.DSN, "HISTORY_POSTGRES_DSN")
	if v := os.Getenv("HISTORY_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.History.MaxConns = int32(parsed)
		}
	}

	setBool(&cfg.Publish.Enabled, "MQTT_ENABLED")
	setString(&cfg.Publish.Broker, "MQTT_BROKER")
	setString(&cfg.Publish.ClientID, "MQTT_CLIENT_ID")
	setString(&cfg.Publish.Username, "MQTT_USERNAME")
	setString(&cfg.Publish.Password, "MQTT_PASSWORD")
	setString(&cfg.Publish.Topic, "MQTT_TOPIC")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	provider := func(baseURL string) ProviderConfig {
		return ProviderConfig{
			BaseURL:     baseURL,
			Timeout:     10 * time.Second,
			MaxAttempts: 3,
			BaseBackoff: 200 * time.Millisecond,
		}
	}
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":8000",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    45 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             40,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 2,
				BaseBackoff: 100 * time.Millisecond,
				Exclude: []string{
					"/api/weather",
					"/api/eval",
				},
			},
		},
		Models: ModelsConfig{
			Source: "file",
			Dir:    "ml_model",
		},
		Efficiency: EfficiencyConfig{
			IncludePCM:        false,
			WaterSpecificHeat: 4186,
			PlateArea:         0.2704,
			WaterMass:         1,
			PotMass:           0.322,
			PotSpecificHeat:   900,
			AmbientTemp:       32,
			InitialWaterTemp:  25,
			ExposureSeconds:   41400,
			PCMMass:           2.0,
			PCMSpecificHeat:   2500,
		},
		Providers: ProvidersConfig{
			Geocoding:  provider("https://maps.googleapis.com/maps/api/geocode/json"),
			Weather:    provider("https://api.openweathermap.org/data/2.5/weather"),
			Irradiance: provider("https://power.larc.nasa.gov/api/temporal/hourly/point"),
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     6 * time.Hour,
		},
		History: HistoryConfig{
			MaxConns: 4,
		},
		Publish: PublishConfig{
			ClientID: "solarcook-api",
			Topic:    "solarcook/evaluations",
			QoS:      1,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	switch c.Models.Source {
	case "file":
		if strings.TrimSpace(c.Models.Dir) == "" {
			return errors.New("models.dir cannot be empty when models.source is file")
		}
	case "s3":
		if strings.TrimSpace(c.Models.S3.Endpoint) == "" || strings.TrimSpace(c.Models.S3.Bucket) == "" {
			return errors.New("models.s3.endpoint and models.s3.bucket are required when models.source is s3")
		}
	default:
		return fmt.Errorf("models.source must be file or s3, got %q", c.Models.Source)
	}
	if c.Efficiency.ExposureSeconds <= 0 {
		return errors.New("efficiency.exposureSeconds must be positive")
	}
	if c.Efficiency.PlateArea <= 0 {
		return errors.New("efficiency.plateArea must be positive")
	}
	if c.Efficiency.PCMMass < 0 || c.Efficiency.PCMSpecificHeat < 0 {
		return errors.New("efficiency pcm parameters cannot be negative")
	}
	for name, p := range map[string]ProviderConfig{
		"geocoding":  c.Providers.Geocoding,
		"weather":    c.Providers.Weather,
		"irradiance": c.Providers.Irradiance,
	} {
		if strings.TrimSpace(p.BaseURL) == "" {
			return fmt.Errorf("providers.%s.baseUrl cannot be empty", name)
		}
		if p.Timeout <= 0 {
			return fmt.Errorf("providers.%s.timeout must be positive", name)
		}
		if p.MaxAttempts <= 0 {
			return fmt.Errorf("providers.%s.maxAttempts must be positive", name)
		}
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Addr) == "" {
		return errors.New("cache.addr cannot be empty when cache is enabled")
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl cannot be negative")
	}
	if c.Publish.Enabled {
		if strings.TrimSpace(c.Publish.Broker) == "" {
			return errors.New("publish.broker cannot be empty when publishing is enabled")
		}
		if c.Publish.QoS > 2 {
			return errors.New("publish.qos must be 0, 1 or 2")
		}
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}
