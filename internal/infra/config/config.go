package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP            HTTPConfig       `yaml:"http"`
	Astronomy       AstronomyConfig  `yaml:"astronomy"`
	DefaultLocation LocationConfig   `yaml:"defaultLocation"`
	Postgres        PostgresConfig   `yaml:"postgres"`
	Valkey          ValkeyConfig     `yaml:"valkey"`
	Generation      GenerationConfig `yaml:"generation"`
	Scheduler       SchedulerConfig  `yaml:"scheduler"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for read requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// AstronomyConfig bounds generation and defines the stored horizon.
type AstronomyConfig struct {
	MaxRangeDays int `yaml:"maxRangeDays"`
	EpochYear    int `yaml:"epochYear"`
	HorizonYears int `yaml:"horizonYears"`
}

// LocationConfig is the saved location created on first start.
type LocationConfig struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"lat"`
	Longitude float64 `yaml:"lon"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for preferences and the job queue.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// GenerationConfig selects the job queue and bounds waiting on jobs.
type GenerationConfig struct {
	Queue        string        `yaml:"queue"`
	WaitTimeout  time.Duration `yaml:"waitTimeout"`
	PollInterval time.Duration `yaml:"pollInterval"`
}

// SchedulerConfig drives horizon maintenance.
type SchedulerConfig struct {
	Enabled     bool   `yaml:"enabled"`
	HorizonSpec string `yaml:"horizonSpec"`
}

const (
	QueueImmediate = "immediate"
	QueueValkey    = "valkey"
)

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
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
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("ASTRONOMY_MAX_RANGE_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Astronomy.MaxRangeDays = parsed
		}
	}
	if v := os.Getenv("ASTRONOMY_EPOCH_YEAR"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Astronomy.EpochYear = parsed
		}
	}
	if v := os.Getenv("ASTRONOMY_HORIZON_YEARS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Astronomy.HorizonYears = parsed
		}
	}
	if v := os.Getenv("DEFAULT_LOCATION_NAME"); v != "" {
		cfg.DefaultLocation.Name = v
	}
	if v := os.Getenv("DEFAULT_LOCATION_LAT"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.DefaultLocation.Latitude = parsed
		}
	}
	if v := os.Getenv("DEFAULT_LOCATION_LON"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.DefaultLocation.Longitude = parsed
		}
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
	}
	if v := os.Getenv("VALKEY_PREFIX"); v != "" {
		cfg.Valkey.Prefix = v
	}
	if v := os.Getenv("GENERATION_QUEUE"); v != "" {
		cfg.Generation.Queue = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("GENERATION_WAIT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Generation.WaitTimeout = parsed
		}
	}
	if v := os.Getenv("SCHEDULER_ENABLED"); v != "" {
		cfg.Scheduler.Enabled = parseBool(v)
	}
	if v := os.Getenv("SCHEDULER_HORIZON_SPEC"); v != "" {
		cfg.Scheduler.HorizonSpec = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 3 * time.Minute,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/metrics",
				},
			},
		},
		Astronomy: AstronomyConfig{
			MaxRangeDays: 1461,
			EpochYear:    2025,
			HorizonYears: 2,
		},
		DefaultLocation: LocationConfig{
			Name:      "The Hague",
			Latitude:  52.0705,
			Longitude: 4.3007,
		},
		Postgres: PostgresConfig{
			DSN:      "",
			MaxConns: 4,
			MinConns: 0,
		},
		Valkey: ValkeyConfig{
			Enabled: false,
			Addr:    "",
			Prefix:  "tithi",
		},
		Generation: GenerationConfig{
			Queue:        QueueImmediate,
			WaitTimeout:  2 * time.Minute,
			PollInterval: 500 * time.Millisecond,
		},
		Scheduler: SchedulerConfig{
			Enabled:     false,
			HorizonSpec: "@yearly",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
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
	if c.Astronomy.MaxRangeDays <= 0 {
		return errors.New("astronomy.maxRangeDays must be positive")
	}
	if c.Astronomy.HorizonYears <= 0 {
		return errors.New("astronomy.horizonYears must be positive")
	}
	if c.Astronomy.EpochYear < 0 {
		return errors.New("astronomy.epochYear cannot be negative")
	}
	// A horizon runs from January 1 to December 31 horizonYears later and is
	// generated as one range.
	if c.Astronomy.MaxRangeDays < 366*(c.Astronomy.HorizonYears+1) {
		return fmt.Errorf("astronomy.maxRangeDays must be at least %d to cover a %d-year horizon",
			366*(c.Astronomy.HorizonYears+1), c.Astronomy.HorizonYears)
	}
	if strings.TrimSpace(c.DefaultLocation.Name) == "" {
		return errors.New("defaultLocation.name cannot be empty")
	}
	if c.DefaultLocation.Latitude < -90 || c.DefaultLocation.Latitude > 90 {
		return errors.New("defaultLocation.lat must be within [-90, 90]")
	}
	if c.DefaultLocation.Longitude < -180 || c.DefaultLocation.Longitude > 180 {
		return errors.New("defaultLocation.lon must be within [-180, 180]")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when valkey is enabled")
	}
	switch c.Generation.Queue {
	case QueueImmediate:
	case QueueValkey:
		if !c.Valkey.Enabled {
			return errors.New("generation.queue valkey requires valkey.enabled")
		}
	default:
		return fmt.Errorf("generation.queue %q must be immediate or valkey", c.Generation.Queue)
	}
	if c.Generation.WaitTimeout <= 0 {
		return errors.New("generation.waitTimeout must be positive")
	}
	if c.Scheduler.Enabled && strings.TrimSpace(c.Scheduler.HorizonSpec) == "" {
		return errors.New("scheduler.horizonSpec cannot be empty when the scheduler is enabled")
	}
	return nil
}
