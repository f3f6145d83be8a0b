package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "clinicgate.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "CLINICGATE_PORT")
	setString(&cfg.Server.CORSOrigin, "CLINICGATE_CORS_ORIGIN")
	setDuration(&cfg.Server.ReadTimeout, "CLINICGATE_READ_TIMEOUT")
	setDuration(&cfg.Server.WriteTimeout, "CLINICGATE_WRITE_TIMEOUT")
	setDuration(&cfg.Server.ShutdownTimeout, "CLINICGATE_SHUTDOWN_TIMEOUT")
	setString(&cfg.Backend.BaseURL, "BACKEND_BASE_URL")
	setDuration(&cfg.Backend.RequestTimeout, "CLINICGATE_BACKEND_TIMEOUT")
	setString(&cfg.Backend.AuthCookie, "CLINICGATE_AUTH_COOKIE")
	setInt64(&cfg.Cache.MaxBytes, "CLINICGATE_CACHE_MAX_BYTES")
	setDuration(&cfg.Cache.L1Expire, "CLINICGATE_CACHE_L1_EXPIRE")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.NATS.Bucket, "CLINICGATE_NATS_BUCKET")
	setDuration(&cfg.NATS.IdempotencyTTL, "CLINICGATE_IDEMPOTENCY_TTL")
	setString(&cfg.Logging.Level, "CLINICGATE_LOG_LEVEL")
	setString(&cfg.Logging.Service, "CLINICGATE_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "CLINICGATE_LOG_ASYNC")
	setInt(&cfg.Breaker.MaxFailures, "CLINICGATE_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "CLINICGATE_BREAKER_TIMEOUT")
	setFloat64(&cfg.Rate.RequestsPerSecond, "CLINICGATE_RATE_RPS")
	setInt(&cfg.Rate.Burst, "CLINICGATE_RATE_BURST")
	setDuration(&cfg.Rate.CleanupInterval, "CLINICGATE_RATE_CLEANUP_INTERVAL")
	setDuration(&cfg.Rate.MaxIdleTime, "CLINICGATE_RATE_MAX_IDLE_TIME")
	setBool(&cfg.Tracing.Enabled, "CLINICGATE_TRACING_ENABLED")
	setString(&cfg.Tracing.Endpoint, "CLINICGATE_TRACING_ENDPOINT")
	setDuration(&cfg.Directory.LoadTimeout, "CLINICGATE_DIRECTORY_LOAD_TIMEOUT")
}

// validate checks configuration invariants that would otherwise surface as
// confusing runtime failures. The upstream base URL is the one required
// setting: every proxied call depends on it.
func validate(cfg *Config) error {
	if cfg.Backend.BaseURL == "" {
		return errors.New("backend.base_url is required (set BACKEND_BASE_URL)")
	}
	u, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.base_url %q is not an absolute URL", cfg.Backend.BaseURL)
	}
	if cfg.Backend.RequestTimeout <= 0 {
		return errors.New("backend.request_timeout must be positive")
	}
	if cfg.Cache.MaxBytes <= 0 {
		return errors.New("cache.max_bytes must be positive")
	}
	if cfg.Breaker.MaxFailures <= 0 {
		return errors.New("breaker.max_failures must be positive")
	}
	if cfg.Rate.RequestsPerSecond <= 0 || cfg.Rate.Burst <= 0 {
		return errors.New("rate limiter requires positive rps and burst")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
