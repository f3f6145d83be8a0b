// Package config provides hierarchical configuration loading for clinicgate.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the clinicgate gateway.
type Config struct {
	Server    Server    `yaml:"server"`
	Backend   Backend   `yaml:"backend"`
	Cache     Cache     `yaml:"cache"`
	NATS      NATS      `yaml:"nats"`
	Logging   Logging   `yaml:"logging"`
	Breaker   Breaker   `yaml:"breaker"`
	Rate      Rate      `yaml:"rate"`
	Tracing   Tracing   `yaml:"tracing"`
	Directory Directory `yaml:"directory"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port            string        `yaml:"port"`
	CORSOrigin      string        `yaml:"cors_origin"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Backend holds upstream REST backend configuration.
// BaseURL is the single required setting; everything else has defaults.
type Backend struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	AuthCookie     string        `yaml:"auth_cookie"`
}

// Cache holds response cache configuration.
type Cache struct {
	MaxBytes int64         `yaml:"max_bytes"`
	L1Expire time.Duration `yaml:"l1_expire"`
}

// NATS holds optional NATS JetStream configuration. An empty URL disables
// the shared L2 cache and the idempotency replay store.
type NATS struct {
	URL            string        `yaml:"url"`
	Bucket         string        `yaml:"bucket"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	Async   bool   `yaml:"async"`
}

// Breaker holds circuit breaker configuration for upstream calls.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Rate holds rate limiter configuration.
type Rate struct {
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"`
	MaxIdleTime       time.Duration `yaml:"max_idle_time"`
}

// Tracing holds OpenTelemetry export configuration.
type Tracing struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Directory holds clinic directory configuration.
type Directory struct {
	LoadTimeout time.Duration `yaml:"load_timeout"`
}

// Defaults returns a Config with sensible default values for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:            "8080",
			CORSOrigin:      "http://localhost:3000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Backend: Backend{
			BaseURL:        "http://localhost:5000",
			RequestTimeout: 30 * time.Second,
			AuthCookie:     "auth_token",
		},
		Cache: Cache{
			MaxBytes: 64 << 20, // 64 MB
			L1Expire: 30 * time.Second,
		},
		NATS: NATS{
			Bucket:         "clinicgate-cache",
			IdempotencyTTL: 24 * time.Hour,
		},
		Logging: Logging{
			Level:   "info",
			Service: "clinicgate",
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		Rate: Rate{
			RequestsPerSecond: 50,
			Burst:             100,
			CleanupInterval:   time.Minute,
			MaxIdleTime:       10 * time.Minute,
		},
		Directory: Directory{
			LoadTimeout: 15 * time.Second,
		},
	}
}
