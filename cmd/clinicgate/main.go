package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	cghttp "github.com/careport/clinicgate/internal/adapter/http"
	cgnats "github.com/careport/clinicgate/internal/adapter/nats"
	"github.com/careport/clinicgate/internal/adapter/natskv"
	"github.com/careport/clinicgate/internal/adapter/otel"
	"github.com/careport/clinicgate/internal/adapter/ristretto"
	"github.com/careport/clinicgate/internal/adapter/tagcache"
	"github.com/careport/clinicgate/internal/adapter/tiered"
	"github.com/careport/clinicgate/internal/config"
	"github.com/careport/clinicgate/internal/directory"
	"github.com/careport/clinicgate/internal/logger"
	"github.com/careport/clinicgate/internal/middleware"
	"github.com/careport/clinicgate/internal/port/cache"
	"github.com/careport/clinicgate/internal/resilience"
	"github.com/careport/clinicgate/internal/upstream"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, closeLog := logger.New(cfg.Logging)
	defer closeLog.Close()

	log.Info("config loaded",
		"port", cfg.Server.Port,
		"backend", cfg.Backend.BaseURL,
		"log_level", cfg.Logging.Level,
	)

	ctx := context.Background()

	// --- Telemetry ---

	shutdownOtel, err := otel.Setup(ctx, cfg.Logging.Service, cfg.Tracing.Endpoint, cfg.Tracing.Enabled)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOtel(shutdownCtx); err != nil {
			log.Error("otel shutdown failed", "error", err)
		}
	}()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Cache tiers ---

	l1, err := ristretto.New(cfg.Cache.MaxBytes)
	if err != nil {
		return fmt.Errorf("ristretto: %w", err)
	}

	var store cache.Cache = l1
	var idemStore cache.Cache = l1

	if cfg.NATS.URL != "" {
		conn, err := cgnats.Connect(cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() { _ = conn.Close() }()

		respKV, err := conn.KeyValue(ctx, cfg.NATS.Bucket, 0)
		if err != nil {
			return fmt.Errorf("nats response bucket: %w", err)
		}
		store = tiered.New(l1, natskv.New(respKV), cfg.Cache.L1Expire)

		idemKV, err := conn.KeyValue(ctx, cfg.NATS.Bucket+"-idem", cfg.NATS.IdempotencyTTL)
		if err != nil {
			return fmt.Errorf("nats idempotency bucket: %w", err)
		}
		idemStore = natskv.New(idemKV)
	}

	// --- Upstream client and directory ---

	client, err := upstream.New(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout, log)
	if err != nil {
		return fmt.Errorf("upstream: %w", err)
	}
	breaker := resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
	client.SetBreaker(breaker)

	dir := directory.New(upstream.ClinicSource{Client: client}, log)
	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.Directory.LoadTimeout)
	if err := dir.LoadAll(loadCtx); err != nil {
		// The gateway still serves; resolution reports the failure until a
		// later load succeeds.
		log.Error("initial clinic directory load failed", "error", err)
	}
	cancelLoad()

	// --- HTTP ---

	handlers := &cghttp.Handlers{
		Upstream:  client,
		Cache:     tagcache.New(store),
		Tokens:    upstream.HeaderCookieTokens{Cookie: cfg.Backend.AuthCookie},
		Directory: dir,
		Breaker:   breaker,
		Metrics:   metrics,
		Log:       log,
	}

	limiter := middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	stopCleanup := limiter.StartCleanup(cfg.Rate.CleanupInterval, cfg.Rate.MaxIdleTime)
	defer stopCleanup()

	r := chi.NewRouter()
	r.Use(otel.HTTPMiddleware(cfg.Logging.Service))
	r.Use(middleware.RequestID)
	r.Use(cghttp.Recover)
	r.Use(cghttp.SecurityHeaders)
	r.Use(cghttp.CORS(cfg.Server.CORSOrigin))
	r.Use(cghttp.Logger)
	r.Use(limiter.Handler)
	r.Use(middleware.Idempotency(idemStore, cfg.NATS.IdempotencyTTL))

	cghttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
		}
	}()

	<-done
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
