// Package main provides the entrypoint for the WhenPress server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/whenpress/whenpress/internal/api"
	"github.com/whenpress/whenpress/internal/api/middleware"
	"github.com/whenpress/whenpress/internal/device"
	"github.com/whenpress/whenpress/internal/kv"
	"github.com/whenpress/whenpress/internal/presence"
	"github.com/whenpress/whenpress/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "whenpress"

	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting WhenPress")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Open the key-value store
	store, closeStore, err := openStore(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer closeStore()

	// Activity threshold for the online/offline decision
	threshold := presence.DefaultActivityThreshold
	if raw := os.Getenv("ACTIVITY_THRESHOLD_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			log.Fatal().Str("value", raw).Msg("invalid ACTIVITY_THRESHOLD_SECONDS")
		}
		threshold = time.Duration(seconds) * time.Second
	}

	deviceService := device.NewService(device.NewKVRepository(store))
	log.Info().Dur("activity_threshold", threshold).Msg("device service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:           Version,
		BuildTime:         BuildTime,
		Logger:            log,
		ServiceName:       serviceName,
		Metrics:           metrics,
		DeviceService:     deviceService,
		Store:             store,
		ActivityThreshold: threshold,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// openStore opens the store selected by KV_BACKEND: memory, sqlite
// (default), or postgres.
func openStore(ctx context.Context, log zerolog.Logger) (kv.Store, func(), error) {
	backend := os.Getenv("KV_BACKEND")
	if backend == "" {
		backend = "sqlite"
	}

	switch backend {
	case "memory":
		log.Warn().Msg("using in-memory store - data is lost on restart")
		return kv.NewMemoryStore(), func() {}, nil

	case "sqlite":
		path := os.Getenv("KV_SQLITE_PATH")
		if path == "" {
			path = "whenpress.db"
		}
		store, err := kv.NewSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", path).Msg("sqlite store opened")
		return store, func() { _ = store.Close() }, nil

	case "postgres":
		cfg := kv.PostgresConfigFromEnv()
		store, err := kv.NewPostgresStore(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		log.Info().
			Str("host", cfg.Host).
			Int("port", cfg.Port).
			Str("database", cfg.Database).
			Msg("postgres store connected")
		return store, store.Close, nil

	default:
		log.Fatal().Str("backend", backend).Msg("unknown KV_BACKEND")
		return nil, nil, nil
	}
}
