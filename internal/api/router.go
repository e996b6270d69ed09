// Package api provides the HTTP surface of WhenPress.
package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/whenpress/whenpress/internal/api/handler"
	"github.com/whenpress/whenpress/internal/api/middleware"
	"github.com/whenpress/whenpress/internal/device"
	"github.com/whenpress/whenpress/internal/kv"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version           string
	BuildTime         string
	Logger            zerolog.Logger
	ServiceName       string
	Metrics           *middleware.Metrics
	DeviceService     *device.Service
	Store             kv.Store
	ActivityThreshold time.Duration
}

// NewRouter creates a new chi router with all routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "whenpress"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers
	r.Use(middleware.RequireTLS)           // TLS enforcement (REQUIRE_TLS=true)

	deviceHandler := handler.NewDeviceHandler(cfg.DeviceService, cfg.ActivityThreshold)
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Store)

	writeRateLimit := middleware.RateLimitByIP(middleware.DeviceWriteRateLimit) // 60 req/min
	pageRateLimit := middleware.RateLimitByIP(middleware.PageRateLimit)         // 120 req/min

	r.Get("/", deviceHandler.Home)
	r.Get("/healthz", opsHandler.HealthCheck)
	r.Get("/readyz", opsHandler.ReadinessCheck)

	r.Route("/{device}", func(r chi.Router) {
		r.With(pageRateLimit).Get("/", deviceHandler.Page)
		r.With(pageRateLimit).Get("/status", deviceHandler.Status)
		r.With(writeRateLimit).Post("/ping", deviceHandler.Ping)
		r.With(writeRateLimit).Post("/data", deviceHandler.Press)
	})

	return r
}
