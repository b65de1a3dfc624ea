// Package http is the local ops surface of farmctl: health probes, metrics
// and a read-only view of the session.
package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/ports"
	"github.com/smartfarming/farm-client/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the ops routes read from.
type Deps struct {
	Log      zerolog.Logger
	Sessions handlers.SessionReader
	Backend  string
	// Pinger is the snapshot backend, when it supports pings.
	Pinger ports.Pinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// Request metrics go to a per-router registry so several routers can
	// coexist in one process; /metrics serves it alongside the default one.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "ops",
		Registerer: reg,
	}))

	// --- Health probes ---
	healthHandler := handlers.NewHealthHandler()
	readyHandler := handlers.NewReadinessHandler(deps.Backend, deps.Pinger)

	e.GET("/health", healthHandler.Liveness)       // liveness: is the process alive?
	e.GET("/health/ready", readyHandler.Readiness) // readiness: is the snapshot backend up?

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))

	sessionHandler := handlers.NewSessionHandler(deps.Sessions)
	e.GET("/debug/session", sessionHandler.Show)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	log = log.With().Str("component", "ops").Logger()
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
