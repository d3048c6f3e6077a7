package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	chathubapi "github.com/chathub-dev/chathub/api/echo"
	"github.com/chathub-dev/chathub/config"
	"github.com/chathub-dev/chathub/mongodb"
)

// NewHTTPServer creates and configures the echo HTTP server with request
// logging, recovery, the Prometheus endpoint, and a mongo-backed health
// check.
func NewHTTPServer(cfg *config.ServerConfig, api *chathubapi.API, registry *prometheus.Registry) *http.Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("path", v.URI).
				Int("status", v.Status).
				Str("latency", v.Latency.String()).
				Str("ip", v.RemoteIP).
				Str("user_agent", v.UserAgent).
				Msg("HTTP request")
			return nil
		},
	}))

	api.RegisterRoutes(e)

	e.GET("/healthz", func(c echo.Context) error {
		if err := mongodb.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      e,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// Shutdown gracefully stops the server within the given timeout.
func Shutdown(ctx context.Context, srv *http.Server, timeout time.Duration) {
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
}
