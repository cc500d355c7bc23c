package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/salonbook/yclients-proxy/internal/api/router"
	"github.com/salonbook/yclients-proxy/internal/app/bootstrap"
	"github.com/salonbook/yclients-proxy/internal/audit"
	appconfig "github.com/salonbook/yclients-proxy/internal/config"
	"github.com/salonbook/yclients-proxy/internal/http/handlers"
	"github.com/salonbook/yclients-proxy/internal/nonce"
	"github.com/salonbook/yclients-proxy/internal/observability/metrics"
	"github.com/salonbook/yclients-proxy/internal/ratelimit"
	"github.com/salonbook/yclients-proxy/internal/yclients"
	"github.com/salonbook/yclients-proxy/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking proxy",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	settingsStore := bootstrap.BuildSettingsStore(redisClient, cfg, logger)
	limiter := ratelimit.New(bootstrap.BuildRateLimitStore(redisClient, logger), cfg.RateLimit, cfg.RateWindow)

	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)

	upstream, err := yclients.New(yclients.Config{
		BaseURL:  cfg.YclientsBaseURL,
		Settings: settingsStore,
		Timeout:  cfg.UpstreamTimeout,
		Logger:   logger.Component("yclients"),
		Metrics:  bookingMetrics,
	})
	if err != nil {
		logger.Error("failed to build upstream client", "error", err)
		os.Exit(1)
	}

	nonces, err := nonce.New(cfg.NonceSecret, cfg.NonceTTL)
	if err != nil {
		logger.Error("failed to build nonce service", "error", err)
		os.Exit(1)
	}

	bookingHandler := handlers.NewBookingHandler(handlers.BookingConfig{
		Upstream:      upstream,
		Limiter:       limiter,
		Settings:      settingsStore,
		Nonces:        nonces,
		Audit:         audit.NewRecorder(logger.Component("audit")),
		Metrics:       bookingMetrics,
		Logger:        logger.Component("booking"),
		PublicBaseURL: cfg.PublicBaseURL,
	})

	r := router.New(router.Config{
		Booking:  bookingHandler,
		Logger:   logger,
		Registry: registry,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
