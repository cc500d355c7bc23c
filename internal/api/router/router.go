// Package router assembles the HTTP routing tree.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/salonbook/yclients-proxy/internal/http/handlers"
	"github.com/salonbook/yclients-proxy/internal/http/middleware"
	"github.com/salonbook/yclients-proxy/pkg/logging"
)

// Config carries the router dependencies.
type Config struct {
	Booking  *handlers.BookingHandler
	Logger   *logging.Logger
	Registry *prometheus.Registry
}

// New builds the chi router with the standard middleware chain and the
// booking API mounted under /api/v1/booking.
func New(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RequestLogger(cfg.Logger))

	r.Get("/health", handlers.Health)
	if cfg.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	} else {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1/booking", func(r chi.Router) {
		r.Get("/config", cfg.Booking.WidgetConfig)
		r.Get("/connection", cfg.Booking.Connection)
		r.Get("/services", cfg.Booking.Services)
		r.Get("/staff", cfg.Booking.Staff)
		r.Get("/available-dates", cfg.Booking.AvailableDates)
		r.Get("/available-times", cfg.Booking.AvailableTimes)
		r.Post("/book", cfg.Booking.Book)
	})

	return r
}
