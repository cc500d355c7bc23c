package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonbook/yclients-proxy/internal/audit"
	"github.com/salonbook/yclients-proxy/internal/http/handlers"
	"github.com/salonbook/yclients-proxy/internal/nonce"
	"github.com/salonbook/yclients-proxy/internal/ratelimit"
	"github.com/salonbook/yclients-proxy/internal/settings"
	"github.com/salonbook/yclients-proxy/internal/yclients"
	"github.com/salonbook/yclients-proxy/pkg/logging"
)

type fixedUpstream struct {
	result *yclients.Result
}

func (f *fixedUpstream) CheckConnection(context.Context) (*yclients.Result, error) {
	return f.result, nil
}

func (f *fixedUpstream) Services(context.Context) (*yclients.Result, error) {
	return f.result, nil
}

func (f *fixedUpstream) Staff(context.Context, int) (*yclients.Result, error) {
	return f.result, nil
}

func (f *fixedUpstream) AvailableDates(context.Context, int, int) (*yclients.Result, error) {
	return f.result, nil
}

func (f *fixedUpstream) AvailableTimes(context.Context, int, int, string) (*yclients.Result, error) {
	return f.result, nil
}

func (f *fixedUpstream) CreateBooking(context.Context, *yclients.BookingPayload) (*yclients.Result, error) {
	return f.result, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	nonces, err := nonce.New("router-secret", time.Hour)
	require.NoError(t, err)
	logger := logging.New("error")
	booking := handlers.NewBookingHandler(handlers.BookingConfig{
		Upstream: &fixedUpstream{result: &yclients.Result{
			Success: true, HTTPCode: 200, Body: json.RawMessage(`{"data":[]}`),
		}},
		Limiter:       ratelimit.New(ratelimit.NewMemoryStore(), 30, time.Minute),
		Settings:      settings.NewStatic(settings.Settings{}),
		Nonces:        nonces,
		Audit:         audit.NewRecorder(logger),
		Logger:        logger,
		PublicBaseURL: "https://salon.example",
	})
	return New(Config{
		Booking:  booking,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	})
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/booking/config", http.StatusOK},
		{http.MethodGet, "/api/v1/booking/connection", http.StatusForbidden},
		{http.MethodGet, "/api/v1/booking/services", http.StatusOK},
		{http.MethodGet, "/api/v1/booking/staff", http.StatusOK},
		{http.MethodGet, "/api/v1/booking/available-dates?service_id=1&staff_id=2", http.StatusOK},
		{http.MethodGet, "/api/v1/booking/available-times?service_id=1&staff_id=2&date=2026-09-15", http.StatusOK},
		{http.MethodPost, "/api/v1/booking/book", http.StatusForbidden},
		{http.MethodGet, "/api/v1/booking/unknown", http.StatusNotFound},
		{http.MethodPost, "/api/v1/booking/services", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRealIPFeedsRateLimiter(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/booking/services", nil)
	req.Header.Set("X-Real-Ip", "203.0.113.77")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
