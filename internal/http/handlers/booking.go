// Package handlers contains the HTTP endpoints of the booking proxy.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/salonbook/yclients-proxy/internal/audit"
	httpmiddleware "github.com/salonbook/yclients-proxy/internal/http/middleware"
	"github.com/salonbook/yclients-proxy/internal/nonce"
	"github.com/salonbook/yclients-proxy/internal/observability/metrics"
	"github.com/salonbook/yclients-proxy/internal/privacy"
	"github.com/salonbook/yclients-proxy/internal/ratelimit"
	"github.com/salonbook/yclients-proxy/internal/sanitize"
	"github.com/salonbook/yclients-proxy/internal/settings"
	"github.com/salonbook/yclients-proxy/internal/widget"
	"github.com/salonbook/yclients-proxy/internal/yclients"
	"github.com/salonbook/yclients-proxy/pkg/logging"
)

// NonceAction binds widget nonces to the booking form.
const NonceAction = "booking"

// NonceHeader carries the anti-forgery token on write requests. The widget
// may also send it as the _nonce query parameter.
const NonceHeader = "X-Booking-Nonce"

// Upstream is the subset of the YCLIENTS client the handlers use.
type Upstream interface {
	CheckConnection(ctx context.Context) (*yclients.Result, error)
	Services(ctx context.Context) (*yclients.Result, error)
	Staff(ctx context.Context, serviceID int) (*yclients.Result, error)
	AvailableDates(ctx context.Context, serviceID, staffID int) (*yclients.Result, error)
	AvailableTimes(ctx context.Context, serviceID, staffID int, date string) (*yclients.Result, error)
	CreateBooking(ctx context.Context, payload *yclients.BookingPayload) (*yclients.Result, error)
}

// BookingConfig holds the booking handler dependencies.
type BookingConfig struct {
	Upstream      Upstream
	Limiter       *ratelimit.Limiter
	Settings      settings.Store
	Nonces        *nonce.Service
	Audit         *audit.Recorder
	Metrics       *metrics.BookingMetrics
	Logger        *logging.Logger
	PublicBaseURL string
	Strings       widget.Strings
}

// BookingHandler mediates widget requests to the YCLIENTS API: rate limit
// first, then validate, then proxy.
type BookingHandler struct {
	upstream      Upstream
	limiter       *ratelimit.Limiter
	settings      settings.Store
	nonces        *nonce.Service
	audit         *audit.Recorder
	metrics       *metrics.BookingMetrics
	logger        *logging.Logger
	publicBaseURL string
	strings       widget.Strings
}

// NewBookingHandler creates the handler set for the widget endpoints.
func NewBookingHandler(cfg BookingConfig) *BookingHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	localized := cfg.Strings
	if localized == (widget.Strings{}) {
		localized = widget.DefaultStrings()
	}
	return &BookingHandler{
		upstream:      cfg.Upstream,
		limiter:       cfg.Limiter,
		settings:      cfg.Settings,
		nonces:        cfg.Nonces,
		audit:         cfg.Audit,
		metrics:       cfg.Metrics,
		logger:        logger,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		strings:       localized,
	}
}

type errorResponse struct {
	Message string `json:"message"`
}

// widgetConfigResponse bootstraps the browser widget.
type widgetConfigResponse struct {
	RestURL string         `json:"rest_url"`
	Nonce   string         `json:"nonce"`
	Strings widget.Strings `json:"strings"`
}

// WidgetConfig returns the widget bootstrap: rest base URL, a fresh nonce
// and the localized strings.
func (h *BookingHandler) WidgetConfig(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, "config", http.StatusOK, widgetConfigResponse{
		RestURL: h.publicBaseURL + "/api/v1/booking",
		Nonce:   h.nonces.Mint(NonceAction),
		Strings: h.strings,
	})
}

// Connection checks upstream connectivity for the admin side. Nonce-guarded
// like the booking submission.
func (h *BookingHandler) Connection(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, "connection") {
		return
	}
	if err := h.nonces.Verify(NonceAction, h.requestNonce(r)); err != nil {
		h.error(w, "connection", "Invalid nonce.", http.StatusForbidden)
		return
	}
	res, err := h.upstream.CheckConnection(r.Context())
	if err != nil {
		h.fail(w, "connection", err)
		return
	}
	status := yclients.ConnectionStatus{
		Status:    "error",
		Message:   res.Message,
		Code:      res.HTTPCode,
		RequestID: res.RequestID,
	}
	if res.Success {
		status.Status = "success"
		status.Message = "Connection successful."
	}
	h.writeJSON(w, "connection", http.StatusOK, status)
}

// Services proxies the service list.
func (h *BookingHandler) Services(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, "services") {
		return
	}
	res, err := h.upstream.Services(r.Context())
	h.respond(w, "services", res, err)
}

// Staff proxies the staff list, optionally filtered by service.
func (h *BookingHandler) Staff(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, "staff") {
		return
	}
	serviceID := 0
	if raw := r.URL.Query().Get("service_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 0 {
			h.error(w, "staff", "Invalid parameters.", http.StatusBadRequest)
			return
		}
		serviceID = id
	}
	res, err := h.upstream.Staff(r.Context(), serviceID)
	h.respond(w, "staff", res, err)
}

// AvailableDates proxies bookable dates for a service/staff pair.
func (h *BookingHandler) AvailableDates(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, "dates") {
		return
	}
	serviceID := queryInt(r, "service_id")
	staffID := queryInt(r, "staff_id")
	if serviceID <= 0 || staffID <= 0 {
		h.error(w, "dates", "Invalid parameters.", http.StatusBadRequest)
		return
	}
	res, err := h.upstream.AvailableDates(r.Context(), serviceID, staffID)
	h.respond(w, "dates", res, err)
}

// AvailableTimes proxies bookable time slots on a date.
func (h *BookingHandler) AvailableTimes(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, "times") {
		return
	}
	serviceID := queryInt(r, "service_id")
	staffID := queryInt(r, "staff_id")
	date := sanitize.Date(r.URL.Query().Get("date"))
	if serviceID <= 0 || staffID <= 0 || date == "" {
		h.error(w, "times", "Invalid parameters.", http.StatusBadRequest)
		return
	}
	res, err := h.upstream.AvailableTimes(r.Context(), serviceID, staffID, date)
	h.respond(w, "times", res, err)
}

// Book validates and forwards a booking submission.
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, "book") {
		return
	}

	if err := h.nonces.Verify(NonceAction, h.requestNonce(r)); err != nil {
		h.error(w, "book", "Invalid nonce.", http.StatusForbidden)
		return
	}

	var params map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&params); err != nil || params == nil {
		h.error(w, "book", "Invalid payload.", http.StatusBadRequest)
		return
	}

	sub, err := sanitize.BookingSubmission(params)
	if err != nil {
		switch {
		case errors.Is(err, sanitize.ErrMissingFields):
			h.error(w, "book", "Missing required fields.", http.StatusBadRequest)
		case errors.Is(err, sanitize.ErrInvalidFields):
			h.error(w, "book", "Invalid fields.", http.StatusBadRequest)
		default:
			h.error(w, "book", "Invalid payload.", http.StatusBadRequest)
		}
		return
	}

	if !sub.Consent {
		h.error(w, "book", "Consent is required.", http.StatusBadRequest)
		return
	}
	h.audit.Record(r.Context(), audit.Event{
		Type:     audit.EventConsentRecorded,
		ClientIP: httpmiddleware.ClientIP(r),
		Phone:    privacy.Phone(sub.Phone),
	})

	st, err := h.settings.Get(r.Context())
	if err != nil {
		h.fail(w, "book", err)
		return
	}

	res, err := h.upstream.CreateBooking(r.Context(), sub.Payload(st.DefaultBranchID))
	h.respond(w, "book", res, err)
}

func (h *BookingHandler) requestNonce(r *http.Request) string {
	if token := r.Header.Get(NonceHeader); token != "" {
		return token
	}
	return r.URL.Query().Get("_nonce")
}

// allow runs the rate limiter for the endpoint context. Store failures fail
// open but are logged.
func (h *BookingHandler) allow(w http.ResponseWriter, r *http.Request, requestContext string) bool {
	allowed, err := h.limiter.Allow(r.Context(), requestContext, httpmiddleware.ClientIP(r))
	if err != nil {
		h.logger.Warn("rate limit store unavailable", "context", requestContext, "error", err)
	}
	if !allowed {
		h.metrics.ObserveRateLimited(requestContext)
		h.error(w, requestContext, "Too many requests.", http.StatusTooManyRequests)
		return false
	}
	return true
}

// respond translates an upstream Result into the widget-facing response:
// success forwards the body with 200, failure forwards the message with the
// upstream's code.
func (h *BookingHandler) respond(w http.ResponseWriter, endpoint string, res *yclients.Result, err error) {
	if err != nil {
		h.fail(w, endpoint, err)
		return
	}
	if res.Success {
		h.metrics.ObserveRequest(endpoint, http.StatusOK)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if len(res.Body) > 0 {
			_, _ = w.Write(res.Body)
		} else {
			_, _ = w.Write([]byte("{}"))
		}
		return
	}
	code := res.HTTPCode
	message := res.Message
	if code == 0 {
		// transport failure: never forward the raw error text
		code = http.StatusInternalServerError
		message = ""
	}
	if message == "" {
		message = "API error."
	}
	h.error(w, endpoint, message, code)
}

func (h *BookingHandler) fail(w http.ResponseWriter, endpoint string, err error) {
	h.logger.Error("endpoint failed", "endpoint", endpoint, "error", err)
	h.error(w, endpoint, "API error.", http.StatusInternalServerError)
}

func (h *BookingHandler) error(w http.ResponseWriter, endpoint, message string, code int) {
	h.writeJSON(w, endpoint, code, errorResponse{Message: message})
}

func (h *BookingHandler) writeJSON(w http.ResponseWriter, endpoint string, code int, body any) {
	h.metrics.ObserveRequest(endpoint, code)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("write response", "endpoint", endpoint, "error", err)
	}
}

func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
