// Package yclients wraps the YCLIENTS booking API behind a uniform Result.
package yclients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/salonbook/yclients-proxy/internal/observability/metrics"
	"github.com/salonbook/yclients-proxy/internal/privacy"
	"github.com/salonbook/yclients-proxy/internal/settings"
	"github.com/salonbook/yclients-proxy/pkg/logging"
)

const (
	defaultBaseURL = "https://api.yclients.com/api/v1"
	defaultTimeout = 15 * time.Second

	genericAPIError = "API error."
)

// Config controls how the YCLIENTS client behaves.
type Config struct {
	BaseURL    string
	Settings   settings.Store
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
	Metrics    *metrics.BookingMetrics
}

// Client issues authenticated requests against the YCLIENTS REST API.
// Settings are read fresh for every call so token rotations apply
// immediately. There are no retries: a single failure is surfaced to the
// caller as-is.
type Client struct {
	baseURL    string
	settings   settings.Store
	httpClient *http.Client
	logger     *logging.Logger
	metrics    *metrics.BookingMetrics
	tracer     trace.Tracer
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	if cfg.Settings == nil {
		return nil, errors.New("yclients: settings store is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:    baseURL,
		settings:   cfg.Settings,
		httpClient: httpClient,
		logger:     logger,
		metrics:    cfg.Metrics,
		tracer:     otel.Tracer("booking.internal.yclients"),
	}, nil
}

// CheckConnection verifies the configured company against the API. A missing
// company id fails fast without touching the network.
func (c *Client) CheckConnection(ctx context.Context) (*Result, error) {
	st, err := c.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("yclients: load settings: %w", err)
	}
	if st.CompanyID <= 0 {
		return &Result{Success: false, Message: "Company ID is required."}, nil
	}
	return c.request(ctx, http.MethodGet, "/company/"+strconv.Itoa(st.CompanyID), nil, nil, true, st, "company")
}

// Services lists the bookable services of the configured company.
func (c *Client) Services(ctx context.Context) (*Result, error) {
	st, err := c.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("yclients: load settings: %w", err)
	}
	return c.request(ctx, http.MethodGet, "/company/"+strconv.Itoa(st.CompanyID)+"/services", nil, nil, true, st, "services")
}

// Staff lists staff members, optionally filtered by service. A non-positive
// serviceID means no filter.
func (c *Client) Staff(ctx context.Context, serviceID int) (*Result, error) {
	st, err := c.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("yclients: load settings: %w", err)
	}
	query := url.Values{}
	if serviceID > 0 {
		query.Set("service_id", strconv.Itoa(serviceID))
	}
	return c.request(ctx, http.MethodGet, "/company/"+strconv.Itoa(st.CompanyID)+"/staff", query, nil, true, st, "staff")
}

// AvailableDates lists bookable dates for a service/staff pair.
func (c *Client) AvailableDates(ctx context.Context, serviceID, staffID int) (*Result, error) {
	st, err := c.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("yclients: load settings: %w", err)
	}
	query := url.Values{}
	query.Set("service_id", strconv.Itoa(serviceID))
	query.Set("staff_id", strconv.Itoa(staffID))
	return c.request(ctx, http.MethodGet, "/book_dates/"+strconv.Itoa(st.CompanyID), query, nil, true, st, "dates")
}

// AvailableTimes lists bookable time slots on a date for a service/staff pair.
func (c *Client) AvailableTimes(ctx context.Context, serviceID, staffID int, date string) (*Result, error) {
	st, err := c.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("yclients: load settings: %w", err)
	}
	query := url.Values{}
	query.Set("service_id", strconv.Itoa(serviceID))
	query.Set("staff_id", strconv.Itoa(staffID))
	query.Set("date", date)
	return c.request(ctx, http.MethodGet, "/book_times/"+strconv.Itoa(st.CompanyID), query, nil, true, st, "times")
}

// CreateBooking submits a booking to the upstream service of record.
func (c *Client) CreateBooking(ctx context.Context, payload *BookingPayload) (*Result, error) {
	st, err := c.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("yclients: load settings: %w", err)
	}
	return c.request(ctx, http.MethodPost, "/book_record/"+strconv.Itoa(st.CompanyID), nil, payload, true, st, "book")
}

func (c *Client) request(ctx context.Context, method, path string, query url.Values, body any, partnerScoped bool, st *settings.Settings, resource string) (*Result, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("yclients: marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	ctx, span := c.tracer.Start(ctx, "yclients."+resource)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("yclients: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if partnerScoped && st.PartnerToken != "" {
		req.Header.Set("Authorization", "Bearer "+st.PartnerToken)
	}
	if st.UserToken != "" {
		req.Header.Set("User", st.UserToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	c.metrics.ObserveUpstreamLatency(resource, elapsed.Seconds())

	if err != nil {
		c.logCall(st, method, fullURL, 0, elapsed, err.Error())
		return &Result{Success: false, HTTPCode: 0, Message: err.Error()}, nil
	}

	data, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		c.logCall(st, method, fullURL, 0, elapsed, readErr.Error())
		return &Result{Success: false, HTTPCode: 0, Message: readErr.Error()}, nil
	}

	code := resp.StatusCode
	requestID := resp.Header.Get("X-Request-Id")
	c.logCall(st, method, fullURL, code, elapsed, string(data))

	parsed := normalizeBody(data)
	if code >= 200 && code < 300 {
		return &Result{Success: true, HTTPCode: code, RequestID: requestID, Body: parsed}, nil
	}
	return &Result{
		Success:   false,
		HTTPCode:  code,
		RequestID: requestID,
		Body:      parsed,
		Message:   extractMessage(parsed),
	}, nil
}

// logCall emits the per-request debug line. It honors the settings toggle
// rather than the logger level so operators flip one switch in the admin
// side, like the rest of the widget stack.
func (c *Client) logCall(st *settings.Settings, method, fullURL string, status int, elapsed time.Duration, body string) {
	if !st.DebugLogging {
		return
	}
	c.logger.Info("upstream call",
		"method", method,
		"url", fullURL,
		"status", status,
		"elapsed_s", elapsed.Seconds(),
		"body", privacy.Body(body),
	)
}

// normalizeBody returns the raw JSON when it is an object or array, nil
// otherwise. Scalar or invalid bodies are treated as empty.
func normalizeBody(data []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return nil
	}
	if !json.Valid(trimmed) {
		return nil
	}
	return json.RawMessage(trimmed)
}

// extractMessage pulls body.message from an error response, falling back to
// a generic string.
func extractMessage(body json.RawMessage) string {
	if len(body) > 0 {
		var wrapper struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Message != "" {
			return wrapper.Message
		}
	}
	return genericAPIError
}
