package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultClientTimeout = 20 * time.Second

// Client talks to the booking proxy API and implements Fetcher. Call
// Bootstrap before the data methods to obtain a nonce for submissions.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.Mutex
	nonce string
}

// NewClient creates a proxy client for the given API base URL, e.g.
// "https://salon.example/api/v1/booking".
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultClientTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type bootstrapResponse struct {
	RestURL string  `json:"rest_url"`
	Nonce   string  `json:"nonce"`
	Strings Strings `json:"strings"`
}

// Bootstrap loads the widget config: localized strings and the submission
// nonce, which the client stores for Book.
func (c *Client) Bootstrap(ctx context.Context) (Strings, error) {
	body, err := c.get(ctx, "/config", nil)
	if err != nil {
		return Strings{}, err
	}
	var cfg bootstrapResponse
	if err := json.Unmarshal(body, &cfg); err != nil {
		return Strings{}, fmt.Errorf("decode config: %w", err)
	}
	c.mu.Lock()
	c.nonce = cfg.Nonce
	c.mu.Unlock()
	return cfg.Strings, nil
}

// Services lists bookable services.
func (c *Client) Services(ctx context.Context) ([]any, error) {
	body, err := c.get(ctx, "/services", nil)
	if err != nil {
		return nil, err
	}
	return NormalizeList(body), nil
}

// Staff lists staff members for a service.
func (c *Client) Staff(ctx context.Context, serviceID string) ([]any, error) {
	body, err := c.get(ctx, "/staff", url.Values{"service_id": {serviceID}})
	if err != nil {
		return nil, err
	}
	return NormalizeList(body), nil
}

// AvailableDates lists bookable dates for a service and staff member.
func (c *Client) AvailableDates(ctx context.Context, serviceID, staffID string) ([]any, error) {
	body, err := c.get(ctx, "/available-dates", url.Values{
		"service_id": {serviceID},
		"staff_id":   {staffID},
	})
	if err != nil {
		return nil, err
	}
	return NormalizeList(body), nil
}

// AvailableTimes lists time slots on a date.
func (c *Client) AvailableTimes(ctx context.Context, serviceID, staffID, date string) ([]any, error) {
	body, err := c.get(ctx, "/available-times", url.Values{
		"service_id": {serviceID},
		"staff_id":   {staffID},
		"date":       {date},
	})
	if err != nil {
		return nil, err
	}
	return NormalizeList(body), nil
}

// Book submits the booking form with the bootstrap nonce attached.
func (c *Client) Book(ctx context.Context, form FormData) (json.RawMessage, error) {
	payload, err := json.Marshal(map[string]any{
		"name":       form.Name,
		"phone":      form.Phone,
		"email":      form.Email,
		"service_id": form.ServiceID,
		"staff_id":   form.StaffID,
		"date":       form.Date,
		"time":       form.Time,
		"comment":    form.Comment,
		"consent":    form.Consent,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/book", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.mu.Lock()
	if c.nonce != "" {
		req.Header.Set("X-Booking-Nonce", c.nonce)
	}
	c.mu.Unlock()

	return c.do(req)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, errors.New(apiErr.Message)
		}
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
