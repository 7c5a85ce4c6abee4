// Package client is the HTTP implementation of the backend contract the
// booking wizard consumes: doctor listings, per-day availability and
// appointment creation. Failures come back as *APIError values carrying
// the server's own message, never as panics.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"sahatak/models"
)

// APIError is a transient, recoverable backend failure: a non-2xx status
// or an unreadable response body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// TokenSource supplies the bearer token for each request; it is owned by
// the host's session layer, not by this package.
type TokenSource func() string

// Client talks to the booking API.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
	logger  *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource sets the bearer-token provider.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

// WithLogger sets the logger; defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New builds a client for the API rooted at baseURL (e.g.
// "https://api.sahatak.example/api").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorBody mirrors the server's standardized error response.
type errorBody struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if t := c.token(); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		msg := http.StatusText(resp.StatusCode)
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
			if eb.Message != "" {
				msg = eb.Message
			} else if eb.Error != "" {
				msg = eb.Error
			}
		}
		c.logger.Debug("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "unreadable response from server"}
	}
	return nil
}

// ListDoctors fetches verified doctors, optionally filtered by specialty.
func (c *Client) ListDoctors(ctx context.Context, specialty string) ([]models.Doctor, error) {
	q := url.Values{}
	if specialty != "" {
		q.Set("specialty", specialty)
	}
	var out struct {
		Doctors []models.Doctor `json:"doctors"`
	}
	if err := c.do(ctx, http.MethodGet, "/doctors", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Doctors, nil
}

// GetDoctor fetches one doctor's full profile.
func (c *Client) GetDoctor(ctx context.Context, id string) (*models.Doctor, error) {
	var out struct {
		Doctor models.Doctor `json:"doctor"`
	}
	if err := c.do(ctx, http.MethodGet, "/doctors/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Doctor, nil
}

// GetAvailability fetches the slot grid for one doctor on one day.
func (c *Client) GetAvailability(ctx context.Context, doctorID string, date models.DateKey) ([]models.AvailabilitySlot, error) {
	q := url.Values{}
	q.Set("date", date.String())
	var out models.DayAvailability
	if err := c.do(ctx, http.MethodGet, "/doctors/"+doctorID+"/availability", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Slots, nil
}

// CreateAppointment submits the final booking.
func (c *Client) CreateAppointment(ctx context.Context, req models.BookingRequest) (*models.Appointment, error) {
	var out struct {
		Appointment models.Appointment `json:"appointment"`
	}
	if err := c.do(ctx, http.MethodPost, "/appointments", nil, req, &out); err != nil {
		return nil, err
	}
	return &out.Appointment, nil
}

// ListSpecialties fetches the distinct specialty codes.
func (c *Client) ListSpecialties(ctx context.Context) ([]string, error) {
	var out struct {
		Specialties []string `json:"specialties"`
	}
	if err := c.do(ctx, http.MethodGet, "/doctors/specialties", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Specialties, nil
}
