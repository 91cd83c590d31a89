// Package client is a Go client for the booking registry HTTP API.
//
// CreateOrConfirm is safe to retry: every attempt carries the same
// idempotency key, so a retried request that already succeeded comes back
// as a confirmation of the stored booking.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"booking-registry/internal/infrastructure/httpx"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrSlotConflict   = errors.New("slot already booked")
	ErrRateLimited    = errors.New("rate limited")
)

type Booking struct {
	ID             int64     `json:"id"`
	TenantID       string    `json:"tenant_id"`
	StartTimeUTC   string    `json:"start_time_utc"`
	IdempotencyKey string    `json:"idempotency_key"`
	CreatedAt      time.Time `json:"created_at"`
}

type CreateResult struct {
	Booking Booking
	// Created is false when the key was already stored.
	Created bool
}

type Client struct {
	baseURL string
	http    *httpx.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http.HTTP = hc } }
func WithToken(token string) Option         { return func(c *Client) { c.http.Token = token } }

// WithRetry bounds the backoff used for transport failures and 5xx answers.
func WithRetry(initial, maxElapsed time.Duration) Option {
	return func(c *Client) {
		c.http.InitialInterval = initial
		c.http.MaxElapsedTime = maxElapsed
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &httpx.Client{HTTP: &http.Client{Timeout: 5 * time.Second}},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) CreateOrConfirm(ctx context.Context, tenantID, startTimeUTC, idempotencyKey string) (CreateResult, error) {
	body := map[string]string{
		"tenant_id":       tenantID,
		"start_time_utc":  startTimeUTC,
		"idempotency_key": idempotencyKey,
	}
	var b Booking
	code, err := c.http.DoJSON(ctx, http.MethodPost, c.baseURL+"/bookings", body, nil, &b)
	if err != nil {
		return CreateResult{}, mapError(err)
	}
	return CreateResult{Booking: b, Created: code == http.StatusCreated}, nil
}

func (c *Client) ListByTenant(ctx context.Context, tenantID string) ([]Booking, error) {
	u := c.baseURL + "/bookings?" + url.Values{"tenant_id": {tenantID}}.Encode()
	out := []Booking{}
	if _, err := c.http.DoJSON(ctx, http.MethodGet, u, nil, nil, &out); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func mapError(err error) error {
	var se *httpx.StatusError
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.TrimPrefix(se.Message, "invalid request: "))
	case http.StatusConflict:
		return ErrSlotConflict
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return err
	}
}
