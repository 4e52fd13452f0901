// Package weather proxies the OpenWeatherMap REST API. Responses are passed
// through as raw JSON; the caller decides what to render.
package weather

import (
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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	DefaultTimeout = 10 * time.Second

	maxResponseBytes = 4 << 20
)

// UpstreamError describes a failed provider call. Status is the provider's
// HTTP status, or 0 when the provider could not be reached.
type UpstreamError struct {
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("weather provider unreachable: %v", e.Err)
	}
	return fmt.Sprintf("weather provider returned %d", e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Provider fetches weather data.
type Provider interface {
	Current(ctx context.Context, city string) (json.RawMessage, error)
	Forecast(ctx context.Context, lat, lon float64) (json.RawMessage, error)
	AirQuality(ctx context.Context, lat, lon float64) (json.RawMessage, error)
}

// Client is the HTTP implementation of Provider.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ Provider = (*Client)(nil)

// NewClient builds a client for baseURL. Empty baseURL and non-positive
// timeout fall back to the defaults.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Current returns current conditions for city in metric units.
func (c *Client) Current(ctx context.Context, city string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("units", "metric")
	return c.get(ctx, "/weather", q)
}

// Forecast returns the 5 day / 3 hour forecast at the given coordinates.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (json.RawMessage, error) {
	q := coords(lat, lon)
	q.Set("units", "metric")
	return c.get(ctx, "/forecast", q)
}

// AirQuality returns the current air pollution index at the given coordinates.
func (c *Client) AirQuality(ctx context.Context, lat, lon float64) (json.RawMessage, error) {
	return c.get(ctx, "/air_pollution", coords(lat, lon))
}

func coords(lat, lon float64) url.Values {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return q
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (json.RawMessage, error) {
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}
	if !json.Valid(body) {
		return nil, &UpstreamError{Status: http.StatusBadGateway, Err: errors.New("malformed provider response")}
	}
	return json.RawMessage(body), nil
}
