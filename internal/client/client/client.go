package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/weatherdesk/weatherdesk/internal/client/models"
	"github.com/weatherdesk/weatherdesk/internal/common"
)

const maxResponseBytes = 8 << 20

// Client is the API surface the CLI uses.
type Client interface {
	Register(ctx context.Context, username, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Profile(ctx context.Context, token string) (*models.Profile, error)
	CurrentWeather(ctx context.Context, token, city string) (json.RawMessage, error)
	Forecast(ctx context.Context, token string, lat, lon float64) (json.RawMessage, error)
	AirQuality(ctx context.Context, token string, lat, lon float64) (json.RawMessage, error)
	SaveHistory(ctx context.Context, token, city string, weather json.RawMessage) error
	History(ctx context.Context, token string) ([]models.HistoryEntry, error)
	Health(ctx context.Context) (*models.Health, error)
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient targets baseURL, e.g. "http://localhost:8080/api". Every
// request is bounded by timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type messageBody struct {
	Message string `json:"message"`
}

// Register returns the server's confirmation message.
func (c *HTTPClient) Register(ctx context.Context, username, email, password string) (string, error) {
	var out messageBody
	err := c.do(ctx, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &out)
	return out.Message, err
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Profile(ctx context.Context, token string) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodGet, "/user/profile", token, nil, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("%w: profile without id", ErrMalformedResponse)
	}
	return &out, nil
}

func (c *HTTPClient) CurrentWeather(ctx context.Context, token, city string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodPost, "/weather/current", token, map[string]string{"city": city}, &out)
	return out, err
}

func (c *HTTPClient) Forecast(ctx context.Context, token string, lat, lon float64) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodPost, "/weather/forecast", token, map[string]float64{"lat": lat, "lon": lon}, &out)
	return out, err
}

func (c *HTTPClient) AirQuality(ctx context.Context, token string, lat, lon float64) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodPost, "/weather/air-quality", token, map[string]float64{"lat": lat, "lon": lon}, &out)
	return out, err
}

func (c *HTTPClient) SaveHistory(ctx context.Context, token, city string, weather json.RawMessage) error {
	return c.do(ctx, http.MethodPost, "/weather/history", token, struct {
		City    string          `json:"city"`
		Weather json.RawMessage `json:"weather"`
	}{City: city, Weather: weather}, nil)
}

func (c *HTTPClient) History(ctx context.Context, token string) ([]models.HistoryEntry, error) {
	var out []models.HistoryEntry
	if err := c.do(ctx, http.MethodGet, "/weather/history", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Health(ctx context.Context) (*models.Health, error) {
	var out models.Health
	if err := c.do(ctx, http.MethodGet, "/health", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends in as JSON (when non-nil) and decodes a 2xx body into out (when
// non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var m messageBody
		_ = json.Unmarshal(raw, &m)
		return &APIError{Status: resp.StatusCode, Message: m.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}
