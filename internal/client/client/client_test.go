package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/api/", time.Second)
}

func TestLogin_SendsCredentialsAndDecodes(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"email": "a@x.com", "password": "pw"}, body)

		_, _ = io.WriteString(w, `{"token":"t1","user":{"id":"u1","username":"alice","email":"a@x.com"}}`)
	})

	got, err := c.Login(context.Background(), "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.Token)
	assert.Equal(t, "alice", got.User.Username)
}

func TestLogin_ServerMessage(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
	})

	_, err := c.Login(context.Background(), "a@x.com", "bad")
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadRequest, ae.Status)
	assert.Equal(t, "Invalid credentials", Message(err))
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestProfile_BearerAndUnauthorized(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"message":"Invalid or expired token"}`)
		})

		_, err := c.Profile(context.Background(), "tok")
		assert.ErrorIs(t, err, ErrUnauthorized, "status %d", status)
	}
}

func TestProfile_MalformedBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>oops</html>`)
	})

	_, err := c.Profile(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestProfile_MissingID(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"username":"alice"}`)
	})

	_, err := c.Profile(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(url, time.Second).Health(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	c.http.Timeout = 50 * time.Millisecond

	_, err := c.Profile(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestWeatherAndHistoryCalls(t *testing.T) {
	var seen []string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		switch r.URL.Path {
		case "/api/weather/current":
			_, _ = io.WriteString(w, `{"name":"Paris","coord":{"lat":48.85,"lon":2.35}}`)
		case "/api/weather/forecast", "/api/weather/air-quality":
			var body map[string]float64
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, 48.85, body["lat"])
			_, _ = io.WriteString(w, `{"list":[]}`)
		case "/api/weather/history":
			if r.Method == http.MethodPost {
				var body map[string]json.RawMessage
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.JSONEq(t, `"Paris"`, string(body["city"]))
				assert.JSONEq(t, `{"name":"Paris"}`, string(body["weather"]))
				w.WriteHeader(http.StatusCreated)
				_, _ = io.WriteString(w, `{"message":"Weather history saved"}`)
				return
			}
			_, _ = io.WriteString(w, `[{"id":"h1","city":"Paris","weather":{"name":"Paris"},"date":"2026-01-02T03:04:05Z"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	cur, err := c.CurrentWeather(ctx, "tok", "Paris")
	require.NoError(t, err)
	assert.Contains(t, string(cur), "Paris")

	_, err = c.Forecast(ctx, "tok", 48.85, 2.35)
	require.NoError(t, err)
	_, err = c.AirQuality(ctx, "tok", 48.85, 2.35)
	require.NoError(t, err)

	require.NoError(t, c.SaveHistory(ctx, "tok", "Paris", json.RawMessage(`{"name":"Paris"}`)))

	list, err := c.History(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Paris", list[0].City)

	assert.Equal(t, []string{
		"POST /api/weather/current",
		"POST /api/weather/forecast",
		"POST /api/weather/air-quality",
		"POST /api/weather/history",
		"GET /api/weather/history",
	}, seen)
}

func TestRegister_ReturnsMessage(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"User registered successfully"}`)
	})

	msg, err := c.Register(context.Background(), "alice", "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully", msg)
}

func TestAPIError_Text(t *testing.T) {
	assert.Equal(t, "server returned 500", (&APIError{Status: 500}).Error())
	assert.Equal(t, "server returned 400: nope", (&APIError{Status: 400, Message: "nope"}).Error())
	assert.Empty(t, Message(errors.New("plain")))
}
