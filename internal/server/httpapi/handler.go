// Package httpapi exposes the weatherdesk REST API over net/http.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/weatherdesk/weatherdesk/internal/dbx"
	"github.com/weatherdesk/weatherdesk/internal/logging"
	"github.com/weatherdesk/weatherdesk/internal/server/auth"
	"github.com/weatherdesk/weatherdesk/internal/server/models"
	"github.com/weatherdesk/weatherdesk/internal/server/weather"
)

// Accounts is the subset of services.UserService the handlers use.
type Accounts interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
}

// History is the subset of services.HistoryService the handlers use.
type History interface {
	Save(ctx context.Context, userID, city string, weather json.RawMessage) (*models.HistoryEntry, error)
	Recent(ctx context.Context, userID string) ([]*models.HistoryEntry, error)
}

// TokenVerifier checks bearer tokens. *auth.Issuer satisfies it.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type Handler struct {
	accounts Accounts
	history  History
	weather  weather.Provider
	verifier TokenVerifier
	db       dbx.Pinger
	logger   logging.Logger
}

// NewHandler wires the API. db may be nil, in which case health always
// reports the store as connected.
func NewHandler(accounts Accounts, history History, provider weather.Provider, verifier TokenVerifier, db dbx.Pinger, l logging.Logger) *Handler {
	return &Handler{
		accounts: accounts,
		history:  history,
		weather:  provider,
		verifier: verifier,
		db:       db,
		logger:   l.With("module", "httpapi"),
	}
}

// Routes returns the API mux without the cross-cutting middleware; see
// Handler.Middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)

	mux.Handle("GET /api/user/profile", h.Guard(http.HandlerFunc(h.handleProfile)))

	mux.Handle("POST /api/weather/current", h.Guard(http.HandlerFunc(h.handleCurrent)))
	mux.Handle("POST /api/weather/forecast", h.Guard(http.HandlerFunc(h.handleForecast)))
	mux.Handle("POST /api/weather/air-quality", h.Guard(http.HandlerFunc(h.handleAirQuality)))
	mux.Handle("POST /api/weather/history", h.Guard(http.HandlerFunc(h.handleSaveHistory)))
	mux.Handle("GET /api/weather/history", h.Guard(http.HandlerFunc(h.handleListHistory)))

	mux.HandleFunc("GET /api/health", h.handleHealth)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
	return mux
}

// Middleware wraps Routes with access logging, CORS and the body size limit.
func (h *Handler) Middleware() http.Handler {
	return h.accessLog(cors(limitBody(h.Routes(), maxBodyBytes)))
}
