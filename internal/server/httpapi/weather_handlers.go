package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/weatherdesk/weatherdesk/internal/common"
	"github.com/weatherdesk/weatherdesk/internal/server/weather"
)

type cityRequest struct {
	City string `json:"city"`
}

// coordinate accepts a JSON number or a numeric string.
type coordinate struct {
	value float64
	set   bool
}

func (c *coordinate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		c.value, c.set = v, true
		return nil
	}
	if err := json.Unmarshal(b, &c.value); err != nil {
		return err
	}
	c.set = true
	return nil
}

type coordsRequest struct {
	Lat coordinate `json:"lat"`
	Lon coordinate `json:"lon"`
}

type saveHistoryRequest struct {
	City    string          `json:"city"`
	Weather json.RawMessage `json:"weather"`
}

type historyResponse struct {
	ID      string          `json:"id"`
	UserID  string          `json:"userId"`
	City    string          `json:"city"`
	Weather json.RawMessage `json:"weather"`
	Date    time.Time       `json:"date"`
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	var req cityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	city := strings.TrimSpace(req.City)
	if city == "" {
		writeError(w, http.StatusBadRequest, "City is required")
		return
	}

	body, err := h.weather.Current(r.Context(), city)
	h.writeUpstream(w, r, body, err, "Error fetching current weather")
}

func (h *Handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	h.handleCoords(w, r, h.weather.Forecast, "Error fetching forecast")
}

func (h *Handler) handleAirQuality(w http.ResponseWriter, r *http.Request) {
	h.handleCoords(w, r, h.weather.AirQuality, "Error fetching air quality data")
}

func (h *Handler) handleCoords(w http.ResponseWriter, r *http.Request,
	fetch func(ctx context.Context, lat, lon float64) (json.RawMessage, error), failure string) {
	var req coordsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Lat.set || !req.Lon.set {
		writeError(w, http.StatusBadRequest, "Latitude and longitude required")
		return
	}

	body, err := fetch(r.Context(), req.Lat.value, req.Lon.value)
	h.writeUpstream(w, r, body, err, failure)
}

// writeUpstream relays a provider response, or maps its failure to the
// provider status (502 when unreachable).
func (h *Handler) writeUpstream(w http.ResponseWriter, r *http.Request, body json.RawMessage, err error, failure string) {
	if err == nil {
		writeRaw(w, http.StatusOK, body)
		return
	}

	status := http.StatusInternalServerError
	var ue *weather.UpstreamError
	if errors.As(err, &ue) {
		status = ue.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
	}
	h.logger.Warn(r.Context(), "weather provider failed", "path", r.URL.Path, "status", status, "error", err)
	writeError(w, status, failure)
}

func (h *Handler) handleSaveHistory(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req saveHistoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := h.history.Save(r.Context(), claims.UserID, req.City, req.Weather); err != nil {
		var ve *common.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Message)
			return
		}
		h.logger.Error(r.Context(), "save history failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save weather history")
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "Weather history saved"})
}

func (h *Handler) handleListHistory(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	entries, err := h.history.Recent(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error(r.Context(), "list history failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch weather history")
		return
	}

	resp := make([]historyResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, historyResponse{
			ID:      e.ID,
			UserID:  e.UserID,
			City:    e.City,
			Weather: e.Weather,
			Date:    e.Date,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
