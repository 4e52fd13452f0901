package httpapi

import (
	"context"
	"net/http"
	"time"
)

const healthPingTimeout = 2 * time.Second

type healthResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Database string `json:"database"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	state := "connected"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn(r.Context(), "database ping failed", "error", err)
			state = "disconnected"
		}
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "OK",
		Time:     time.Now().UTC().Format(time.RFC3339),
		Database: state,
	})
}
