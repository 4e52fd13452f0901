package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/weatherdesk/weatherdesk/internal/common"
	"github.com/weatherdesk/weatherdesk/internal/server/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// ClaimsFromContext returns the claims Guard stored for the request.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok && c != nil
}

// Guard rejects requests without a usable bearer token: 401 when none is
// supplied, 403 when it fails verification.
func (h *Handler) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get(common.AuthorizationHeader))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := h.verifier.Verify(token)
		if err != nil {
			h.logger.Debug(r.Context(), "token rejected", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusForbidden, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}
