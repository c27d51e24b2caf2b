package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"parklane/internal/http/middleware"
	"parklane/internal/ws"
)

// NewEventsHandler returns the GET /events websocket upgrade handler. The
// live feed shows every session in the system, so it is admin only.
func NewEventsHandler(hub *ws.Hub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := middleware.IdentityFromContext(r.Context())
		if caller == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !caller.IsAdmin() {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		if err := hub.Subscribe(w, r); err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
		}
	}
}
