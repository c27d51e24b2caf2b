package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"parklane/internal/http/middleware"
	"parklane/internal/service"
)

// BillingHandler exposes the reconciliation views.
type BillingHandler struct {
	svc    *service.BillingService
	logger *zap.Logger
}

// NewBillingHandler builds handler set.
func NewBillingHandler(svc *service.BillingService, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{svc: svc, logger: logger}
}

// HandleOwn handles GET /billing: the caller's own billing entries.
func (h *BillingHandler) HandleOwn(w http.ResponseWriter, r *http.Request) {
	caller := middleware.IdentityFromContext(r.Context())
	entries, err := h.svc.GetBilling(r.Context(), caller, "")
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleByUsername handles GET /billing/{username} (admin only for other users).
func (h *BillingHandler) HandleByUsername(w http.ResponseWriter, r *http.Request) {
	caller := middleware.IdentityFromContext(r.Context())
	entries, err := h.svc.GetBilling(r.Context(), caller, r.PathValue("username"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
