package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"parklane/internal/pricing"
	"parklane/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func errInvalidQuery(param string) error {
	return fmt.Errorf("invalid %s query parameter", param)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Unknown errors are logged and surfaced as 500 without detail.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrLotNotFound),
		errors.Is(err, service.ErrNoActiveSession):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateActiveSession):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrIdentityRequired):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPlateRequired),
		errors.Is(err, pricing.ErrInvalidInterval):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
