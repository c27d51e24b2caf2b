package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"parklane/internal/http/middleware"
	"parklane/internal/models"
	"parklane/internal/service"
)

// SessionsHandler exposes the session lifecycle over HTTP.
type SessionsHandler struct {
	svc    *service.SessionsService
	logger *zap.Logger
}

// NewSessionsHandler builds handler set.
func NewSessionsHandler(svc *service.SessionsService, logger *zap.Logger) *SessionsHandler {
	return &SessionsHandler{svc: svc, logger: logger}
}

// HandleStart handles POST /parking-sessions/start/{lotID}/{plate}.
func (h *SessionsHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	lotID, err := strconv.ParseInt(r.PathValue("lotID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid parking lot id")
		return
	}

	caller := middleware.IdentityFromContext(r.Context())
	session, err := h.svc.Start(r.Context(), lotID, r.PathValue("plate"), caller)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// HandleStop handles POST /parking-sessions/stop/{plate}.
func (h *SessionsHandler) HandleStop(w http.ResponseWriter, r *http.Request) {
	caller := middleware.IdentityFromContext(r.Context())
	session, err := h.svc.Stop(r.Context(), r.PathValue("plate"), caller)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// HandleList handles GET /parking-sessions.
func (h *SessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseSessionFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller := middleware.IdentityFromContext(r.Context())
	sessions, err := h.svc.List(r.Context(), caller, filter)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if sessions == nil {
		sessions = []models.ParkingSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func parseSessionFilter(r *http.Request) (service.SessionFilter, error) {
	var filter service.SessionFilter
	q := r.URL.Query()

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return filter, errInvalidQuery("limit")
		}
		filter.Limit = limit
	}
	if raw := q.Get("parking_lot_id"); raw != "" {
		lotID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, errInvalidQuery("parking_lot_id")
		}
		filter.ParkingLotID = lotID
	}
	if raw := q.Get("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errInvalidQuery("date")
		}
		filter.Date = &date
	}
	filter.LicensePlate = q.Get("license_plate")
	filter.Owner = q.Get("username")
	return filter, nil
}
