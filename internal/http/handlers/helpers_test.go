package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"parklane/internal/service"
)

func TestWriteServiceErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrLotNotFound, http.StatusNotFound},
		{service.ErrNoActiveSession, http.StatusNotFound},
		{service.ErrDuplicateActiveSession, http.StatusConflict},
		{service.ErrIdentityRequired, http.StatusUnauthorized},
		{service.ErrNotOwner, http.StatusForbidden},
		{service.ErrPlateRequired, http.StatusBadRequest},
		{errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeServiceError(rec, zap.NewNop(), tt.err)
		if rec.Code != tt.want {
			t.Errorf("writeServiceError(%v) status = %d, want %d", tt.err, rec.Code, tt.want)
		}
	}
}
