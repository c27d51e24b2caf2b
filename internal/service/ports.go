package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"parklane/internal/models"
)

// SessionFilter narrows session listings. Zero values mean "no filter".
type SessionFilter struct {
	ParkingLotID int64
	LicensePlate string
	Date         *time.Time
	Owner        string
	Limit        int
}

// SessionStore persists parking sessions. CreateOpen must be atomic with
// respect to the single-open-session-per-plate invariant: when an open session
// for the plate already exists (or a concurrent caller wins the insert) it
// returns ErrDuplicateActiveSession and leaves no partial state behind.
type SessionStore interface {
	CreateOpen(ctx context.Context, session *models.ParkingSession) (*models.ParkingSession, error)
	ActiveByPlate(ctx context.Context, licensePlate string) (*models.ParkingSession, error)
	// Close finalizes the session only if it is still open; a raced or
	// already-closed session yields ErrNoActiveSession.
	Close(ctx context.Context, id int64, stoppedAt time.Time, durationMinutes int64, cost decimal.Decimal) (*models.ParkingSession, error)
	List(ctx context.Context, filter SessionFilter) ([]models.ParkingSession, error)
	ClosedByOwner(ctx context.Context, owner string) ([]models.ParkingSession, error)
}

// TariffLookup resolves a parking lot to its tariff view.
type TariffLookup interface {
	LotByID(ctx context.Context, id int64) (*models.ParkingLot, error)
}

// VehicleRegistry resolves a license plate to the username it is registered
// to. An unregistered plate yields an empty username and no error.
type VehicleRegistry interface {
	OwnerByPlate(ctx context.Context, licensePlate string) (string, error)
}

// PaymentLedger sums recorded payment amounts per link key (zero if none).
type PaymentLedger interface {
	SumByLinkKey(ctx context.Context, linkKey string) (decimal.Decimal, error)
}

// ActiveSessionCache is a best-effort cache of open sessions. Failures are
// logged and ignored; the store stays authoritative.
type ActiveSessionCache interface {
	Save(ctx context.Context, session *models.ParkingSession) error
	Delete(ctx context.Context, licensePlate string) error
}

// Session event types pushed to the live feed.
const (
	EventSessionStarted = "session_started"
	EventSessionStopped = "session_stopped"
)

// SessionEvent is broadcast on lifecycle transitions.
type SessionEvent struct {
	Type    string                 `json:"type"`
	Session *models.ParkingSession `json:"session"`
}

// EventPublisher fans session events out to connected listeners.
type EventPublisher interface {
	Publish(event SessionEvent)
}
