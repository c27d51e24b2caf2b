package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment status values for a parking session.
const (
	PaymentStatusOngoing = "ongoing"
	PaymentStatusPending = "pending"
	PaymentStatusSettled = "settled"
)

// GuestOwner marks sessions started without an authenticated caller.
const GuestOwner = "guest"

// ParkingSession represents one physical parking occupation. A session is open
// while StoppedAt is nil; DurationMinutes and Cost are set exactly once when
// the session is stopped.
type ParkingSession struct {
	ID              int64            `db:"id" json:"id"`
	ParkingLotID    int64            `db:"parking_lot_id" json:"parking_lot_id"`
	LicensePlate    string           `db:"license_plate" json:"license_plate"`
	Owner           string           `db:"owner" json:"owner"`
	StartedAt       time.Time        `db:"started_at" json:"started_at"`
	StoppedAt       *time.Time       `db:"stopped_at" json:"stopped_at"`
	DurationMinutes *int64           `db:"duration_minutes" json:"duration_minutes"`
	Cost            *decimal.Decimal `db:"cost" json:"cost"`
	PaymentStatus   string           `db:"payment_status" json:"payment_status"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

// Open reports whether the session is still running.
func (s *ParkingSession) Open() bool {
	return s.StoppedAt == nil
}
