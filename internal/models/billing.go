package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingSession carries the session facts shown on a billing view.
type BillingSession struct {
	LicensePlate string     `json:"license_plate"`
	StartedAt    time.Time  `json:"started"`
	StoppedAt    *time.Time `json:"stopped"`
	Hours        float64    `json:"hours"`
	Days         int64      `json:"days"`
}

// BillingLot carries the lot facts shown on a billing view.
type BillingLot struct {
	Name         string          `json:"name"`
	Location     string          `json:"location"`
	HourlyTariff decimal.Decimal `json:"tariff"`
	DayTariff    decimal.Decimal `json:"daytariff"`
}

// BillingEntry reconciles one closed session against the payment ledger.
// Balance is cost minus amount paid: positive means outstanding, negative
// means overpaid. Entries are computed on demand and never persisted.
type BillingEntry struct {
	Session    BillingSession  `json:"session"`
	Lot        BillingLot      `json:"parking"`
	Cost       decimal.Decimal `json:"amount"`
	LinkKey    string          `json:"thash"`
	AmountPaid decimal.Decimal `json:"payed"`
	Balance    decimal.Decimal `json:"balance"`
}
