package models

import "github.com/shopspring/decimal"

// ParkingLot is the read-only tariff projection of a lot. The catalog service
// owns the full record; this core only reads pricing and display fields.
type ParkingLot struct {
	ID           int64           `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Location     string          `db:"location" json:"location"`
	HourlyTariff decimal.Decimal `db:"tariff" json:"tariff"`
	DayTariff    decimal.Decimal `db:"daytariff" json:"daytariff"`
}
