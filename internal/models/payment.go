package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is an external ledger record. Payments are associated with sessions
// through a deterministic link key, not a foreign key; this core only sums
// amounts per key.
type Payment struct {
	LinkKey   string          `db:"transaction" json:"transaction"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
