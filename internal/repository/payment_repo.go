package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
)

// PaymentRepository reads the payment ledger. Payments are written by the
// payment component; this core only sums amounts per link key.
type PaymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository returns repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// SumByLinkKey totals all payment amounts recorded under the link key,
// zero when none exist.
func (r *PaymentRepository) SumByLinkKey(ctx context.Context, linkKey string) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE transaction = $1
	`
	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, linkKey).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
