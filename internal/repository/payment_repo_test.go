package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func TestSumByLinkKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("abc123").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("20.00"))

	repo := NewPaymentRepository(db)
	total, err := repo.SumByLinkKey(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("SumByLinkKey failed: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(20)) {
		t.Errorf("total = %s, want 20", total)
	}
}

func TestSumByLinkKeyNoPayments(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("0"))

	repo := NewPaymentRepository(db)
	total, err := repo.SumByLinkKey(context.Background(), "missing")
	if err != nil {
		t.Fatalf("SumByLinkKey failed: %v", err)
	}
	if !total.IsZero() {
		t.Errorf("total = %s, want 0", total)
	}
}
