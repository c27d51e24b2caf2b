package repository

import (
	"context"
	"database/sql"
	"errors"

	"parklane/internal/models"
	"parklane/internal/service"
)

// LotRepository reads the tariff projection of parking lots. The catalog
// component owns the table; this core never writes it.
type LotRepository struct {
	db *sql.DB
}

// NewLotRepository returns repository.
func NewLotRepository(db *sql.DB) *LotRepository {
	return &LotRepository{db: db}
}

// LotByID resolves a lot to its tariff view.
func (r *LotRepository) LotByID(ctx context.Context, id int64) (*models.ParkingLot, error) {
	const query = `
		SELECT id, name, location, tariff, daytariff
		FROM parking_lots
		WHERE id = $1
	`
	var lot models.ParkingLot
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&lot.ID,
		&lot.Name,
		&lot.Location,
		&lot.HourlyTariff,
		&lot.DayTariff,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrLotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lot, nil
}
