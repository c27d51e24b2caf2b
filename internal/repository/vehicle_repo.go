package repository

import (
	"context"
	"database/sql"
	"errors"
)

// VehicleRepository resolves license plates to the accounts they are
// registered under.
type VehicleRepository struct {
	db *sql.DB
}

// NewVehicleRepository returns repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// OwnerByPlate returns the username the plate is registered to, or an empty
// string when the plate is unregistered.
func (r *VehicleRepository) OwnerByPlate(ctx context.Context, licensePlate string) (string, error) {
	const query = `
		SELECT u.username
		FROM vehicles v
		JOIN users u ON u.id = v.user_id
		WHERE v.license_plate = $1
	`
	var username string
	err := r.db.QueryRowContext(ctx, query, licensePlate).Scan(&username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return username, nil
}
