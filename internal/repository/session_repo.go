package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"parklane/internal/models"
	"parklane/internal/service"
)

// SessionRepository persists parking sessions in Postgres. The
// single-open-session-per-plate invariant is backed by a partial unique index
// on (license_plate) WHERE stopped_at IS NULL, so CreateOpen never races.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository returns repository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, parking_lot_id, license_plate, owner, started_at, stopped_at, duration_minutes, cost, payment_status, created_at, updated_at`

// CreateOpen inserts a new open session. The insert and the existence check
// are a single statement: when another open session holds the plate the
// conflict clause suppresses the row and ErrDuplicateActiveSession is
// returned, whether the duplicate pre-existed or won a concurrent race.
func (r *SessionRepository) CreateOpen(ctx context.Context, session *models.ParkingSession) (*models.ParkingSession, error) {
	const query = `
		INSERT INTO parking_sessions (parking_lot_id, license_plate, owner, started_at, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (license_plate) WHERE stopped_at IS NULL DO NOTHING
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		session.ParkingLotID,
		session.LicensePlate,
		session.Owner,
		session.StartedAt,
		session.PaymentStatus,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrDuplicateActiveSession
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ActiveByPlate returns the open session for the plate.
func (r *SessionRepository) ActiveByPlate(ctx context.Context, licensePlate string) (*models.ParkingSession, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM parking_sessions
		WHERE license_plate = $1 AND stopped_at IS NULL
	`, sessionColumns)

	session, err := scanSession(r.db.QueryRowContext(ctx, query, licensePlate))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Close finalizes the session. The stopped_at IS NULL predicate makes the
// update a compare-and-set: of two racing stops only one sees an affected
// row, the other gets ErrNoActiveSession.
func (r *SessionRepository) Close(ctx context.Context, id int64, stoppedAt time.Time, durationMinutes int64, cost decimal.Decimal) (*models.ParkingSession, error) {
	query := fmt.Sprintf(`
		UPDATE parking_sessions
		SET stopped_at = $2,
		    duration_minutes = $3,
		    cost = $4,
		    payment_status = $5,
		    updated_at = NOW()
		WHERE id = $1 AND stopped_at IS NULL
		RETURNING %s
	`, sessionColumns)

	session, err := scanSession(r.db.QueryRowContext(ctx, query, id, stoppedAt, durationMinutes, cost, models.PaymentStatusPending))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// List returns sessions matching the filter, newest first.
func (r *SessionRepository) List(ctx context.Context, filter service.SessionFilter) ([]models.ParkingSession, error) {
	var (
		conditions []string
		args       []interface{}
	)

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ParkingLotID != 0 {
		conditions = append(conditions, "parking_lot_id = "+arg(filter.ParkingLotID))
	}
	if filter.LicensePlate != "" {
		conditions = append(conditions, "license_plate = "+arg(filter.LicensePlate))
	}
	if filter.Owner != "" {
		conditions = append(conditions, "owner = "+arg(filter.Owner))
	}
	if filter.Date != nil {
		dayStart := filter.Date.UTC().Truncate(24 * time.Hour)
		conditions = append(conditions, "started_at >= "+arg(dayStart))
		conditions = append(conditions, "started_at < "+arg(dayStart.Add(24*time.Hour)))
	}

	query := "SELECT " + sessionColumns + " FROM parking_sessions"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY started_at DESC LIMIT " + arg(filter.Limit)

	return r.querySessions(ctx, query, args...)
}

// ClosedByOwner returns all finished sessions for the owner, newest first.
func (r *SessionRepository) ClosedByOwner(ctx context.Context, owner string) ([]models.ParkingSession, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM parking_sessions
		WHERE owner = $1 AND stopped_at IS NOT NULL
		ORDER BY started_at DESC
	`, sessionColumns)
	return r.querySessions(ctx, query, owner)
}

func (r *SessionRepository) querySessions(ctx context.Context, query string, args ...interface{}) ([]models.ParkingSession, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.ParkingSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*models.ParkingSession, error) {
	var (
		session  models.ParkingSession
		stopped  sql.NullTime
		duration sql.NullInt64
		cost     decimal.NullDecimal
	)
	if err := row.Scan(
		&session.ID,
		&session.ParkingLotID,
		&session.LicensePlate,
		&session.Owner,
		&session.StartedAt,
		&stopped,
		&duration,
		&cost,
		&session.PaymentStatus,
		&session.CreatedAt,
		&session.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if stopped.Valid {
		t := stopped.Time
		session.StoppedAt = &t
	}
	if duration.Valid {
		d := duration.Int64
		session.DurationMinutes = &d
	}
	if cost.Valid {
		c := cost.Decimal
		session.Cost = &c
	}
	return &session, nil
}
