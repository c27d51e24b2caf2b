package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"parklane/internal/models"
)

// memSessionStore is an in-memory SessionStore. The mutex is held across the
// existence check and the insert, giving the same atomicity guarantee as the
// partial unique index in Postgres.
type memSessionStore struct {
	mu         sync.Mutex
	nextID     int64
	sessions   map[int64]*models.ParkingSession
	lastFilter SessionFilter
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[int64]*models.ParkingSession)}
}

func (m *memSessionStore) CreateOpen(_ context.Context, session *models.ParkingSession) (*models.ParkingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.sessions {
		if existing.LicensePlate == session.LicensePlate && existing.Open() {
			return nil, ErrDuplicateActiveSession
		}
	}

	m.nextID++
	stored := *session
	stored.ID = m.nextID
	stored.CreatedAt = session.StartedAt
	stored.UpdatedAt = session.StartedAt
	m.sessions[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (m *memSessionStore) ActiveByPlate(_ context.Context, licensePlate string) (*models.ParkingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, session := range m.sessions {
		if session.LicensePlate == licensePlate && session.Open() {
			result := *session
			return &result, nil
		}
	}
	return nil, ErrNoActiveSession
}

func (m *memSessionStore) Close(_ context.Context, id int64, stoppedAt time.Time, durationMinutes int64, cost decimal.Decimal) (*models.ParkingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok || !session.Open() {
		return nil, ErrNoActiveSession
	}

	stopped := stoppedAt
	session.StoppedAt = &stopped
	session.DurationMinutes = &durationMinutes
	costCopy := cost
	session.Cost = &costCopy
	session.PaymentStatus = models.PaymentStatusPending
	session.UpdatedAt = stoppedAt

	result := *session
	return &result, nil
}

func (m *memSessionStore) List(_ context.Context, filter SessionFilter) ([]models.ParkingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = filter

	var result []models.ParkingSession
	for _, session := range m.sessions {
		if filter.ParkingLotID != 0 && session.ParkingLotID != filter.ParkingLotID {
			continue
		}
		if filter.LicensePlate != "" && session.LicensePlate != filter.LicensePlate {
			continue
		}
		if filter.Owner != "" && session.Owner != filter.Owner {
			continue
		}
		if filter.Date != nil {
			dayStart := filter.Date.UTC().Truncate(24 * time.Hour)
			if session.StartedAt.Before(dayStart) || !session.StartedAt.Before(dayStart.Add(24*time.Hour)) {
				continue
			}
		}
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
		result = append(result, *session)
	}
	return result, nil
}

func (m *memSessionStore) ClosedByOwner(_ context.Context, owner string) ([]models.ParkingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.ParkingSession
	for _, session := range m.sessions {
		if session.Owner == owner && !session.Open() {
			result = append(result, *session)
		}
	}
	return result, nil
}

// openCount reports how many open sessions exist for the plate.
func (m *memSessionStore) openCount(licensePlate string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, session := range m.sessions {
		if session.LicensePlate == licensePlate && session.Open() {
			count++
		}
	}
	return count
}

type fakeTariffLookup struct {
	lots map[int64]*models.ParkingLot
}

func (f *fakeTariffLookup) LotByID(_ context.Context, id int64) (*models.ParkingLot, error) {
	lot, ok := f.lots[id]
	if !ok {
		return nil, ErrLotNotFound
	}
	result := *lot
	return &result, nil
}

type fakeVehicleRegistry struct {
	owners map[string]string
}

func (f *fakeVehicleRegistry) OwnerByPlate(_ context.Context, licensePlate string) (string, error) {
	return f.owners[licensePlate], nil
}

type fakePaymentLedger struct {
	sums map[string]decimal.Decimal
}

func (f *fakePaymentLedger) SumByLinkKey(_ context.Context, linkKey string) (decimal.Decimal, error) {
	sum, ok := f.sums[linkKey]
	if !ok {
		return decimal.Zero, nil
	}
	return sum, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []SessionEvent
}

func (r *recordingPublisher) Publish(event SessionEvent) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	types := make([]string, len(r.events))
	for i, event := range r.events {
		types[i] = event.Type
	}
	return types
}
