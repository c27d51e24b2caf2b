package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"parklane/internal/identity"
	"parklane/internal/models"
	"parklane/internal/pricing"
)

const maxListLimit = 100

// SessionsService owns the parking session state machine: it enforces the
// single-active-session invariant and the ownership rules at start and stop,
// and prices the session when it closes.
type SessionsService struct {
	store    SessionStore
	lots     TariffLookup
	vehicles VehicleRegistry
	cache    ActiveSessionCache
	events   EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewSessionsService builds the lifecycle manager. Cache and events may be
// nil; both are best-effort side channels.
func NewSessionsService(
	store SessionStore,
	lots TariffLookup,
	vehicles VehicleRegistry,
	cache ActiveSessionCache,
	events EventPublisher,
	logger *zap.Logger,
) *SessionsService {
	return &SessionsService{
		store:    store,
		lots:     lots,
		vehicles: vehicles,
		cache:    cache,
		events:   events,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start opens a metered session for the plate at the given lot.
//
// The caller may be anonymous, in which case the session is owned by "guest".
// Non-admin callers cannot start a session for a plate registered to another
// account: anonymous callers get ErrIdentityRequired, mismatched identities
// get ErrNotOwner. A plate with an open session yields
// ErrDuplicateActiveSession regardless of who asks.
func (s *SessionsService) Start(ctx context.Context, parkingLotID int64, licensePlate string, caller *identity.Identity) (*models.ParkingSession, error) {
	licensePlate = strings.TrimSpace(licensePlate)
	if licensePlate == "" {
		return nil, ErrPlateRequired
	}

	lot, err := s.lots.LotByID(ctx, parkingLotID)
	if err != nil {
		return nil, err
	}

	owner := models.GuestOwner
	if caller != nil {
		owner = caller.Username
	}

	if !caller.IsAdmin() {
		registeredTo, err := s.vehicles.OwnerByPlate(ctx, licensePlate)
		if err != nil {
			return nil, err
		}
		if registeredTo != "" {
			if caller == nil {
				return nil, ErrIdentityRequired
			}
			if caller.Username != registeredTo {
				return nil, ErrNotOwner
			}
		}
	}

	session := &models.ParkingSession{
		ParkingLotID:  lot.ID,
		LicensePlate:  licensePlate,
		Owner:         owner,
		StartedAt:     s.now(),
		PaymentStatus: models.PaymentStatusOngoing,
	}

	created, err := s.store.CreateOpen(ctx, session)
	if errors.Is(err, ErrDuplicateActiveSession) {
		created, err = s.retryStart(ctx, session)
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.Save(ctx, created); cacheErr != nil {
			s.logger.Warn("failed to cache active session", zap.Error(cacheErr))
		}
	}
	s.publish(EventSessionStarted, created)

	s.logger.Info("parking session started",
		zap.Int64("session_id", created.ID),
		zap.Int64("parking_lot_id", created.ParkingLotID),
		zap.String("license_plate", created.LicensePlate),
		zap.String("owner", created.Owner),
	)
	return created, nil
}

// retryStart re-checks the invariant once after a lost insert race. If the
// winner is still open this is a genuine duplicate; if it already stopped in
// the meantime the insert is attempted one more time.
func (s *SessionsService) retryStart(ctx context.Context, session *models.ParkingSession) (*models.ParkingSession, error) {
	_, lookupErr := s.store.ActiveByPlate(ctx, session.LicensePlate)
	if lookupErr == nil {
		return nil, ErrDuplicateActiveSession
	}
	if !errors.Is(lookupErr, ErrNoActiveSession) {
		return nil, lookupErr
	}
	return s.store.CreateOpen(ctx, session)
}

// Stop closes the open session for the plate, pricing it against the lot
// tariffs. Guest-owned sessions may be stopped by anyone; otherwise non-admin
// callers must match the session owner. A plate without an open session
// yields ErrNoActiveSession.
func (s *SessionsService) Stop(ctx context.Context, licensePlate string, caller *identity.Identity) (*models.ParkingSession, error) {
	licensePlate = strings.TrimSpace(licensePlate)
	if licensePlate == "" {
		return nil, ErrPlateRequired
	}

	active, err := s.store.ActiveByPlate(ctx, licensePlate)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() && active.Owner != models.GuestOwner {
		if caller == nil {
			return nil, ErrIdentityRequired
		}
		if caller.Username != active.Owner {
			return nil, ErrNotOwner
		}
	}

	lot, err := s.lots.LotByID(ctx, active.ParkingLotID)
	if err != nil {
		return nil, err
	}

	stoppedAt := s.now()
	cost, err := pricing.Price(active.StartedAt, stoppedAt, lot.HourlyTariff, lot.DayTariff)
	if err != nil {
		return nil, err
	}
	durationMinutes := int64(stoppedAt.Sub(active.StartedAt) / time.Minute)

	closed, err := s.store.Close(ctx, active.ID, stoppedAt, durationMinutes, cost)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.Delete(ctx, licensePlate); cacheErr != nil {
			s.logger.Warn("failed to evict active session cache", zap.Error(cacheErr))
		}
	}
	s.publish(EventSessionStopped, closed)

	s.logger.Info("parking session stopped",
		zap.Int64("session_id", closed.ID),
		zap.String("license_plate", closed.LicensePlate),
		zap.Int64("duration_minutes", durationMinutes),
		zap.String("cost", cost.String()),
	)
	return closed, nil
}

// List returns sessions matching the filter. Admins see every matching
// session; other callers only their own, whatever owner filter they supply.
// The limit is clamped to 100.
func (s *SessionsService) List(ctx context.Context, caller *identity.Identity, filter SessionFilter) ([]models.ParkingSession, error) {
	if caller == nil {
		return nil, ErrIdentityRequired
	}
	if filter.Limit <= 0 || filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if !caller.IsAdmin() {
		filter.Owner = caller.Username
	}
	return s.store.List(ctx, filter)
}

func (s *SessionsService) publish(eventType string, session *models.ParkingSession) {
	if s.events == nil {
		return
	}
	s.events.Publish(SessionEvent{Type: eventType, Session: session})
}
