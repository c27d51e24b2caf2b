package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"parklane/internal/identity"
	"parklane/internal/models"
)

const minutesPerDay = 60 * 24

// BillingService reconciles closed sessions against the payment ledger.
type BillingService struct {
	store  SessionStore
	lots   TariffLookup
	ledger PaymentLedger
	logger *zap.Logger
}

// NewBillingService builds the aggregator.
func NewBillingService(store SessionStore, lots TariffLookup, ledger PaymentLedger, logger *zap.Logger) *BillingService {
	return &BillingService{
		store:  store,
		lots:   lots,
		ledger: ledger,
		logger: logger,
	}
}

// GetBilling returns one entry per closed session owned by the target
// username. An empty target means the caller's own billing; asking for
// someone else's requires the admin role. Sessions whose lot no longer
// resolves are skipped.
func (b *BillingService) GetBilling(ctx context.Context, caller *identity.Identity, targetUsername string) ([]models.BillingEntry, error) {
	if caller == nil {
		return nil, ErrIdentityRequired
	}
	if targetUsername == "" {
		targetUsername = caller.Username
	}
	if targetUsername != caller.Username && !caller.IsAdmin() {
		return nil, ErrNotOwner
	}

	sessions, err := b.store.ClosedByOwner(ctx, targetUsername)
	if err != nil {
		return nil, err
	}

	entries := make([]models.BillingEntry, 0, len(sessions))
	for i := range sessions {
		session := &sessions[i]

		lot, err := b.lots.LotByID(ctx, session.ParkingLotID)
		if errors.Is(err, ErrLotNotFound) {
			b.logger.Warn("skipping session with unresolvable parking lot",
				zap.Int64("session_id", session.ID),
				zap.Int64("parking_lot_id", session.ParkingLotID),
			)
			continue
		}
		if err != nil {
			return nil, err
		}

		linkKey := ComputeLinkKey(session.ID, session.LicensePlate)
		amountPaid, err := b.ledger.SumByLinkKey(ctx, linkKey)
		if err != nil {
			return nil, err
		}

		cost := decimal.Zero
		if session.Cost != nil {
			cost = *session.Cost
		}
		var durationMinutes int64
		if session.DurationMinutes != nil {
			durationMinutes = *session.DurationMinutes
		}

		entries = append(entries, models.BillingEntry{
			Session: models.BillingSession{
				LicensePlate: session.LicensePlate,
				StartedAt:    session.StartedAt,
				StoppedAt:    session.StoppedAt,
				Hours:        float64(durationMinutes) / 60,
				Days:         durationMinutes / minutesPerDay,
			},
			Lot: models.BillingLot{
				Name:         lot.Name,
				Location:     lot.Location,
				HourlyTariff: lot.HourlyTariff,
				DayTariff:    lot.DayTariff,
			},
			Cost:       cost,
			LinkKey:    linkKey,
			AmountPaid: amountPaid,
			Balance:    cost.Sub(amountPaid),
		})
	}
	return entries, nil
}
