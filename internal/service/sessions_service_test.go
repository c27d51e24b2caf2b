package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"parklane/internal/identity"
	"parklane/internal/models"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return v
}

type sessionsFixture struct {
	svc    *SessionsService
	store  *memSessionStore
	events *recordingPublisher
	clock  *time.Time
}

func newSessionsFixture(t *testing.T, registeredPlates map[string]string) *sessionsFixture {
	t.Helper()

	store := newMemSessionStore()
	lots := &fakeTariffLookup{lots: map[int64]*models.ParkingLot{
		1: {
			ID:           1,
			Name:         "Central Garage",
			Location:     "Main St 1",
			HourlyTariff: mustDecimal(t, "5.0"),
			DayTariff:    mustDecimal(t, "20.0"),
		},
	}}
	vehicles := &fakeVehicleRegistry{owners: registeredPlates}
	events := &recordingPublisher{}

	svc := NewSessionsService(store, lots, vehicles, nil, events, zap.NewNop())
	now := time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return &sessionsFixture{svc: svc, store: store, events: events, clock: &now}
}

func (f *sessionsFixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func user(name string) *identity.Identity {
	return &identity.Identity{UserID: 1, Username: name, Role: identity.RoleUser}
}

func admin(name string) *identity.Identity {
	return &identity.Identity{UserID: 2, Username: name, Role: identity.RoleAdmin}
}

func TestStartAsGuest(t *testing.T) {
	f := newSessionsFixture(t, nil)

	session, err := f.svc.Start(context.Background(), 1, "TST123", nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if session.Owner != models.GuestOwner {
		t.Errorf("owner = %q, want %q", session.Owner, models.GuestOwner)
	}
	if session.PaymentStatus != models.PaymentStatusOngoing {
		t.Errorf("payment status = %q, want %q", session.PaymentStatus, models.PaymentStatusOngoing)
	}
	if !session.Open() {
		t.Error("new session should be open")
	}
	if session.ID == 0 {
		t.Error("session should have an id assigned")
	}
}

func TestStartUnknownLot(t *testing.T) {
	f := newSessionsFixture(t, nil)

	_, err := f.svc.Start(context.Background(), 9999, "TST123", nil)
	if !errors.Is(err, ErrLotNotFound) {
		t.Fatalf("expected ErrLotNotFound, got %v", err)
	}
}

func TestStartBlankPlate(t *testing.T) {
	f := newSessionsFixture(t, nil)

	_, err := f.svc.Start(context.Background(), 1, "   ", nil)
	if !errors.Is(err, ErrPlateRequired) {
		t.Fatalf("expected ErrPlateRequired, got %v", err)
	}
}

func TestStartDuplicateActiveSession(t *testing.T) {
	f := newSessionsFixture(t, nil)
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, 1, "DUP123", nil); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	_, err := f.svc.Start(ctx, 1, "DUP123", nil)
	if !errors.Is(err, ErrDuplicateActiveSession) {
		t.Fatalf("expected ErrDuplicateActiveSession, got %v", err)
	}
}

func TestStartAfterStopSamePlate(t *testing.T) {
	f := newSessionsFixture(t, nil)
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, 1, "CYC123", nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	f.advance(10 * time.Minute)
	if _, err := f.svc.Stop(ctx, "CYC123", nil); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if _, err := f.svc.Start(ctx, 1, "CYC123", nil); err != nil {
		t.Fatalf("restart after stop failed: %v", err)
	}
}

func TestStartOwnershipEnforcement(t *testing.T) {
	registered := map[string]string{"REG123": "alice"}

	tests := []struct {
		name    string
		caller  *identity.Identity
		wantErr error
	}{
		{name: "anonymous caller", caller: nil, wantErr: ErrIdentityRequired},
		{name: "other user", caller: user("bob"), wantErr: ErrNotOwner},
		{name: "registered owner", caller: user("alice")},
		{name: "admin bypasses check", caller: admin("bob")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionsFixture(t, registered)
			_, err := f.svc.Start(context.Background(), 1, "REG123", tt.caller)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Start error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConcurrentStartsSinglePlate(t *testing.T) {
	f := newSessionsFixture(t, nil)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Start(context.Background(), 1, "RACE123", nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrDuplicateActiveSession):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("successes = %d, want 1", succeeded)
	}
	if conflicts != workers-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, workers-1)
	}
	if open := f.store.openCount("RACE123"); open != 1 {
		t.Errorf("open sessions = %d, want 1", open)
	}
}

func TestStopGuestLifecycle(t *testing.T) {
	f := newSessionsFixture(t, nil)
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, 1, "TST", nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	f.advance(10 * time.Minute)
	session, err := f.svc.Stop(ctx, "TST", nil)
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if session.PaymentStatus != models.PaymentStatusPending {
		t.Errorf("payment status = %q, want %q", session.PaymentStatus, models.PaymentStatusPending)
	}
	if session.StoppedAt == nil {
		t.Fatal("stopped session should have StoppedAt set")
	}
	if session.DurationMinutes == nil || *session.DurationMinutes != 10 {
		t.Errorf("duration = %v, want 10", session.DurationMinutes)
	}
	if session.Cost == nil || !session.Cost.Equal(mustDecimal(t, "5.0")) {
		t.Errorf("cost = %v, want 5.0", session.Cost)
	}

	wantEvents := []string{EventSessionStarted, EventSessionStopped}
	got := f.events.types()
	if len(got) != len(wantEvents) {
		t.Fatalf("events = %v, want %v", got, wantEvents)
	}
	for i := range wantEvents {
		if got[i] != wantEvents[i] {
			t.Errorf("event[%d] = %q, want %q", i, got[i], wantEvents[i])
		}
	}
}

func TestStopNoActiveSession(t *testing.T) {
	f := newSessionsFixture(t, nil)

	_, err := f.svc.Stop(context.Background(), "NOPE123", nil)
	if !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestStopAlreadyStopped(t *testing.T) {
	f := newSessionsFixture(t, nil)
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, 1, "ONCE123", nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	f.advance(5 * time.Minute)
	if _, err := f.svc.Stop(ctx, "ONCE123", nil); err != nil {
		t.Fatalf("first Stop failed: %v", err)
	}
	_, err := f.svc.Stop(ctx, "ONCE123", nil)
	if !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("second Stop: expected ErrNoActiveSession, got %v", err)
	}
}

func TestStopOwnershipEnforcement(t *testing.T) {
	tests := []struct {
		name    string
		starter *identity.Identity
		stopper *identity.Identity
		wantErr error
	}{
		{name: "guest session stopped by anyone", starter: nil, stopper: user("bob")},
		{name: "owner stops own session", starter: user("alice"), stopper: user("alice")},
		{name: "admin stops any session", starter: user("alice"), stopper: admin("root")},
		{name: "anonymous cannot stop owned session", starter: user("alice"), stopper: nil, wantErr: ErrIdentityRequired},
		{name: "other user cannot stop owned session", starter: user("alice"), stopper: user("bob"), wantErr: ErrNotOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionsFixture(t, nil)
			ctx := context.Background()

			if _, err := f.svc.Start(ctx, 1, "OWN123", tt.starter); err != nil {
				t.Fatalf("Start failed: %v", err)
			}
			f.advance(5 * time.Minute)

			_, err := f.svc.Stop(ctx, "OWN123", tt.stopper)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Stop error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestListRequiresIdentity(t *testing.T) {
	f := newSessionsFixture(t, nil)

	_, err := f.svc.List(context.Background(), nil, SessionFilter{})
	if !errors.Is(err, ErrIdentityRequired) {
		t.Fatalf("expected ErrIdentityRequired, got %v", err)
	}
}

func TestListClampsLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "oversized limit clamped", limit: 1000, want: 100},
		{name: "zero limit defaults", limit: 0, want: 100},
		{name: "negative limit defaults", limit: -5, want: 100},
		{name: "small limit kept", limit: 7, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionsFixture(t, nil)

			if _, err := f.svc.List(context.Background(), admin("root"), SessionFilter{Limit: tt.limit}); err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if got := f.store.lastFilter.Limit; got != tt.want {
				t.Errorf("store saw limit %d, want %d", got, tt.want)
			}
		})
	}
}

func TestListFiltersByDate(t *testing.T) {
	f := newSessionsFixture(t, nil)
	ctx := context.Background()

	// One session on Jan 1, one on Jan 2.
	if _, err := f.svc.Start(ctx, 1, "DAY111", nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	f.advance(26 * time.Hour)
	if _, err := f.svc.Start(ctx, 1, "DAY222", nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	date := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	sessions, err := f.svc.List(ctx, admin("root"), SessionFilter{Date: &date})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sessions) != 1 || sessions[0].LicensePlate != "DAY111" {
		t.Fatalf("sessions = %+v, want only DAY111", sessions)
	}
}

func TestListScopesNonAdminsToOwnSessions(t *testing.T) {
	f := newSessionsFixture(t, nil)
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, 1, "AAA111", user("alice")); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := f.svc.Start(ctx, 1, "BBB222", user("bob")); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// A username filter supplied by a non-admin is overridden.
	sessions, err := f.svc.List(ctx, user("alice"), SessionFilter{Owner: "bob"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Owner != "alice" {
		t.Fatalf("non-admin list = %+v, want only alice's session", sessions)
	}

	all, err := f.svc.List(ctx, admin("root"), SessionFilter{})
	if err != nil {
		t.Fatalf("admin List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin list length = %d, want 2", len(all))
	}
}
