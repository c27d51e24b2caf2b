package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"parklane/internal/models"
)

// ActiveSessionStore caches open sessions by license plate for quick lookups
// from dashboards and gate devices. It is best-effort only: the session table
// stays authoritative and callers ignore cache failures.
type ActiveSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewActiveSessionStore returns redis-backed store.
func NewActiveSessionStore(client *redis.Client, ttl time.Duration) *ActiveSessionStore {
	return &ActiveSessionStore{client: client, ttl: ttl}
}

func (s *ActiveSessionStore) key(licensePlate string) string {
	return fmt.Sprintf("parking:active:%s", licensePlate)
}

// Save caches an open session under its plate.
func (s *ActiveSessionStore) Save(ctx context.Context, session *models.ParkingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(session.LicensePlate), data, s.ttl).Err()
}

// Get returns the cached open session for the plate, if any.
func (s *ActiveSessionStore) Get(ctx context.Context, licensePlate string) (*models.ParkingSession, error) {
	result, err := s.client.Get(ctx, s.key(licensePlate)).Result()
	if err != nil {
		return nil, err
	}
	var session models.ParkingSession
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete evicts the cached session for the plate.
func (s *ActiveSessionStore) Delete(ctx context.Context, licensePlate string) error {
	return s.client.Del(ctx, s.key(licensePlate)).Err()
}
