// Package memory holds process-local stores used when no database is configured.
package memory

import (
	"context"
	"sync"

	"hotel_finder/internal/domain"
)

// TripStore keeps trips in insertion order.
type TripStore struct {
	mu    sync.RWMutex
	trips []domain.Trip
}

func NewTripStore() *TripStore { return &TripStore{} }

func (s *TripStore) SaveTrip(ctx context.Context, t domain.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.trips {
		if s.trips[i].ID == t.ID {
			s.trips[i] = t
			return nil
		}
	}
	s.trips = append(s.trips, t)
	return nil
}

func (s *TripStore) ListTrips(ctx context.Context) ([]domain.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Trip, len(s.trips))
	copy(out, s.trips)
	return out, nil
}

func (s *TripStore) UpdateTripStatus(ctx context.Context, id string, status domain.TripStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.trips {
		if s.trips[i].ID == id {
			s.trips[i].Status = status
			return nil
		}
	}
	return domain.ErrTripNotFound
}

func (s *TripStore) DeleteTrip(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.trips {
		if s.trips[i].ID == id {
			s.trips = append(s.trips[:i], s.trips[i+1:]...)
			return nil
		}
	}
	return domain.ErrTripNotFound
}
