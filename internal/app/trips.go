package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_finder/internal/domain"
)

// BookingRequest is what the UI sends when the user confirms a hotel.
type BookingRequest struct {
	Hotel    domain.Hotel
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
	Payment  domain.Payment
}

// TripService sits between the UI and the trip store. Status transitions
// (upcoming to past or cancelled) happen here, never in the search core.
type TripService struct {
	repo    domain.TripRepository
	booking *BookingService
	now     domain.Clock
}

func NewTripService(r domain.TripRepository, b *BookingService) *TripService {
	return &TripService{repo: r, booking: b, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (s *TripService) WithClock(now domain.Clock) *TripService {
	s.now = now
	return s
}

func (s *TripService) Book(ctx context.Context, req BookingRequest) (domain.Trip, error) {
	t, err := s.booking.SimulateBooking(req.Hotel, req.CheckIn, req.CheckOut, req.Guests, req.Payment)
	if err != nil {
		return domain.Trip{}, err
	}
	if err := s.repo.SaveTrip(ctx, t); err != nil {
		return domain.Trip{}, err
	}
	return t, nil
}

// List returns every stored trip in creation order. Upcoming trips whose
// check-out day is already behind us are moved to past first.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.repo.ListTrips(ctx)
	if err != nil {
		return nil, err
	}
	today := domain.DateOnly(s.now())
	for i := range trips {
		t := &trips[i]
		if t.Status != domain.TripUpcoming || !domain.DateOnly(t.CheckOutDate).Before(today) {
			continue
		}
		if err := s.repo.UpdateTripStatus(ctx, t.ID, domain.TripPast); err != nil {
			log.Warn().Err(err).Str("trip_id", t.ID).Msg("mark trip past failed")
			continue
		}
		t.Status = domain.TripPast
	}
	return trips, nil
}

func (s *TripService) Cancel(ctx context.Context, id string) (domain.Trip, error) {
	trips, err := s.List(ctx)
	if err != nil {
		return domain.Trip{}, err
	}
	for _, t := range trips {
		if t.ID != id {
			continue
		}
		if t.Status != domain.TripUpcoming {
			return domain.Trip{}, domain.ValidationError("status", "only upcoming trips can be cancelled (trip is %s)", t.Status)
		}
		if err := s.repo.UpdateTripStatus(ctx, id, domain.TripCancelled); err != nil {
			return domain.Trip{}, err
		}
		t.Status = domain.TripCancelled
		return t, nil
	}
	return domain.Trip{}, domain.ErrTripNotFound
}

func (s *TripService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteTrip(ctx, id)
}
