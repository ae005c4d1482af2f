package memory_test

import (
	"context"
	"errors"
	"testing"

	"hotel_finder/internal/domain"
	"hotel_finder/internal/storage/memory"
)

func TestTripStore_KeepsOrderAndUniqueIDs(t *testing.T) {
	s := memory.NewTripStore()
	ctx := context.Background()

	_ = s.SaveTrip(ctx, domain.Trip{ID: "a", TotalPrice: 1})
	_ = s.SaveTrip(ctx, domain.Trip{ID: "b", TotalPrice: 2})
	_ = s.SaveTrip(ctx, domain.Trip{ID: "a", TotalPrice: 3}) // same key replaces in place

	got, _ := s.ListTrips(ctx)
	if len(got) != 2 || got[0].ID != "a" || got[0].TotalPrice != 3 || got[1].ID != "b" {
		t.Fatalf("unexpected trips: %+v", got)
	}

	if err := s.DeleteTrip(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteTrip(ctx, "a"); !errors.Is(err, domain.ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
	if err := s.UpdateTripStatus(ctx, "zzz", domain.TripPast); !errors.Is(err, domain.ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
}
