package app_test

import (
	"strings"
	"testing"

	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
)

const placeholder = "https://img.example/placeholder.jpg"

func TestUsable(t *testing.T) {
	cases := []struct {
		name string
		raw  domain.RawOffer
		want bool
	}{
		{"complete", offer("H1", "Hotel One", "120.00"), true},
		{"no hotel", offer("", "", "120.00"), false},
		{"no id", offer("", "Nameless", "120.00"), false},
		{"no name", offer("H2", "", "120.00"), false},
		{"no priced offer", offer("H3", "Hotel Three", ""), false},
		{"blank total", domain.RawOffer{
			Hotel:  &domain.RawHotel{HotelID: "H4", Name: "Hotel Four"},
			Offers: []domain.RawSubOffer{{Price: &domain.RawPrice{Total: "  "}}},
		}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := app.Usable(tc.raw); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNormalize_FullOffer(t *testing.T) {
	raw := domain.RawOffer{
		Available: true,
		Hotel: &domain.RawHotel{
			HotelID:   "HLPAR001",
			Name:      "Le Marais Suites",
			Rating:    "4",
			CityCode:  "PAR",
			Latitude:  ptr(48.85),
			Longitude: ptr(2.36),
			Address: &domain.RawAddress{
				Lines:       []string{"12 Rue de Rivoli", "Bat. B"},
				PostalCode:  "75004",
				CityName:    "Paris",
				CountryCode: "FR",
			},
			Description: &domain.RawText{Text: "Boutique hotel."},
			Amenities:   []string{"WIFI", "SPA", "GYM", "BAR", "POOL", "PARKING", "ROOM_SERVICE", "PETS"},
			Media:       []domain.RawMedia{{URI: " "}, {URI: "https://img.example/marais.jpg"}},
		},
		Offers: []domain.RawSubOffer{
			{ID: "unpriced"},
			{
				ID:    "O1",
				Room:  &domain.RawRoom{Description: &domain.RawText{Text: "Deluxe double, city view."}},
				Price: &domain.RawPrice{Currency: "EUR", Total: "612.40"},
			},
		},
	}
	h := app.NewOfferNormalizer(placeholder).Normalize(raw)

	if h.ID != "HLPAR001" || h.Name != "Le Marais Suites" || h.City != "Paris" {
		t.Fatalf("identity: %+v", h)
	}
	if h.Address != "12 Rue de Rivoli Bat. B, Paris, 75004, FR" {
		t.Fatalf("address: %q", h.Address)
	}
	if h.TotalPrice != 612.40 || h.Currency != "EUR" {
		t.Fatalf("price: %v %s", h.TotalPrice, h.Currency)
	}
	if h.Rating != 4 || h.RatingEstimated {
		t.Fatalf("rating: %v estimated=%v", h.Rating, h.RatingEstimated)
	}
	if len(h.Amenities) != 6 || h.Amenities[0] != "WIFI" || h.Amenities[5] != "PARKING" {
		t.Fatalf("amenities: %v", h.Amenities)
	}
	if h.ImageURL != "https://img.example/marais.jpg" {
		t.Fatalf("image: %q", h.ImageURL)
	}
	if h.Description != "Deluxe double, city view." {
		t.Fatalf("description: %q", h.Description)
	}
	if h.Latitude == nil || *h.Latitude != 48.85 {
		t.Fatalf("latitude: %v", h.Latitude)
	}
}

func TestNormalize_Fallbacks(t *testing.T) {
	raw := offer("H9", "Budget Inn", "99.5")
	h := app.NewOfferNormalizer(placeholder).Normalize(raw)

	if h.Address != "Address Unavailable" {
		t.Fatalf("address: %q", h.Address)
	}
	if h.ImageURL != placeholder {
		t.Fatalf("image: %q", h.ImageURL)
	}
	if h.Description != "Enjoy your stay at Budget Inn." {
		t.Fatalf("description: %q", h.Description)
	}
	if h.Amenities == nil || len(h.Amenities) != 0 {
		t.Fatalf("amenities should be empty, got %v", h.Amenities)
	}
	if !h.RatingEstimated || h.Rating < 3.0 || h.Rating > 4.5 {
		t.Fatalf("fallback rating: %v estimated=%v", h.Rating, h.RatingEstimated)
	}
}

func TestNormalize_HotelDescriptionAndCityCode(t *testing.T) {
	raw := offer("H5", "Harbor View", "80")
	raw.Hotel.CityCode = "NCE"
	raw.Hotel.Description = &domain.RawText{Text: "  Steps from the sea.  "}
	h := app.NewOfferNormalizer(placeholder).Normalize(raw)
	if h.City != "NCE" {
		t.Fatalf("city: %q", h.City)
	}
	if h.Description != "Steps from the sea." {
		t.Fatalf("description: %q", h.Description)
	}
}

func TestNormalize_RatingFallbackIsStableAndBounded(t *testing.T) {
	n := app.NewOfferNormalizer(placeholder)
	for _, r := range []string{"", "0", "6", "four", "-1"} {
		for i := 0; i < 50; i++ {
			raw := offer("H"+strings.Repeat("x", i), "Hotel "+r, "10")
			raw.Hotel.Rating = r
			a, b := n.Normalize(raw), n.Normalize(raw)
			if a.Rating != b.Rating {
				t.Fatalf("rating not stable for %q: %v vs %v", r, a.Rating, b.Rating)
			}
			if a.Rating < 3.0 || a.Rating > 4.5 || !a.RatingEstimated {
				t.Fatalf("rating %v out of range for %q", a.Rating, r)
			}
		}
	}
}

func TestNormalize_BadPriceIsZero(t *testing.T) {
	n := app.NewOfferNormalizer(placeholder)
	for _, total := range []string{"abc", "-5", "NaN"} {
		h := n.Normalize(offer("H1", "Hotel", total))
		if h.TotalPrice != 0 {
			t.Fatalf("total %q: got %v", total, h.TotalPrice)
		}
	}
}

func TestNormalize_MissingIdentityGetsPlaceholders(t *testing.T) {
	h := app.NewOfferNormalizer(placeholder).Normalize(domain.RawOffer{})
	if !strings.HasPrefix(h.ID, "generated-") {
		t.Fatalf("id: %q", h.ID)
	}
	if h.Name == "" {
		t.Fatal("name should not be empty")
	}
	if h.TotalPrice != 0 {
		t.Fatalf("price: %v", h.TotalPrice)
	}
}

func TestNormalize_DoesNotAliasAmenities(t *testing.T) {
	raw := offer("H1", "Hotel", "10")
	raw.Hotel.Amenities = []string{"WIFI", "SPA"}
	h := app.NewOfferNormalizer(placeholder).Normalize(raw)
	raw.Hotel.Amenities[0] = "CHANGED"
	if h.Amenities[0] != "WIFI" {
		t.Fatalf("amenities aliased: %v", h.Amenities)
	}
}
