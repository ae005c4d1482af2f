package app

import (
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"hotel_finder/internal/domain"
)

const (
	maxAmenities       = 6
	addressUnavailable = "Address Unavailable"

	// placeholder ratings span [minFallbackRating, minFallbackRating+fallbackSteps*0.1]
	minFallbackRating = 3.0
	fallbackSteps     = 15
)

// OfferNormalizer converts provider offers into domain.Hotel. It never fails.
type OfferNormalizer struct {
	PlaceholderImage string
}

func NewOfferNormalizer(placeholderImage string) *OfferNormalizer {
	return &OfferNormalizer{PlaceholderImage: placeholderImage}
}

// Usable reports whether an offer can be shown as a bookable hotel with a known price.
// Availability alone is not enough.
func Usable(raw domain.RawOffer) bool {
	if raw.Hotel == nil || strings.TrimSpace(raw.Hotel.HotelID) == "" || strings.TrimSpace(raw.Hotel.Name) == "" {
		return false
	}
	_, ok := pricedOffer(raw.Offers)
	return ok
}

func (n *OfferNormalizer) Normalize(raw domain.RawOffer) domain.Hotel {
	rh := domain.RawHotel{}
	if raw.Hotel != nil {
		rh = *raw.Hotel
	}

	h := domain.Hotel{
		ID:        strings.TrimSpace(rh.HotelID),
		Name:      strings.TrimSpace(rh.Name),
		City:      hotelCity(rh),
		Amenities: firstN(rh.Amenities, maxAmenities),
		ImageURL:  n.PlaceholderImage,
		Latitude:  rh.Latitude,
		Longitude: rh.Longitude,
	}
	if h.ID == "" {
		h.ID = "generated-" + uuid.NewString()
	}
	if h.Name == "" {
		h.Name = "Unnamed hotel"
	}
	h.Address = formatAddress(rh.Address, h.City)
	h.Rating, h.RatingEstimated = normalizeRating(rh.Rating, h.ID+"|"+h.Name)

	for _, m := range rh.Media {
		if u := strings.TrimSpace(m.URI); u != "" {
			h.ImageURL = u
			break
		}
	}

	var sub domain.RawSubOffer
	if o, ok := pricedOffer(raw.Offers); ok {
		sub = o
	} else if len(raw.Offers) > 0 {
		sub = raw.Offers[0]
	}
	if sub.Price != nil {
		h.TotalPrice = parseAmount(sub.Price.Total)
		h.Currency = strings.TrimSpace(sub.Price.Currency)
	}

	h.Description = describe(sub, rh, h.Name, h.City)
	return h
}

func pricedOffer(offers []domain.RawSubOffer) (domain.RawSubOffer, bool) {
	for _, o := range offers {
		if o.Priced() {
			return o, true
		}
	}
	return domain.RawSubOffer{}, false
}

func hotelCity(rh domain.RawHotel) string {
	if rh.Address != nil {
		if c := strings.TrimSpace(rh.Address.CityName); c != "" {
			return c
		}
	}
	return strings.TrimSpace(rh.CityCode)
}

func formatAddress(a *domain.RawAddress, city string) string {
	if a == nil {
		return addressUnavailable
	}
	s := joinNonEmpty(", ", strings.Join(a.Lines, " "), city, a.PostalCode, a.CountryCode)
	if s == "" {
		return addressUnavailable
	}
	return s
}

// normalizeRating parses the provider star rating. Anything outside [1,5]
// gets a placeholder in [3.0, 4.5] derived from seed, flagged as estimated.
func normalizeRating(raw, seed string) (float64, bool) {
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n >= 1 && n <= 5 {
		return float64(n), false
	}
	return fallbackRating(seed), true
}

func fallbackRating(seed string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	step := int(h.Sum32() % (fallbackSteps + 1))
	return minFallbackRating + float64(step)/10
}

func parseAmount(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func describe(sub domain.RawSubOffer, rh domain.RawHotel, name, city string) string {
	if sub.Room != nil && sub.Room.Description != nil {
		if t := strings.TrimSpace(sub.Room.Description.Text); t != "" {
			return t
		}
	}
	if rh.Description != nil {
		if t := strings.TrimSpace(rh.Description.Text); t != "" {
			return t
		}
	}
	if city == "" {
		return fmt.Sprintf("Enjoy your stay at %s.", name)
	}
	return fmt.Sprintf("Enjoy your stay at %s in %s.", name, city)
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, sep)
}

func firstN(in []string, n int) []string {
	if len(in) > n {
		in = in[:n]
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
