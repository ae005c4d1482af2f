package domain

import "time"

type AccessToken struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Valid reports whether the token can still be sent at instant now.
func (t AccessToken) Valid(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt)
}

type LocationKind string

const (
	LocationCity    LocationKind = "CITY"
	LocationAirport LocationKind = "AIRPORT"
	LocationOther   LocationKind = "OTHER"
)

// ParseLocationKind maps a provider subType onto the three kinds we care about.
func ParseLocationKind(s string) LocationKind {
	switch LocationKind(s) {
	case LocationCity:
		return LocationCity
	case LocationAirport:
		return LocationAirport
	default:
		return LocationOther
	}
}

type LocationCandidate struct {
	Code string
	Name string
	Kind LocationKind
}

// SearchCriteria is built once per search attempt and not mutated afterwards.
type SearchCriteria struct {
	Destination  string
	LocationCode string // optional; resolved from Destination when empty
	CheckIn      time.Time
	CheckOut     time.Time
	Guests       int
}

// Nights counts calendar nights between check-in and check-out.
func (c SearchCriteria) Nights() int {
	return int(DateOnly(c.CheckOut).Sub(DateOnly(c.CheckIn)).Hours() / 24)
}

// DateOnly drops the clock part of t, keeping its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const DateLayout = "2006-01-02"

// Date is a calendar date at UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
