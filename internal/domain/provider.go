package domain

import (
	"fmt"
	"strings"
)

// Wire shapes of the provider API. Only the app layer reads these.

type TokenGrant struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

type LocationRecord struct {
	Name     string `json:"name"`
	SubType  string `json:"subType"`
	IATACode string `json:"iataCode"`
	Address  struct {
		CityName    string `json:"cityName"`
		CountryCode string `json:"countryCode"`
	} `json:"address"`
}

type RawOffer struct {
	Hotel     *RawHotel     `json:"hotel"`
	Available bool          `json:"available"`
	Offers    []RawSubOffer `json:"offers"`
}

type RawHotel struct {
	HotelID     string      `json:"hotelId"`
	Name        string      `json:"name"`
	Rating      string      `json:"rating"`
	CityCode    string      `json:"cityCode"`
	Latitude    *float64    `json:"latitude"`
	Longitude   *float64    `json:"longitude"`
	Address     *RawAddress `json:"address"`
	Description *RawText    `json:"description"`
	Amenities   []string    `json:"amenities"`
	Media       []RawMedia  `json:"media"`
}

type RawAddress struct {
	Lines       []string `json:"lines"`
	PostalCode  string   `json:"postalCode"`
	CityName    string   `json:"cityName"`
	CountryCode string   `json:"countryCode"`
}

type RawText struct {
	Lang string `json:"lang"`
	Text string `json:"text"`
}

type RawMedia struct {
	URI      string `json:"uri"`
	Category string `json:"category"`
}

type RawSubOffer struct {
	ID           string    `json:"id"`
	CheckInDate  string    `json:"checkInDate"`
	CheckOutDate string    `json:"checkOutDate"`
	Room         *RawRoom  `json:"room"`
	Price        *RawPrice `json:"price"`
}

type RawRoom struct {
	Type        string   `json:"type"`
	Description *RawText `json:"description"`
}

type RawPrice struct {
	Currency string `json:"currency"`
	Base     string `json:"base"`
	Total    string `json:"total"`
}

// Priced reports whether the sub-offer carries a total price.
func (o RawSubOffer) Priced() bool {
	return o.Price != nil && strings.TrimSpace(o.Price.Total) != ""
}

// ProviderIssue is one entry of the provider's `errors` array.
type ProviderIssue struct {
	Status int    `json:"status"`
	Code   int    `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// ProviderError is returned by the transport for any non-2xx response.
type ProviderError struct {
	Endpoint   string
	StatusCode int
	Issues     []ProviderIssue
}

func (e *ProviderError) Error() string {
	if len(e.Issues) > 0 {
		i := e.Issues[0]
		return fmt.Sprintf("%s: status %d: %s (code %d)", e.Endpoint, e.StatusCode, i.Title, i.Code)
	}
	return fmt.Sprintf("%s: status %d", e.Endpoint, e.StatusCode)
}

// Retryable is true for statuses worth one more attempt.
func (e *ProviderError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
