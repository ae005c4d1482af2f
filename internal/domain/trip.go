package domain

import "time"

type TripStatus string

const (
	TripUpcoming  TripStatus = "upcoming"
	TripPast      TripStatus = "past"
	TripCancelled TripStatus = "cancelled"
)

// Trip is a simulated booking. The hotel is an owned snapshot taken at booking time.
type Trip struct {
	ID             string     `json:"id"`
	Hotel          Hotel      `json:"hotel"`
	CheckInDate    time.Time  `json:"checkInDate"`
	CheckOutDate   time.Time  `json:"checkOutDate"`
	NumberOfGuests int        `json:"numberOfGuests"`
	TotalPrice     float64    `json:"totalPrice"`
	Status         TripStatus `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentPayPal PaymentMethod = "paypal"
)

// Payment only carries what is needed to check its shape; nothing is charged.
type Payment struct {
	Method     PaymentMethod `json:"method"`
	CardNumber string        `json:"cardNumber,omitempty"`
	Expiry     string        `json:"expiry,omitempty"` // MM/YY
	CVC        string        `json:"cvc,omitempty"`
	Cardholder string        `json:"cardholder,omitempty"`
	Email      string        `json:"email,omitempty"`
}
