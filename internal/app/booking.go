package app

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel_finder/internal/domain"
)

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)

type cardShape struct {
	Number     string `json:"cardNumber" validate:"required,number,min=13,max=19"`
	Expiry     string `json:"expiry" validate:"required,card_expiry"`
	CVC        string `json:"cvc" validate:"required,number,min=3,max=4"`
	Cardholder string `json:"cardholder" validate:"required"`
}

type walletShape struct {
	Email string `json:"email" validate:"required,email"`
}

func newPaymentValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	_ = v.RegisterValidation("card_expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})
	return v
}

// BookingService simulates reservations. Nothing is charged or reserved.
type BookingService struct {
	validate *validator.Validate
	now      domain.Clock
	newID    func() string
}

func NewBookingService() *BookingService {
	return &BookingService{validate: newPaymentValidator(), now: time.Now, newID: uuid.NewString}
}

// WithClock replaces the time source; used by tests.
func (s *BookingService) WithClock(now domain.Clock) *BookingService {
	s.now = now
	return s
}

// SimulateBooking checks the stay and the payment shape and returns an upcoming
// Trip. The hotel price is already a whole-stay total and is copied as is.
func (s *BookingService) SimulateBooking(h domain.Hotel, checkIn, checkOut time.Time, guests int, p domain.Payment) (domain.Trip, error) {
	if strings.TrimSpace(h.ID) == "" {
		return domain.Trip{}, domain.ValidationError("hotel", "a hotel must be selected")
	}
	if err := validateStay(checkIn, checkOut, guests); err != nil {
		return domain.Trip{}, err
	}
	if err := s.validatePayment(p); err != nil {
		return domain.Trip{}, err
	}

	t := domain.Trip{
		ID:             s.newID(),
		Hotel:          h,
		CheckInDate:    domain.DateOnly(checkIn),
		CheckOutDate:   domain.DateOnly(checkOut),
		NumberOfGuests: guests,
		TotalPrice:     h.TotalPrice,
		Status:         domain.TripUpcoming,
		CreatedAt:      s.now().UTC(),
	}
	log.Info().Str("trip_id", t.ID).Str("hotel_id", h.ID).Str("method", string(p.Method)).Msg("booking simulated")
	return t, nil
}

func (s *BookingService) validatePayment(p domain.Payment) error {
	switch p.Method {
	case domain.PaymentCard:
		card := cardShape{
			Number:     stripCardNumber(p.CardNumber),
			Expiry:     strings.TrimSpace(p.Expiry),
			CVC:        strings.TrimSpace(p.CVC),
			Cardholder: strings.TrimSpace(p.Cardholder),
		}
		if err := s.validate.Struct(card); err != nil {
			return paymentError(err)
		}
		if cardExpired(card.Expiry, s.now()) {
			return domain.ValidationError("expiry", "card has expired")
		}
		return nil
	case domain.PaymentPayPal:
		if err := s.validate.Struct(walletShape{Email: strings.TrimSpace(p.Email)}); err != nil {
			return paymentError(err)
		}
		return nil
	default:
		return domain.ValidationError("method", "unsupported payment method %q", p.Method)
	}
}

func paymentError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return domain.ValidationError("payment", "invalid payment details")
	}
	fe := ves[0]
	switch fe.Field() {
	case "cardNumber":
		return domain.ValidationError(fe.Field(), "card number must be 13 to 19 digits")
	case "expiry":
		return domain.ValidationError(fe.Field(), "expiry must be in MM/YY format")
	case "cvc":
		return domain.ValidationError(fe.Field(), "CVC must be 3 or 4 digits")
	case "cardholder":
		return domain.ValidationError(fe.Field(), "cardholder name is required")
	case "email":
		return domain.ValidationError(fe.Field(), "a valid PayPal email is required")
	default:
		return domain.ValidationError(fe.Field(), "invalid %s", fe.Field())
	}
}

func stripCardNumber(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
}

// cardExpired treats a card as valid through the last day of its expiry month.
func cardExpired(expiry string, now time.Time) bool {
	t, err := time.Parse("01/06", expiry)
	if err != nil {
		return true
	}
	endOfMonth := t.AddDate(0, 1, 0)
	return !now.UTC().Before(endOfMonth)
}
