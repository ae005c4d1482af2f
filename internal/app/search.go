package app

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_finder/internal/adapters/observability"
	"hotel_finder/internal/domain"
)

const (
	DefaultCurrency = "USD"
	DefaultRadiusKM = 20
	MaxRadiusKM     = 50
)

type TokenSource interface {
	GetToken(ctx context.Context) (string, error)
}

type LocationLookup interface {
	Resolve(ctx context.Context, name, token string) (string, error)
}

type SearchOptions struct {
	Currency string
	RadiusKM int
}

type SearchService struct {
	client    domain.ProviderClient
	tokens    TokenSource
	locations LocationLookup
	norm      *OfferNormalizer
	opts      SearchOptions
}

func NewSearchService(c domain.ProviderClient, t TokenSource, l LocationLookup, n *OfferNormalizer, opts SearchOptions) *SearchService {
	if opts.Currency == "" {
		opts.Currency = DefaultCurrency
	}
	if n == nil {
		n = NewOfferNormalizer("")
	}
	return &SearchService{client: c, tokens: t, locations: l, norm: n, opts: opts}
}

// Search runs validate, token, location, query, execute, filter+normalize in
// that order. An empty, non-nil slice with a nil error means the provider
// answered but nothing was usable. Every error is a *domain.Error.
func (s *SearchService) Search(ctx context.Context, c domain.SearchCriteria) ([]domain.Hotel, error) {
	start := time.Now()
	hotels, dropped, err := s.search(ctx, c)
	switch {
	case err != nil:
		observability.ObserveSearch(domain.KindOf(err).String())
		log.Warn().Err(err).Str("destination", c.Destination).Str("kind", domain.KindOf(err).String()).
			Dur("duration", time.Since(start)).Msg("hotel search failed")
		return nil, err
	case len(hotels) == 0:
		observability.ObserveSearch("zero_results")
		log.Info().Str("destination", c.Destination).Int("dropped", dropped).
			Dur("duration", time.Since(start)).Msg("hotel search returned no usable offers")
	default:
		observability.ObserveSearch("ok")
		log.Info().Str("destination", c.Destination).Int("hotels", len(hotels)).Int("dropped", dropped).
			Dur("duration", time.Since(start)).Msg("hotel search ok")
	}
	return hotels, nil
}

func (s *SearchService) search(ctx context.Context, c domain.SearchCriteria) ([]domain.Hotel, int, error) {
	if err := ValidateCriteria(c); err != nil {
		return nil, 0, err
	}

	token, err := s.tokens.GetToken(ctx)
	if err != nil {
		return nil, 0, Classify(OpToken, err)
	}

	code := strings.TrimSpace(c.LocationCode)
	if code == "" {
		code, err = s.locations.Resolve(ctx, c.Destination, token)
		if err != nil {
			return nil, 0, Classify(OpLocation, err)
		}
		if code == "" {
			return nil, 0, domain.LocationNotFoundError(strings.TrimSpace(c.Destination))
		}
	}

	q := BuildOfferQuery(c, code, s.opts.Currency, s.opts.RadiusKM)
	raw, err := s.client.SearchOffers(ctx, token, q)
	if err != nil {
		return nil, 0, Classify(OpSearch, err)
	}

	hotels := make([]domain.Hotel, 0, len(raw))
	for _, r := range raw {
		if !Usable(r) {
			continue
		}
		hotels = append(hotels, s.norm.Normalize(r))
	}
	return hotels, len(raw) - len(hotels), nil
}

// ValidateCriteria checks the caller-supplied fields; it never touches the network.
func ValidateCriteria(c domain.SearchCriteria) error {
	if strings.TrimSpace(c.Destination) == "" {
		return domain.ValidationError("destination", "destination is required")
	}
	return validateStay(c.CheckIn, c.CheckOut, c.Guests)
}

func validateStay(checkIn, checkOut time.Time, guests int) error {
	if checkIn.IsZero() {
		return domain.ValidationError("checkIn", "check-in date is required")
	}
	if checkOut.IsZero() {
		return domain.ValidationError("checkOut", "check-out date is required")
	}
	if !domain.DateOnly(checkOut).After(domain.DateOnly(checkIn)) {
		return domain.ValidationError("checkOut", "check-out date must be after check-in date")
	}
	if guests < 1 {
		return domain.ValidationError("guests", "at least one guest is required")
	}
	return nil
}

// BuildOfferQuery builds the availability query parameters. It is pure.
func BuildOfferQuery(c domain.SearchCriteria, locationCode, currency string, radiusKM int) url.Values {
	if currency == "" {
		currency = DefaultCurrency
	}
	if radiusKM <= 0 {
		radiusKM = DefaultRadiusKM
	}
	if radiusKM > MaxRadiusKM {
		radiusKM = MaxRadiusKM
	}
	q := url.Values{}
	q.Set("cityCode", strings.ToUpper(strings.TrimSpace(locationCode)))
	q.Set("checkInDate", domain.DateOnly(c.CheckIn).Format(domain.DateLayout))
	q.Set("checkOutDate", domain.DateOnly(c.CheckOut).Format(domain.DateLayout))
	q.Set("adults", strconv.Itoa(c.Guests))
	q.Set("roomQuantity", "1")
	q.Set("currency", currency)
	q.Set("radius", strconv.Itoa(radiusKM))
	q.Set("radiusUnit", "KM")
	q.Set("bestRateOnly", "true")
	return q
}
