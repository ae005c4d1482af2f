package domain

import (
	"context"
	"net/url"
	"time"
)

// ProviderClient is the raw transport to the travel provider. It returns
// *ProviderError for non-2xx responses and plain transport/decode errors otherwise.
type ProviderClient interface {
	FetchToken(ctx context.Context, clientID, clientSecret string) (TokenGrant, error)
	SearchLocations(ctx context.Context, token, keyword string) ([]LocationRecord, error)
	SearchOffers(ctx context.Context, token string, q url.Values) ([]RawOffer, error)
}

// TokenStore holds the single process-wide bearer token slot.
type TokenStore interface {
	Load(ctx context.Context) (AccessToken, bool, error)
	Save(ctx context.Context, t AccessToken) error
}

type TripRepository interface {
	SaveTrip(ctx context.Context, t Trip) error
	ListTrips(ctx context.Context) ([]Trip, error)
	UpdateTripStatus(ctx context.Context, id string, status TripStatus) error
	DeleteTrip(ctx context.Context, id string) error
}

// Clock lets tests pin "now".
type Clock func() time.Time
