package app_test

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"hotel_finder/internal/domain"
)

// ---- fakes ----

type fakeProvider struct {
	mu sync.Mutex

	grant      domain.TokenGrant
	tokenErr   error
	tokenDelay time.Duration
	tokenCalls int32

	locations   []domain.LocationRecord
	locationErr error
	locCalls    int32

	offers    []domain.RawOffer
	offersErr error
	lastQuery url.Values
}

func (f *fakeProvider) FetchToken(ctx context.Context, id, secret string) (domain.TokenGrant, error) {
	atomic.AddInt32(&f.tokenCalls, 1)
	if f.tokenDelay > 0 {
		time.Sleep(f.tokenDelay)
	}
	return f.grant, f.tokenErr
}

func (f *fakeProvider) SearchLocations(ctx context.Context, token, keyword string) ([]domain.LocationRecord, error) {
	atomic.AddInt32(&f.locCalls, 1)
	return f.locations, f.locationErr
}

func (f *fakeProvider) SearchOffers(ctx context.Context, token string, q url.Values) ([]domain.RawOffer, error) {
	f.mu.Lock()
	f.lastQuery = q
	f.mu.Unlock()
	return f.offers, f.offersErr
}

func (f *fakeProvider) TokenCalls() int { return int(atomic.LoadInt32(&f.tokenCalls)) }

type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// ---- builders ----

func offer(id, name, total string) domain.RawOffer {
	o := domain.RawOffer{Available: true}
	if id != "" || name != "" {
		o.Hotel = &domain.RawHotel{HotelID: id, Name: name}
	}
	if total != "" {
		o.Offers = []domain.RawSubOffer{{Price: &domain.RawPrice{Currency: "USD", Total: total}}}
	}
	return o
}

func ptr[T any](v T) *T { return &v }
