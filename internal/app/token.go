package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"hotel_finder/internal/adapters/observability"
	"hotel_finder/internal/domain"
)

// tokenSafetyBuffer is taken off the provider-reported lifetime so a cached
// token is never sent after the provider's real expiry.
const tokenSafetyBuffer = 60 * time.Second

// refreshTimeout bounds a token refresh independently of the caller that started it.
const refreshTimeout = 30 * time.Second

type TokenManager struct {
	client domain.ProviderClient
	store  domain.TokenStore
	key    string
	secret string
	now    domain.Clock
	group  singleflight.Group
}

func NewTokenManager(c domain.ProviderClient, store domain.TokenStore, key, secret string) *TokenManager {
	return &TokenManager{client: c, store: store, key: key, secret: secret, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (m *TokenManager) WithClock(now domain.Clock) *TokenManager {
	m.now = now
	return m
}

// GetToken returns a bearer token, refreshing it when the cached one is absent
// or expired. Concurrent callers share a single in-flight refresh.
func (m *TokenManager) GetToken(ctx context.Context) (string, error) {
	if m.key == "" || m.secret == "" {
		return "", domain.ConfigError("provider API key and secret must both be configured")
	}
	if tok, ok := m.cached(ctx); ok {
		observability.ObserveToken("hit")
		return tok.Value, nil
	}

	// The flight outlives any single caller; each caller only stops waiting
	// when its own ctx is done.
	ch := m.group.DoChan("token", func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		// another flight may have stored a fresh token while we were queued
		if tok, ok := m.cached(fctx); ok {
			return tok.Value, nil
		}
		return m.refresh(fctx)
	})
	select {
	case <-ctx.Done():
		observability.ObserveToken("error")
		return "", Classify(OpToken, ctx.Err())
	case res := <-ch:
		if res.Shared {
			observability.ObserveToken("shared")
		}
		if res.Err != nil {
			observability.ObserveToken("error")
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (m *TokenManager) cached(ctx context.Context) (domain.AccessToken, bool) {
	tok, ok, err := m.store.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("token store load failed; refreshing")
		return domain.AccessToken{}, false
	}
	return tok, ok && tok.Valid(m.now())
}

func (m *TokenManager) refresh(ctx context.Context) (string, error) {
	grant, err := m.client.FetchToken(ctx, m.key, m.secret)
	if err != nil {
		return "", Classify(OpToken, err)
	}
	if grant.AccessToken == "" {
		return "", domain.AuthError("provider returned an empty access token", nil)
	}

	now := m.now()
	lifetime := time.Duration(grant.ExpiresIn)*time.Second - tokenSafetyBuffer
	if lifetime < 0 {
		lifetime = 0
	}
	tok := domain.AccessToken{Value: grant.AccessToken, ExpiresAt: now.Add(lifetime)}
	if err := m.store.Save(ctx, tok); err != nil {
		// the token is still good for this call
		log.Warn().Err(err).Msg("token store save failed")
	}
	observability.ObserveToken("refresh")
	log.Debug().Time("expires_at", tok.ExpiresAt).Msg("provider token refreshed")
	return tok.Value, nil
}

// MemoryTokenStore keeps the token slot in process memory.
type MemoryTokenStore struct {
	mu  sync.RWMutex
	tok domain.AccessToken
}

func NewMemoryTokenStore() *MemoryTokenStore { return &MemoryTokenStore{} }

func (s *MemoryTokenStore) Load(ctx context.Context) (domain.AccessToken, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tok, s.tok.Value != "", nil
}

func (s *MemoryTokenStore) Save(ctx context.Context, t domain.AccessToken) error {
	s.mu.Lock()
	s.tok = t
	s.mu.Unlock()
	return nil
}
