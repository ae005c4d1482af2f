package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"hotel_finder/internal/domain"
)

const tokenKey = "hotelfinder:provider_token"

// TokenStore shares the provider bearer token between processes.
// The key expires with the token, so a stale value is never loaded.
type TokenStore struct {
	c   *redis.Client
	now func() time.Time
}

func New(addr, pass string, db int) *TokenStore {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}))
}

func NewWithClient(c *redis.Client) *TokenStore {
	return &TokenStore{c: c, now: time.Now}
}

func (s *TokenStore) Load(ctx context.Context) (domain.AccessToken, bool, error) {
	v, err := s.c.Get(ctx, tokenKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.AccessToken{}, false, nil
	}
	if err != nil {
		return domain.AccessToken{}, false, err
	}
	var t domain.AccessToken
	if err := json.Unmarshal(v, &t); err != nil {
		return domain.AccessToken{}, false, err
	}
	return t, t.Value != "", nil
}

func (s *TokenStore) Save(ctx context.Context, t domain.AccessToken) error {
	ttl := t.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.c.Del(ctx, tokenKey).Err()
	}
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return s.c.Set(ctx, tokenKey, b, ttl).Err()
}

func (s *TokenStore) Ping(ctx context.Context) error {
	return s.c.Ping(ctx).Err()
}
