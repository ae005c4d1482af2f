// internal/adapters/amadeus/client.go
package amadeus

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_finder/internal/adapters/observability"
	"hotel_finder/internal/domain"
)

const (
	tokenPath     = "/v1/security/oauth2/token"
	locationsPath = "/v1/reference-data/locations"
	offersPath    = "/v2/shopping/hotel-offers"

	retryWaitCap = 5 * time.Second
)

type Client struct {
	base        string
	hc          *http.Client
	rl          *rate.Limiter
	maxAttempts int
	maxWait     time.Duration // longest Retry-After honoured; longer fails the call
}

// New builds a provider client. Every call is bounded by timeout and at most
// maxAttempts tries (one retry by default) on 429/5xx/transport failures.
func New(base string, rps, maxAttempts int, timeout time.Duration) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("provider base URL is required")
	}
	if rps <= 0 {
		rps = 10
	}
	if maxAttempts <= 0 {
		maxAttempts = 2
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:        strings.TrimRight(base, "/"),
		hc:          &http.Client{Timeout: timeout},
		rl:          rate.NewLimiter(rate.Limit(rps), rps),
		maxAttempts: maxAttempts,
		maxWait:     min(timeout, retryWaitCap),
	}, nil
}

// ---- Public API ----

func (c *Client) FetchToken(ctx context.Context, clientID, clientSecret string) (domain.TokenGrant, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	body := form.Encode()

	var out domain.TokenGrant
	err := c.do(ctx, "token", func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+tokenPath, strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}, &out)
	return out, err
}

func (c *Client) SearchLocations(ctx context.Context, token, keyword string) ([]domain.LocationRecord, error) {
	q := url.Values{}
	q.Set("subType", "CITY")
	q.Set("keyword", keyword)

	var out struct {
		Data []domain.LocationRecord `json:"data"`
	}
	err := c.do(ctx, "locations", c.bearerGet(ctx, locationsPath, token, q), &out)
	return out.Data, err
}

func (c *Client) SearchOffers(ctx context.Context, token string, q url.Values) ([]domain.RawOffer, error) {
	var out struct {
		Data []domain.RawOffer `json:"data"`
	}
	err := c.do(ctx, "hotel-offers", c.bearerGet(ctx, offersPath, token, q), &out)
	return out.Data, err
}

// ---- Internals ----

func (c *Client) bearerGet(ctx context.Context, path, token string, q url.Values) func() (*http.Request, error) {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		return req, nil
	}
}

// do sends the request built by newReq with client-side rate limiting and
// bounded retries, then JSON-decodes a 2xx body into out.
// Non-2xx responses come back as *domain.ProviderError.
func (c *Client) do(ctx context.Context, endpoint string, newReq func() (*http.Request, error), out any) error {
	var lastErr error
	for i := 0; i < c.maxAttempts; i++ {
		last := i == c.maxAttempts-1

		// retries count against the limit too
		if err := c.rl.Wait(ctx); err != nil {
			return err
		}

		// build a fresh request each attempt
		req, err := newReq()
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "hotel-finder/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("amadeus", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if !last && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("amadeus", endpoint, resp.StatusCode, time.Since(start))

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err == io.EOF {
				return nil
			}
			return err
		}

		perr := readProviderError(endpoint, resp)
		wait := retryAfter(resp)
		resp.Body.Close()
		if !perr.Retryable() {
			return perr
		}
		lastErr = perr
		if wait > c.maxWait {
			// the provider asked for longer than we are willing to block
			return lastErr
		}
		if wait == 0 {
			wait = backoff(i)
		}
		if !last && sleepCtx(ctx, wait) {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return lastErr
	}

	return lastErr
}

// errorBody covers both the regular `errors` array and the flat OAuth error shape.
type errorBody struct {
	Errors           []domain.ProviderIssue `json:"errors"`
	Error            string                 `json:"error"`
	ErrorDescription string                 `json:"error_description"`
	Code             int                    `json:"code"`
	Title            string                 `json:"title"`
}

func readProviderError(endpoint string, resp *http.Response) *domain.ProviderError {
	perr := &domain.ProviderError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
	var eb errorBody
	if err := json.Unmarshal(b, &eb); err != nil {
		return perr
	}
	perr.Issues = eb.Errors
	if len(perr.Issues) == 0 && (eb.Title != "" || eb.Error != "") {
		title := eb.Title
		if title == "" {
			title = eb.Error
		}
		perr.Issues = []domain.ProviderIssue{{
			Status: resp.StatusCode,
			Code:   eb.Code,
			Title:  title,
			Detail: eb.ErrorDescription,
		}}
	}
	return perr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns 200ms, 400ms, 800ms... plus up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
