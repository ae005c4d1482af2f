package amadeus_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"hotel_finder/internal/adapters/amadeus"
	"hotel_finder/internal/domain"
)

func newClient(t *testing.T, base string) *amadeus.Client {
	t.Helper()
	cl, err := amadeus.New(base, 100, 2, 2*time.Second) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func TestClient_FetchToken_PostsClientCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/security/oauth2/token" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("content type: %q", ct)
		}
		_ = r.ParseForm()
		if r.PostForm.Get("grant_type") != "client_credentials" ||
			r.PostForm.Get("client_id") != "key" || r.PostForm.Get("client_secret") != "secret" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"type":"amadeusOAuth2Token","access_token":"abc","token_type":"Bearer","expires_in":1799}`))
	}))
	defer ts.Close()

	got, err := newClient(t, ts.URL).FetchToken(context.Background(), "key", "secret")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.AccessToken != "abc" || got.ExpiresIn != 1799 {
		t.Fatalf("unexpected grant: %+v", got)
	}
}

func TestClient_FetchToken_RejectedReturnsProviderError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client","error_description":"Client credentials are invalid","code":38187,"title":"Invalid parameters"}`))
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).FetchToken(context.Background(), "key", "bad")
	var perr *domain.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.StatusCode != 401 || len(perr.Issues) != 1 || perr.Issues[0].Code != 38187 {
		t.Fatalf("unexpected provider error: %+v", perr)
	}
}

func TestClient_SearchOffers_RetriesOnceThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization header: %q", got)
		}
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"hotel":{"hotelId":"H1","name":"One"},"available":true,"offers":[{"price":{"currency":"USD","total":"10.00"}}]}]}`))
	}))
	defer ts.Close()

	q := url.Values{"cityCode": {"PAR"}}
	got, err := newClient(t, ts.URL).SearchOffers(context.Background(), "tok", q)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].Hotel == nil || got[0].Hotel.HotelID != "H1" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Fatalf("expected exactly 2 calls, got %d", n)
	}
}

func TestClient_SearchOffers_GivesUpAfterSecond5xx(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).SearchOffers(context.Background(), "tok", nil)
	var perr *domain.ProviderError
	if !errors.As(err, &perr) || perr.StatusCode != 500 {
		t.Fatalf("expected 500 ProviderError, got %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Fatalf("expected 2 attempts, got %d", n)
	}
}

func TestClient_SearchOffers_LongRetryAfterFailsFast(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Retry-After", "3600")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	cl, err := amadeus.New(ts.URL, 100, 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	start := time.Now()
	_, err = cl.SearchOffers(context.Background(), "tok", nil)
	if d := time.Since(start); d > 2*time.Second {
		t.Fatalf("call blocked for %v", d)
	}
	var perr *domain.ProviderError
	if !errors.As(err, &perr) || perr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 ProviderError, got %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected no retry, got %d attempts", n)
	}
}

func TestClient_RetryIsRateLimited(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	cl, err := amadeus.New(ts.URL, 1, 2, 2*time.Second) // one request per second, burst 1
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	start := time.Now()
	_, _ = cl.SearchOffers(context.Background(), "tok", nil)
	if d := time.Since(start); d < 800*time.Millisecond {
		t.Fatalf("retry skipped the rate limiter (took %v)", d)
	}
	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Fatalf("expected 2 attempts, got %d", n)
	}
}

func TestClient_SearchOffers_NoRetryOn4xx(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"status":400,"code":425,"title":"INVALID DATE","detail":"Invalid date or date in the past"}]}`))
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).SearchOffers(context.Background(), "tok", nil)
	var perr *domain.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.Issues[0].Title != "INVALID DATE" || perr.Issues[0].Code != 425 {
		t.Fatalf("unexpected issues: %+v", perr.Issues)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected a single attempt, got %d", n)
	}
}

func TestClient_SearchLocations_SendsCityFilter(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/reference-data/locations" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("subType") != "CITY" || r.URL.Query().Get("keyword") != "New York" {
			t.Errorf("query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"data":[{"name":"NEW YORK","subType":"CITY","iataCode":"NYC"}]}`))
	}))
	defer ts.Close()

	got, err := newClient(t, ts.URL).SearchLocations(context.Background(), "tok", "New York")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].IATACode != "NYC" {
		t.Fatalf("unexpected locations: %+v", got)
	}
}

func TestClient_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer ts.Close()

	cl, err := amadeus.New(ts.URL, 100, 1, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := cl.SearchLocations(context.Background(), "tok", "Rome"); err == nil {
		t.Fatalf("expected timeout error")
	}
}
