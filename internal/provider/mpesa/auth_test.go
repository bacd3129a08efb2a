package mpesa

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"billing-service/config"
	"billing-service/internal/domain"

	"go.uber.org/zap"
)

func assertKind(t *testing.T, err error, want domain.ErrorKind) {
	t.Helper()
	if got := domain.KindOf(err); got != want {
		t.Fatalf("error kind = %d, want %d (err: %v)", got, want, err)
	}
}

func assertKindAuth(t *testing.T, err error) {
	t.Helper()
	assertKind(t, err, domain.KindAuth)
}

func newTestClient(baseURL string) *Client {
	return NewClient(config.MpesaConfig{
		BaseURL:        baseURL,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		ShortCode:      "174379",
		Passkey:        "passkey",
	}, zap.NewNop())
}

func tokenServer(t *testing.T, exchanges *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/v1/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		n := atomic.AddInt32(exchanges, 1)
		// Slow response widens the window in which concurrent callers
		// could each trigger their own exchange.
		time.Sleep(30 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"tok-%d","expires_in":"3599"}`, n)
	}))
}

func TestAccessToken_CoalescesConcurrentRefreshes(t *testing.T) {
	var exchanges int32
	srv := tokenServer(t, &exchanges)
	defer srv.Close()

	c := newTestClient(srv.URL)

	const callers = 20
	tokens := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = c.accessToken(context.Background())
		}(i)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&exchanges); got != 1 {
		t.Fatalf("token exchanges = %d, want 1", got)
	}
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: unexpected error: %v", i, errs[i])
		}
		if tokens[i] != "tok-1" {
			t.Fatalf("caller %d: token = %q, want %q", i, tokens[i], "tok-1")
		}
	}
}

func TestAccessToken_ReusesCachedToken(t *testing.T) {
	var exchanges int32
	srv := tokenServer(t, &exchanges)
	defer srv.Close()

	c := newTestClient(srv.URL)

	for i := 0; i < 5; i++ {
		if _, err := c.accessToken(context.Background()); err != nil {
			t.Fatalf("accessToken: %v", err)
		}
	}
	if got := atomic.LoadInt32(&exchanges); got != 1 {
		t.Fatalf("token exchanges = %d, want 1", got)
	}
}

func TestAccessToken_RefreshesInsideSafetyMargin(t *testing.T) {
	var exchanges int32
	srv := tokenServer(t, &exchanges)
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.token = "stale"
	c.tokenExpiry = time.Now().Add(10 * time.Second) // inside the 30s margin

	tok, err := c.accessToken(context.Background())
	if err != nil {
		t.Fatalf("accessToken: %v", err)
	}
	if tok == "stale" {
		t.Fatal("expected a refreshed token, got the stale one")
	}
	if got := atomic.LoadInt32(&exchanges); got != 1 {
		t.Fatalf("token exchanges = %d, want 1", got)
	}
}

func TestAccessToken_ExchangeFailureIsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"errorMessage":"Invalid credentials"}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.accessToken(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	assertKindAuth(t, err)
}
