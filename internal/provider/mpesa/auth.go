// internal/provider/mpesa/auth.go
package mpesa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"billing-service/internal/domain"

	"go.uber.org/zap"
)

// tokenSafetyMargin keeps us from using a token that expires mid-request.
const tokenSafetyMargin = 30 * time.Second

// accessToken returns the cached OAuth token while it is current, otherwise
// performs one Basic-Auth credential exchange. Concurrent callers during an
// expired window share a single exchange via singleflight.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if tok, ok := c.cachedToken(); ok {
		return tok, nil
	}

	v, err, _ := c.refresh.Do("oauth", func() (interface{}, error) {
		// A waiter queued behind the winning call sees the fresh token here.
		if tok, ok := c.cachedToken(); ok {
			return tok, nil
		}

		tok, expiry, err := c.fetchToken(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.token = tok
		c.tokenExpiry = expiry
		c.mu.Unlock()

		c.logger.Info("provider token refreshed", zap.Time("expires_at", expiry))
		return tok, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) cachedToken() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-tokenSafetyMargin)) {
		return c.token, true
	}
	return "", false
}

func (c *Client) fetchToken(ctx context.Context) (string, time.Time, error) {
	url := c.baseURL + "/oauth/v1/generate?grant_type=client_credentials"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", time.Time{}, domain.WrapError(domain.KindAuth, "failed to build token request", err)
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, domain.WrapError(domain.KindAuth, "credential exchange failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", time.Time{}, domain.NewError(domain.KindAuth,
			fmt.Sprintf("credential exchange rejected: %s", string(body)))
	}

	var res struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   string `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", time.Time{}, domain.WrapError(domain.KindAuth, "failed to decode token response", err)
	}
	if res.AccessToken == "" {
		return "", time.Time{}, domain.NewError(domain.KindAuth, "credential exchange returned no token")
	}

	// Daraja reports expires_in as a string of seconds, typically "3599".
	ttl := 3600
	if secs, err := strconv.Atoi(res.ExpiresIn); err == nil && secs > 0 {
		ttl = secs
	}

	return res.AccessToken, time.Now().Add(time.Duration(ttl) * time.Second), nil
}
