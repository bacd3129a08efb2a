// internal/provider/mpesa/client.go
package mpesa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"billing-service/config"
	"billing-service/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Client talks to the Daraja API. It owns the cached OAuth token; see
// auth.go for the refresh discipline.
type Client struct {
	cfg        config.MpesaConfig
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger

	mu          sync.RWMutex
	token       string
	tokenExpiry time.Time
	refresh     singleflight.Group
}

func NewClient(cfg config.MpesaConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type apiError struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// postJSON submits an authenticated request and decodes the response into
// out. Non-200 responses become provider errors carrying Daraja's own
// error code and message.
func (c *Client) postJSON(ctx context.Context, path string, token string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.WrapError(domain.KindProvider, "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return domain.WrapError(domain.KindProvider, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(domain.KindProvider, "provider request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.WrapError(domain.KindProvider, "failed to read provider response", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.ErrorMessage != "" {
			return &domain.Error{
				Kind:    domain.KindProvider,
				Message: apiErr.ErrorMessage,
				Code:    apiErr.ErrorCode,
			}
		}
		return domain.NewError(domain.KindProvider,
			fmt.Sprintf("provider returned status %d: %s", resp.StatusCode, string(respBody)))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return domain.WrapError(domain.KindProvider, "failed to decode provider response", err)
	}
	return nil
}
