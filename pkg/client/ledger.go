// pkg/client/ledger.go
package client

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"billing-service/config"
	"billing-service/internal/domain"

	"go.uber.org/zap"
)

// LedgerClient implements domain.Ledger against an external ledger service.
// Requests are HMAC-SHA256 signed; the remote side enforces the
// transaction-id idempotency constraint and reports whether the credit
// applied.
type LedgerClient struct {
	cfg        config.LedgerConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewLedgerClient(cfg config.LedgerConfig, logger *zap.Logger) *LedgerClient {
	return &LedgerClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type creditRequest struct {
	AccountID     string  `json:"account_id"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transaction_id"`
}

type creditResponse struct {
	Success bool   `json:"success"`
	Applied bool   `json:"applied"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (c *LedgerClient) Credit(ctx context.Context, accountID string, amount float64, transactionID string) (bool, error) {
	payload, err := json.Marshal(creditRequest{
		AccountID:     accountID,
		Amount:        amount,
		TransactionID: transactionID,
	})
	if err != nil {
		return false, domain.WrapError(domain.KindLedger, "failed to marshal credit request", err)
	}

	url := fmt.Sprintf("%s/api/ledger/credit", c.cfg.URL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return false, domain.WrapError(domain.KindLedger, "failed to create credit request", err)
	}

	timestamp := time.Now().Unix()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", c.cfg.APIKey)
	httpReq.Header.Set("X-Signature", c.sign(payload, timestamp))
	httpReq.Header.Set("X-Timestamp", fmt.Sprintf("%d", timestamp))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return false, domain.WrapError(domain.KindLedger, "ledger request failed", err)
	}
	defer resp.Body.Close()

	var response creditResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return false, domain.WrapError(domain.KindLedger, "failed to decode ledger response", err)
	}

	if resp.StatusCode != http.StatusOK || !response.Success {
		c.logger.Error("ledger credit rejected",
			zap.String("account_id", accountID),
			zap.String("transaction_id", transactionID),
			zap.Int("status_code", resp.StatusCode),
			zap.String("error", response.Error))
		return false, domain.NewError(domain.KindLedger,
			fmt.Sprintf("ledger credit failed: %s", response.Error))
	}

	return response.Applied, nil
}

func (c *LedgerClient) Balance(ctx context.Context, accountID string) (float64, error) {
	url := fmt.Sprintf("%s/api/ledger/balance/%s", c.cfg.URL, accountID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, domain.WrapError(domain.KindLedger, "failed to create balance request", err)
	}
	httpReq.Header.Set("X-API-Key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, domain.WrapError(domain.KindLedger, "ledger request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, domain.NewError(domain.KindLedger,
			fmt.Sprintf("ledger balance lookup returned status %d", resp.StatusCode))
	}

	var response struct {
		AccountID string  `json:"account_id"`
		Balance   float64 `json:"balance"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return 0, domain.WrapError(domain.KindLedger, "failed to decode ledger response", err)
	}
	return response.Balance, nil
}

// sign generates an HMAC-SHA256 signature over payload.timestamp.
func (c *LedgerClient) sign(payload []byte, timestamp int64) string {
	message := fmt.Sprintf("%s.%d", string(payload), timestamp)
	h := hmac.New(sha256.New, []byte(c.cfg.APISecret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}
