// internal/domain/ledger.go
package domain

import (
	"context"
	"time"
)

// LedgerEntry is a single applied credit. TransactionID is the idempotency
// key: at most one entry ever exists per provider transaction id.
type LedgerEntry struct {
	ID            int64     `json:"id" db:"id"`
	AccountID     string    `json:"account_id" db:"account_id"`
	Amount        float64   `json:"amount" db:"amount"`
	TransactionID string    `json:"transaction_id" db:"transaction_id"`
	AppliedAt     time.Time `json:"applied_at" db:"applied_at"`
}

// Ledger is the balance store credited when the provider confirms a
// payment. Credit reports whether the entry was applied; a replay of an
// already-applied transaction id returns false with no balance change.
type Ledger interface {
	Credit(ctx context.Context, accountID string, amount float64, transactionID string) (bool, error)
	Balance(ctx context.Context, accountID string) (float64, error)
}
