// internal/repository/ledger_repo.go
package repository

import (
	"context"
	"errors"

	"billing-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ledgerRepo struct {
	db *pgxpool.Pool
}

// NewLedgerRepository returns the Postgres-backed ledger. The unique
// constraint on ledger_entries.transaction_id makes Credit idempotent.
func NewLedgerRepository(db *pgxpool.Pool) domain.Ledger {
	return &ledgerRepo{db: db}
}

func (r *ledgerRepo) Credit(ctx context.Context, accountID string, amount float64, transactionID string) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, domain.WrapError(domain.KindLedger, "failed to begin credit transaction", err)
	}
	defer tx.Rollback(ctx)

	// check-existing-then-credit as one statement: the conflict target is
	// the idempotency key, so a replayed transaction id inserts nothing.
	tag, err := tx.Exec(ctx, `
		INSERT INTO ledger_entries (account_id, amount, transaction_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (transaction_id) DO NOTHING
	`, accountID, amount, transactionID)
	if err != nil {
		return false, domain.WrapError(domain.KindLedger, "failed to record ledger entry", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO wallets (account_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (account_id) DO UPDATE
		SET balance = wallets.balance + EXCLUDED.balance, updated_at = NOW()
	`, accountID, amount)
	if err != nil {
		return false, domain.WrapError(domain.KindLedger, "failed to update wallet balance", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, domain.WrapError(domain.KindLedger, "failed to commit credit", err)
	}
	return true, nil
}

func (r *ledgerRepo) Balance(ctx context.Context, accountID string) (float64, error) {
	var balance float64
	err := r.db.QueryRow(ctx,
		`SELECT balance FROM wallets WHERE account_id = $1`, accountID,
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, domain.WrapError(domain.KindLedger, "failed to read wallet balance", err)
	}
	return balance, nil
}
