// internal/repository/topup_repo.go
package repository

import (
	"context"
	"errors"

	"billing-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TopUpRepository interface {
	Create(ctx context.Context, topup *domain.TopUp) error
	GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*domain.TopUp, error)
	MarkResult(ctx context.Context, checkoutRequestID string, status domain.TopUpStatus, resultCode int, resultDesc, providerTxID string) error
}

type topUpRepo struct {
	db *pgxpool.Pool
}

func NewTopUpRepository(db *pgxpool.Pool) TopUpRepository {
	return &topUpRepo{db: db}
}

func (r *topUpRepo) Create(ctx context.Context, topup *domain.TopUp) error {
	query := `
		INSERT INTO topups (id, phone, amount, merchant_request_id, checkout_request_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		topup.ID,
		topup.Phone,
		topup.Amount,
		topup.MerchantRequestID,
		topup.CheckoutRequestID,
		topup.Status,
	).Scan(&topup.CreatedAt, &topup.UpdatedAt)
}

func (r *topUpRepo) GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*domain.TopUp, error) {
	query := `
		SELECT id, phone, amount, merchant_request_id, checkout_request_id,
		       status, result_code, result_description, provider_tx_id,
		       created_at, updated_at
		FROM topups
		WHERE checkout_request_id = $1
	`

	var topup domain.TopUp
	err := r.db.QueryRow(ctx, query, checkoutRequestID).Scan(
		&topup.ID,
		&topup.Phone,
		&topup.Amount,
		&topup.MerchantRequestID,
		&topup.CheckoutRequestID,
		&topup.Status,
		&topup.ResultCode,
		&topup.ResultDescription,
		&topup.ProviderTxID,
		&topup.CreatedAt,
		&topup.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &topup, nil
}

func (r *topUpRepo) MarkResult(ctx context.Context, checkoutRequestID string, status domain.TopUpStatus, resultCode int, resultDesc, providerTxID string) error {
	query := `
		UPDATE topups
		SET status = $1,
		    result_code = $2,
		    result_description = $3,
		    provider_tx_id = NULLIF($4, ''),
		    updated_at = NOW()
		WHERE checkout_request_id = $5
	`
	_, err := r.db.Exec(ctx, query, status, resultCode, resultDesc, providerTxID, checkoutRequestID)
	return err
}
