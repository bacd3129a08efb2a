// internal/usecase/callback_uc.go
package usecase

import (
	"context"

	"billing-service/internal/domain"
	"billing-service/internal/provider/mpesa"
	"billing-service/internal/repository"

	"go.uber.org/zap"
)

// CallbackUsecase reconciles the provider's asynchronous result with the
// ledger. Errors returned here are for observability only; the HTTP handler
// acknowledges the callback regardless, since anything but a 200 triggers
// provider redelivery.
type CallbackUsecase struct {
	ledger domain.Ledger
	topups repository.TopUpRepository
	logger *zap.Logger
}

func NewCallbackUsecase(ledger domain.Ledger, topups repository.TopUpRepository, logger *zap.Logger) *CallbackUsecase {
	return &CallbackUsecase{ledger: ledger, topups: topups, logger: logger}
}

func (uc *CallbackUsecase) ProcessSTKCallback(ctx context.Context, payload []byte) error {
	result, err := mpesa.ParseSTKCallback(payload)
	if err != nil {
		uc.logger.Error("malformed provider callback",
			zap.Int("payload_size", len(payload)),
			zap.Error(err))
		return err
	}

	if !result.Success() {
		uc.logger.Warn("push payment declined by subscriber or provider",
			zap.String("checkout_request_id", result.CheckoutRequestID),
			zap.Int("result_code", result.ResultCode),
			zap.String("result_description", result.ResultDesc))
		uc.markResult(ctx, result, domain.TopUpStatusFailed)
		return nil
	}

	account := uc.resolveAccount(ctx, result)

	applied, err := uc.ledger.Credit(ctx, account, result.Amount, result.ProviderTxID)
	if err != nil {
		uc.logger.Error("ledger credit failed, leaving retry to provider redelivery",
			zap.String("account_id", account),
			zap.String("transaction_id", result.ProviderTxID),
			zap.Error(err))
		return err
	}
	if !applied {
		uc.logger.Info("duplicate callback for already-credited transaction",
			zap.String("account_id", account),
			zap.String("transaction_id", result.ProviderTxID))
		return nil
	}

	uc.logger.Info("wallet credited",
		zap.String("account_id", account),
		zap.Float64("amount", result.Amount),
		zap.String("transaction_id", result.ProviderTxID))

	uc.markResult(ctx, result, domain.TopUpStatusSucceeded)
	return nil
}

// resolveAccount prefers the phone recorded at initiation, matched by the
// provider's correlation reference. The metadata phone is the fallback for
// callbacks landing on an instance that never saw the initiation.
func (uc *CallbackUsecase) resolveAccount(ctx context.Context, result *mpesa.CallbackResult) string {
	topup, err := uc.topups.GetByCheckoutRequestID(ctx, result.CheckoutRequestID)
	if err != nil {
		uc.logger.Error("failed to look up top-up record",
			zap.String("checkout_request_id", result.CheckoutRequestID),
			zap.Error(err))
		return result.PhoneNumber
	}
	if topup == nil {
		uc.logger.Warn("no top-up record for callback, using metadata phone",
			zap.String("checkout_request_id", result.CheckoutRequestID),
			zap.String("phone_number", result.PhoneNumber))
		return result.PhoneNumber
	}
	if topup.Phone != result.PhoneNumber {
		uc.logger.Warn("callback metadata phone differs from initiation record",
			zap.String("checkout_request_id", result.CheckoutRequestID),
			zap.String("initiated_phone", topup.Phone),
			zap.String("callback_phone", result.PhoneNumber))
	}
	return topup.Phone
}

func (uc *CallbackUsecase) markResult(ctx context.Context, result *mpesa.CallbackResult, status domain.TopUpStatus) {
	if result.CheckoutRequestID == "" {
		return
	}
	err := uc.topups.MarkResult(ctx, result.CheckoutRequestID, status,
		result.ResultCode, result.ResultDesc, result.ProviderTxID)
	if err != nil {
		uc.logger.Error("failed to record top-up outcome",
			zap.String("checkout_request_id", result.CheckoutRequestID),
			zap.Error(err))
	}
}
