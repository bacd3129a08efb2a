// internal/usecase/topup_uc.go
package usecase

import (
	"context"

	"billing-service/internal/domain"
	"billing-service/internal/repository"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// TopUpUsecase validates a top-up request, submits the push payment and
// records the initiation for later callback correlation. The call returns
// as soon as the provider acknowledges the push; the subscriber's PIN entry
// happens out of band.
type TopUpUsecase struct {
	provider    domain.MobileMoneyProvider
	topups      repository.TopUpRepository
	callbackURL string
	logger      *zap.Logger
}

func NewTopUpUsecase(
	provider domain.MobileMoneyProvider,
	topups repository.TopUpRepository,
	callbackURL string,
	logger *zap.Logger,
) *TopUpUsecase {
	return &TopUpUsecase{
		provider:    provider,
		topups:      topups,
		callbackURL: callbackURL,
		logger:      logger,
	}
}

func (uc *TopUpUsecase) InitiateTopUp(ctx context.Context, req *domain.TopUpRequest) (*domain.PushAck, error) {
	if err := req.Validate(); err != nil {
		uc.logger.Warn("top-up validation failed",
			zap.String("phone_number", req.Phone),
			zap.Error(err))
		return nil, err
	}

	ack, err := uc.provider.RequestPush(ctx, req.Phone, req.Amount, uc.callbackURL)
	if err != nil {
		uc.logger.Error("failed to initiate push payment",
			zap.String("phone_number", req.Phone),
			zap.Float64("amount", req.Amount),
			zap.Error(err))
		return nil, err
	}

	topup := &domain.TopUp{
		ID:                ulid.Make().String(),
		Phone:             req.Phone,
		Amount:            req.Amount,
		MerchantRequestID: ack.MerchantRequestID,
		CheckoutRequestID: ack.CheckoutRequestID,
		Status:            domain.TopUpStatusPending,
	}

	// The prompt is already on the subscriber's device; a failed record
	// only costs us the correlation shortcut, the reconciler falls back to
	// the callback metadata.
	if err := uc.topups.Create(ctx, topup); err != nil {
		uc.logger.Error("failed to record top-up initiation",
			zap.String("checkout_request_id", ack.CheckoutRequestID),
			zap.Error(err))
	} else {
		uc.logger.Info("top-up initiated",
			zap.String("topup_id", topup.ID),
			zap.String("phone_number", req.Phone),
			zap.Float64("amount", req.Amount),
			zap.String("checkout_request_id", ack.CheckoutRequestID))
	}

	return ack, nil
}
