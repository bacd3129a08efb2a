// internal/usecase/subscription_uc.go
package usecase

import (
	"context"

	"billing-service/internal/domain"

	"go.uber.org/zap"
)

// SubscriptionUsecase initiates recurring billing on the card processor.
// No state is kept locally; the processor owns the subscription lifecycle.
type SubscriptionUsecase struct {
	processor domain.CardProcessor
	logger    *zap.Logger
}

func NewSubscriptionUsecase(processor domain.CardProcessor, logger *zap.Logger) *SubscriptionUsecase {
	return &SubscriptionUsecase{processor: processor, logger: logger}
}

func (uc *SubscriptionUsecase) CreateSubscription(ctx context.Context, req *domain.SubscriptionRequest) (*domain.SubscriptionResult, error) {
	if err := req.Validate(); err != nil {
		uc.logger.Warn("subscription validation failed",
			zap.String("price_id", req.PriceID),
			zap.Error(err))
		return nil, err
	}

	result, err := uc.processor.CreateSubscription(ctx, req)
	if err != nil {
		uc.logger.Error("subscription initiation failed",
			zap.String("price_id", req.PriceID),
			zap.String("customer_email", req.CustomerEmail),
			zap.Error(err))
		return nil, err
	}

	return result, nil
}
