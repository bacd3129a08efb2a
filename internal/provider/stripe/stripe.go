// internal/provider/stripe/stripe.go
package stripe

import (
	"context"
	"errors"
	"net/http"
	"time"

	"billing-service/internal/domain"

	stripelib "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"go.uber.org/zap"
)

// Processor creates customers and recurring subscriptions on Stripe.
type Processor struct {
	api    *client.API
	logger *zap.Logger
}

func NewProcessor(secretKey string, logger *zap.Logger) *Processor {
	api := &client.API{}
	api.Init(secretKey, stripelib.NewBackends(&http.Client{Timeout: 30 * time.Second}))
	return &Processor{api: api, logger: logger}
}

// CreateSubscription creates a customer keyed by email, then a subscription
// for the requested price in default_incomplete mode, expanding the latest
// invoice's confirmation secret so the client can complete payment out of
// band. Stripe assigns the customer id; duplicate emails simply yield
// duplicate customers.
func (p *Processor) CreateSubscription(ctx context.Context, req *domain.SubscriptionRequest) (*domain.SubscriptionResult, error) {
	customer, err := p.api.Customers.New(&stripelib.CustomerParams{
		Params: stripelib.Params{Context: ctx},
		Email:  stripelib.String(req.CustomerEmail),
	})
	if err != nil {
		p.logger.Error("stripe customer creation failed",
			zap.String("customer_email", req.CustomerEmail),
			zap.Error(err))
		return nil, processorError(err)
	}

	sub, err := p.api.Subscriptions.New(&stripelib.SubscriptionParams{
		Params:   stripelib.Params{Context: ctx},
		Customer: stripelib.String(customer.ID),
		Items: []*stripelib.SubscriptionItemsParams{
			{Price: stripelib.String(req.PriceID)},
		},
		PaymentBehavior: stripelib.String("default_incomplete"),
		Expand:          []*string{stripelib.String("latest_invoice.confirmation_secret")},
	})
	if err != nil {
		p.logger.Error("stripe subscription creation failed",
			zap.String("customer_id", customer.ID),
			zap.String("price_id", req.PriceID),
			zap.Error(err))
		return nil, processorError(err)
	}

	result := &domain.SubscriptionResult{SubscriptionID: sub.ID}
	if sub.LatestInvoice != nil && sub.LatestInvoice.ConfirmationSecret != nil {
		result.ClientSecret = sub.LatestInvoice.ConfirmationSecret.ClientSecret
	}
	if result.ClientSecret == "" {
		return nil, domain.NewError(domain.KindProvider, "subscription has no payment confirmation secret")
	}

	// Never log the client secret.
	p.logger.Info("subscription created",
		zap.String("subscription_id", sub.ID),
		zap.String("customer_id", customer.ID),
		zap.String("price_id", req.PriceID))

	return result, nil
}

// processorError surfaces Stripe's own message verbatim and preserves its
// error code for observability.
func processorError(err error) error {
	var stripeErr *stripelib.Error
	if errors.As(err, &stripeErr) {
		msg := stripeErr.Msg
		if msg == "" {
			msg = stripeErr.Error()
		}
		return &domain.Error{
			Kind:    domain.KindProvider,
			Message: msg,
			Code:    string(stripeErr.Code),
			Err:     err,
		}
	}
	return domain.WrapError(domain.KindProvider, err.Error(), err)
}
