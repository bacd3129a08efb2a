// internal/domain/provider.go
package domain

import "context"

// CardProcessor creates customers and recurring subscriptions on the card
// network. A failure from either step aborts the whole operation.
type CardProcessor interface {
	CreateSubscription(ctx context.Context, req *SubscriptionRequest) (*SubscriptionResult, error)
}

// MobileMoneyProvider prompts a subscriber's device for payment. The ack
// only confirms receipt of the push request; the payment outcome arrives
// later on the callback URL.
type MobileMoneyProvider interface {
	RequestPush(ctx context.Context, phone string, amount float64, callbackURL string) (*PushAck, error)
}
