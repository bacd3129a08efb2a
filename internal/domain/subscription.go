// internal/domain/subscription.go
package domain

import "strings"

// SubscriptionRequest asks the card processor to start a recurring billing
// subscription for a customer identified by email.
type SubscriptionRequest struct {
	PriceID       string `json:"priceId"`
	CustomerEmail string `json:"customerEmail"`
}

func (r *SubscriptionRequest) Validate() error {
	if r.PriceID == "" {
		return NewError(KindValidation, "priceId is required")
	}
	if r.CustomerEmail == "" {
		return NewError(KindValidation, "customerEmail is required")
	}
	if !strings.Contains(r.CustomerEmail, "@") {
		return NewError(KindValidation, "customerEmail is not a valid email address")
	}
	return nil
}

// SubscriptionResult is returned to the caller after the processor accepts
// the subscription. ClientSecret is a one-time token the client uses to
// complete payment; it must never be written to logs.
type SubscriptionResult struct {
	SubscriptionID string `json:"subscriptionId"`
	ClientSecret   string `json:"clientSecret"`
}
