// internal/domain/topup.go
package domain

import (
	"regexp"
	"time"
)

// Safaricom subscriber numbers: country code 254 followed by a 9-digit
// mobile number starting with 1 or 7.
var subscriberNumberRe = regexp.MustCompile(`^254[17]\d{8}$`)

// TopUpRequest is a caller's request to prompt their phone for a wallet
// top-up. It lives for the duration of the initiating call only.
type TopUpRequest struct {
	Phone  string  `json:"phone"`
	Amount float64 `json:"amount"`
}

func (r *TopUpRequest) Validate() error {
	if r.Phone == "" {
		return NewError(KindValidation, "phone is required")
	}
	if !subscriberNumberRe.MatchString(r.Phone) {
		return NewError(KindValidation, "phone must be a subscriber number in 254XXXXXXXXX format")
	}
	if r.Amount <= 0 {
		return NewError(KindValidation, "amount must be greater than 0")
	}
	return nil
}

// PushAck is the provider's synchronous acknowledgment of a push-payment
// request. CheckoutRequestID is the correlation reference the asynchronous
// callback is matched against. Field names mirror the Daraja response so
// the ack can be returned to the caller verbatim.
type PushAck struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

type TopUpStatus string

const (
	TopUpStatusPending   TopUpStatus = "pending"
	TopUpStatusSucceeded TopUpStatus = "succeeded"
	TopUpStatusFailed    TopUpStatus = "failed"
)

// TopUp records an initiated push payment so the provider callback can be
// correlated back to the account that requested it.
type TopUp struct {
	ID                string      `json:"id" db:"id"`
	Phone             string      `json:"phone" db:"phone"`
	Amount            float64     `json:"amount" db:"amount"`
	MerchantRequestID string      `json:"merchant_request_id" db:"merchant_request_id"`
	CheckoutRequestID string      `json:"checkout_request_id" db:"checkout_request_id"`
	Status            TopUpStatus `json:"status" db:"status"`
	ResultCode        *int        `json:"result_code,omitempty" db:"result_code"`
	ResultDescription *string     `json:"result_description,omitempty" db:"result_description"`
	ProviderTxID      *string     `json:"provider_tx_id,omitempty" db:"provider_tx_id"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" db:"updated_at"`
}
