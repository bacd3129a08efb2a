// internal/provider/mpesa/stk.go
package mpesa

import (
	"context"
	"time"

	"billing-service/internal/domain"

	"go.uber.org/zap"
)

const accountReference = "StudyBloomWallet"

// STKPushRequest is the Lipa Na M-Pesa Online request body.
type STKPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int    `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// RequestPush asks the provider to prompt the subscriber's device. The
// returned ack carries the CheckoutRequestID used to match the asynchronous
// callback; the user confirms (or declines) out of band.
func (c *Client) RequestPush(ctx context.Context, phone string, amount float64, callbackURL string) (*domain.PushAck, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := Timestamp(time.Now())
	request := STKPushRequest{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          Password(c.cfg.ShortCode, c.cfg.Passkey, timestamp),
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            int(amount),
		PartyA:            phone,
		PartyB:            c.cfg.ShortCode,
		PhoneNumber:       phone,
		CallBackURL:       callbackURL,
		AccountReference:  accountReference,
		TransactionDesc:   "Wallet Top-up",
	}

	var ack domain.PushAck
	if err := c.postJSON(ctx, "/mpesa/stkpush/v1/processrequest", token, request, &ack); err != nil {
		return nil, err
	}

	c.logger.Info("STK push accepted by provider",
		zap.String("phone_number", phone),
		zap.Float64("amount", amount),
		zap.String("merchant_request_id", ack.MerchantRequestID),
		zap.String("checkout_request_id", ack.CheckoutRequestID),
		zap.String("response_code", ack.ResponseCode))

	return &ack, nil
}
