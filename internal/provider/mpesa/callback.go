// internal/provider/mpesa/callback.go
package mpesa

import (
	"encoding/json"
	"fmt"

	"billing-service/internal/domain"
)

// STKCallbackRequest is the provider's result envelope, delivered
// asynchronously once the subscriber confirms or declines the prompt.
type STKCallbackRequest struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []struct {
					Name  string      `json:"Name"`
					Value interface{} `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// CallbackResult is the validated form of a provider callback. Amount,
// PhoneNumber and ProviderTxID are only populated for successful results.
type CallbackResult struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	Amount            float64
	PhoneNumber       string
	ProviderTxID      string
}

func (r *CallbackResult) Success() bool { return r.ResultCode == 0 }

// ParseSTKCallback decodes and validates a callback payload. Successful
// results must carry the Amount, MpesaReceiptNumber and PhoneNumber named
// items; a missing item is a malformed-callback error rather than a crash
// at dereference time.
func ParseSTKCallback(payload []byte) (*CallbackResult, error) {
	var callback STKCallbackRequest
	if err := json.Unmarshal(payload, &callback); err != nil {
		return nil, domain.WrapError(domain.KindMalformedCallback, "failed to decode callback envelope", err)
	}

	stk := callback.Body.StkCallback
	result := &CallbackResult{
		MerchantRequestID: stk.MerchantRequestID,
		CheckoutRequestID: stk.CheckoutRequestID,
		ResultCode:        stk.ResultCode,
		ResultDesc:        stk.ResultDesc,
	}

	if stk.ResultCode != 0 {
		return result, nil
	}

	items := make(map[string]interface{}, len(stk.CallbackMetadata.Item))
	for _, item := range stk.CallbackMetadata.Item {
		items[item.Name] = item.Value
	}

	amount, ok := items["Amount"].(float64)
	if !ok {
		return nil, domain.NewError(domain.KindMalformedCallback, `callback metadata is missing the "Amount" item`)
	}
	result.Amount = amount

	receipt, ok := asString(items["MpesaReceiptNumber"])
	if !ok {
		return nil, domain.NewError(domain.KindMalformedCallback, `callback metadata is missing the "MpesaReceiptNumber" item`)
	}
	result.ProviderTxID = receipt

	// The provider sends PhoneNumber as a JSON number.
	phone, ok := asString(items["PhoneNumber"])
	if !ok {
		return nil, domain.NewError(domain.KindMalformedCallback, `callback metadata is missing the "PhoneNumber" item`)
	}
	result.PhoneNumber = phone

	return result, nil
}

func asString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, val != ""
	case float64:
		return fmt.Sprintf("%.0f", val), true
	default:
		return "", false
	}
}
