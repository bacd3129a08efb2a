package mpesa

import (
	"testing"

	"billing-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const successCallback = `{
	"Body": {
		"stkCallback": {
			"MerchantRequestID": "29115-34620561-1",
			"CheckoutRequestID": "ws_CO_191220191020363925",
			"ResultCode": 0,
			"ResultDesc": "The service request is processed successfully.",
			"CallbackMetadata": {
				"Item": [
					{"Name": "Amount", "Value": 500.00},
					{"Name": "MpesaReceiptNumber", "Value": "XYZ123"},
					{"Name": "TransactionDate", "Value": 20240115103045},
					{"Name": "PhoneNumber", "Value": 254712345678}
				]
			}
		}
	}
}`

func TestParseSTKCallback_Success(t *testing.T) {
	result, err := ParseSTKCallback([]byte(successCallback))
	require.NoError(t, err)

	assert.True(t, result.Success())
	assert.Equal(t, "ws_CO_191220191020363925", result.CheckoutRequestID)
	assert.Equal(t, 500.0, result.Amount)
	assert.Equal(t, "254712345678", result.PhoneNumber)
	assert.Equal(t, "XYZ123", result.ProviderTxID)
}

func TestParseSTKCallback_MissingAmountItem(t *testing.T) {
	payload := `{
		"Body": {
			"stkCallback": {
				"CheckoutRequestID": "ws_CO_191220191020363925",
				"ResultCode": 0,
				"ResultDesc": "The service request is processed successfully.",
				"CallbackMetadata": {
					"Item": [
						{"Name": "MpesaReceiptNumber", "Value": "XYZ123"},
						{"Name": "PhoneNumber", "Value": 254712345678}
					]
				}
			}
		}
	}`

	_, err := ParseSTKCallback([]byte(payload))
	require.Error(t, err)
	assert.Equal(t, domain.KindMalformedCallback, domain.KindOf(err))
	assert.Contains(t, err.Error(), "Amount")
}

func TestParseSTKCallback_DeclinedNeedsNoMetadata(t *testing.T) {
	payload := `{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "ws_CO_191220191020363925",
				"ResultCode": 1032,
				"ResultDesc": "Request cancelled by user"
			}
		}
	}`

	result, err := ParseSTKCallback([]byte(payload))
	require.NoError(t, err)
	assert.False(t, result.Success())
	assert.Equal(t, 1032, result.ResultCode)
	assert.Equal(t, "Request cancelled by user", result.ResultDesc)
}

func TestParseSTKCallback_NotJSON(t *testing.T) {
	_, err := ParseSTKCallback([]byte("not json"))
	require.Error(t, err)
	assert.Equal(t, domain.KindMalformedCallback, domain.KindOf(err))
}
