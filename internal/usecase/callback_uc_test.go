package usecase

import (
	"context"
	"testing"

	"billing-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
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

const declinedCallback = `{
	"Body": {
		"stkCallback": {
			"MerchantRequestID": "29115-34620561-1",
			"CheckoutRequestID": "ws_CO_191220191020363925",
			"ResultCode": 1032,
			"ResultDesc": "Request cancelled by user"
		}
	}
}`

func TestProcessSTKCallback_CreditsOnceOnReplay(t *testing.T) {
	ledger := newFakeLedger()
	topups := newFakeTopUpRepo()
	uc := NewCallbackUsecase(ledger, topups, zap.NewNop())

	for i := 0; i < 3; i++ {
		require.NoError(t, uc.ProcessSTKCallback(context.Background(), []byte(successCallback)))
	}

	require.Len(t, ledger.credits, 1)
	assert.Equal(t, "254712345678", ledger.credits[0].accountID)
	assert.Equal(t, 500.0, ledger.credits[0].amount)
	assert.Equal(t, "XYZ123", ledger.credits[0].transactionID)
}

func TestProcessSTKCallback_DeclineCreditsNothing(t *testing.T) {
	ledger := newFakeLedger()
	topups := newFakeTopUpRepo()
	uc := NewCallbackUsecase(ledger, topups, zap.NewNop())

	require.NoError(t, uc.ProcessSTKCallback(context.Background(), []byte(declinedCallback)))

	assert.Empty(t, ledger.credits)
	require.Len(t, topups.marks, 1)
	assert.Equal(t, domain.TopUpStatusFailed, topups.marks[0].status)
	assert.Equal(t, 1032, topups.marks[0].resultCode)
}

func TestProcessSTKCallback_PrefersInitiationRecordPhone(t *testing.T) {
	ledger := newFakeLedger()
	topups := newFakeTopUpRepo()
	require.NoError(t, topups.Create(context.Background(), &domain.TopUp{
		ID:                "01HQ3ZTEST",
		Phone:             "254799000111",
		Amount:            500,
		CheckoutRequestID: "ws_CO_191220191020363925",
		Status:            domain.TopUpStatusPending,
	}))

	uc := NewCallbackUsecase(ledger, topups, zap.NewNop())
	require.NoError(t, uc.ProcessSTKCallback(context.Background(), []byte(successCallback)))

	require.Len(t, ledger.credits, 1)
	assert.Equal(t, "254799000111", ledger.credits[0].accountID)

	require.Len(t, topups.marks, 1)
	assert.Equal(t, domain.TopUpStatusSucceeded, topups.marks[0].status)
}

func TestProcessSTKCallback_FallsBackToMetadataPhone(t *testing.T) {
	ledger := newFakeLedger()
	uc := NewCallbackUsecase(ledger, newFakeTopUpRepo(), zap.NewNop())

	require.NoError(t, uc.ProcessSTKCallback(context.Background(), []byte(successCallback)))

	require.Len(t, ledger.credits, 1)
	assert.Equal(t, "254712345678", ledger.credits[0].accountID)
}

func TestProcessSTKCallback_MalformedPayloadIsReported(t *testing.T) {
	ledger := newFakeLedger()
	uc := NewCallbackUsecase(ledger, newFakeTopUpRepo(), zap.NewNop())

	err := uc.ProcessSTKCallback(context.Background(), []byte(`{"Body":{}}`))
	require.Error(t, err)
	assert.Equal(t, domain.KindMalformedCallback, domain.KindOf(err))
	assert.Empty(t, ledger.credits)
}

func TestProcessSTKCallback_LedgerFailurePropagates(t *testing.T) {
	ledger := newFakeLedger()
	ledger.err = domain.NewError(domain.KindLedger, "ledger unavailable")
	uc := NewCallbackUsecase(ledger, newFakeTopUpRepo(), zap.NewNop())

	err := uc.ProcessSTKCallback(context.Background(), []byte(successCallback))
	require.Error(t, err)
	assert.Equal(t, domain.KindLedger, domain.KindOf(err))
}
