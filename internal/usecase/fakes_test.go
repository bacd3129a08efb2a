package usecase

import (
	"context"
	"sync"

	"billing-service/internal/domain"
)

type fakeLedger struct {
	mu      sync.Mutex
	credits []creditCall
	applied map[string]bool
	err     error
}

type creditCall struct {
	accountID     string
	amount        float64
	transactionID string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{applied: make(map[string]bool)}
}

func (f *fakeLedger) Credit(ctx context.Context, accountID string, amount float64, transactionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.applied[transactionID] {
		return false, nil
	}
	f.applied[transactionID] = true
	f.credits = append(f.credits, creditCall{accountID, amount, transactionID})
	return true, nil
}

func (f *fakeLedger) Balance(ctx context.Context, accountID string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total float64
	for _, c := range f.credits {
		if c.accountID == accountID {
			total += c.amount
		}
	}
	return total, nil
}

type fakeTopUpRepo struct {
	mu      sync.Mutex
	records map[string]*domain.TopUp
	marks   []markCall
}

type markCall struct {
	checkoutRequestID string
	status            domain.TopUpStatus
	resultCode        int
}

func newFakeTopUpRepo() *fakeTopUpRepo {
	return &fakeTopUpRepo{records: make(map[string]*domain.TopUp)}
}

func (f *fakeTopUpRepo) Create(ctx context.Context, topup *domain.TopUp) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[topup.CheckoutRequestID] = topup
	return nil
}

func (f *fakeTopUpRepo) GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*domain.TopUp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[checkoutRequestID], nil
}

func (f *fakeTopUpRepo) MarkResult(ctx context.Context, checkoutRequestID string, status domain.TopUpStatus, resultCode int, resultDesc, providerTxID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marks = append(f.marks, markCall{checkoutRequestID, status, resultCode})
	return nil
}

type fakePushProvider struct {
	mu    sync.Mutex
	calls int
	ack   *domain.PushAck
	err   error
}

func (f *fakePushProvider) RequestPush(ctx context.Context, phone string, amount float64, callbackURL string) (*domain.PushAck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.ack, nil
}
