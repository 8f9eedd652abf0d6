package resolver_test

import (
	"context"
	"time"

	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/DanielPopoola/payment-bridge/internal/resolver"
	"github.com/stretchr/testify/mock"
)

type MockRemoteClient struct {
	mock.Mock
}

func (m *MockRemoteClient) GetAccountByKey(ctx context.Context, externalKey string, opts domain.RequestOptions) (*domain.RemoteAccount, error) {
	args := m.Called(ctx, externalKey, opts)
	acct, _ := args.Get(0).(*domain.RemoteAccount)
	return acct, args.Error(1)
}

func (m *MockRemoteClient) CreateAccount(ctx context.Context, account domain.RemoteAccount, opts domain.RequestOptions) (*domain.RemoteAccount, error) {
	args := m.Called(ctx, account, opts)
	acct, _ := args.Get(0).(*domain.RemoteAccount)
	return acct, args.Error(1)
}

func (m *MockRemoteClient) GetPaymentMethodByKey(ctx context.Context, externalKey string, opts domain.RequestOptions) (*domain.RemotePaymentMethod, error) {
	args := m.Called(ctx, externalKey, opts)
	pm, _ := args.Get(0).(*domain.RemotePaymentMethod)
	return pm, args.Error(1)
}

func (m *MockRemoteClient) GetPaymentByExternalKey(ctx context.Context, externalKey string, opts domain.RequestOptions) (*domain.RemotePayment, error) {
	args := m.Called(ctx, externalKey, opts)
	p, _ := args.Get(0).(*domain.RemotePayment)
	return p, args.Error(1)
}

type recordingObserver struct {
	outcomes []resolver.Outcome
}

func (o *recordingObserver) ObserveResolution(_ resolver.Kind, outcome resolver.Outcome, _ time.Duration) {
	o.outcomes = append(o.outcomes, outcome)
}

type fixedSequence struct {
	next int64
}

func (s *fixedSequence) Next() int64 {
	s.next++
	return s.next
}
