// Package mocks holds testify mocks for the application ports.
package mocks

import (
	"context"
	"time"

	"github.com/DanielPopoola/payment-bridge/internal/application"
	"github.com/DanielPopoola/payment-bridge/internal/config"
	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type RemoteClient struct {
	mock.Mock
}

var _ application.RemoteClient = (*RemoteClient)(nil)

func (m *RemoteClient) GetAccountByKey(ctx context.Context, externalKey string, opts domain.RequestOptions) (*domain.RemoteAccount, error) {
	args := m.Called(ctx, externalKey, opts)
	acct, _ := args.Get(0).(*domain.RemoteAccount)
	return acct, args.Error(1)
}

func (m *RemoteClient) CreateAccount(ctx context.Context, account domain.RemoteAccount, opts domain.RequestOptions) (*domain.RemoteAccount, error) {
	args := m.Called(ctx, account, opts)
	acct, _ := args.Get(0).(*domain.RemoteAccount)
	return acct, args.Error(1)
}

func (m *RemoteClient) GetPaymentMethodByKey(ctx context.Context, externalKey string, opts domain.RequestOptions) (*domain.RemotePaymentMethod, error) {
	args := m.Called(ctx, externalKey, opts)
	pm, _ := args.Get(0).(*domain.RemotePaymentMethod)
	return pm, args.Error(1)
}

func (m *RemoteClient) GetPaymentByExternalKey(ctx context.Context, externalKey string, opts domain.RequestOptions) (*domain.RemotePayment, error) {
	args := m.Called(ctx, externalKey, opts)
	p, _ := args.Get(0).(*domain.RemotePayment)
	return p, args.Error(1)
}

func (m *RemoteClient) CreatePayment(ctx context.Context, accountID uuid.UUID, paymentMethodID uuid.NullUUID, txn domain.TransactionRequest, submit application.SubmitOptions, opts domain.RequestOptions) (*domain.RemotePayment, error) {
	args := m.Called(ctx, accountID, paymentMethodID, txn, submit, opts)
	p, _ := args.Get(0).(*domain.RemotePayment)
	return p, args.Error(1)
}

func (m *RemoteClient) CapturePayment(ctx context.Context, txn domain.TransactionRequest, submit application.SubmitOptions, opts domain.RequestOptions) (*domain.RemotePayment, error) {
	args := m.Called(ctx, txn, submit, opts)
	p, _ := args.Get(0).(*domain.RemotePayment)
	return p, args.Error(1)
}

func (m *RemoteClient) RefundPayment(ctx context.Context, txn domain.TransactionRequest, submit application.SubmitOptions, opts domain.RequestOptions) (*domain.RemotePayment, error) {
	args := m.Called(ctx, txn, submit, opts)
	p, _ := args.Get(0).(*domain.RemotePayment)
	return p, args.Error(1)
}

func (m *RemoteClient) VoidPayment(ctx context.Context, txn domain.TransactionRequest, submit application.SubmitOptions, opts domain.RequestOptions) (*domain.RemotePayment, error) {
	args := m.Called(ctx, txn, submit, opts)
	p, _ := args.Get(0).(*domain.RemotePayment)
	return p, args.Error(1)
}

func (m *RemoteClient) GetPaymentMethodsForAccount(ctx context.Context, accountID uuid.UUID, properties map[string]string, opts domain.RequestOptions) ([]domain.RemotePaymentMethod, error) {
	args := m.Called(ctx, accountID, properties, opts)
	pms, _ := args.Get(0).([]domain.RemotePaymentMethod)
	return pms, args.Error(1)
}

func (m *RemoteClient) SetDefaultPaymentMethod(ctx context.Context, accountID, paymentMethodID uuid.UUID, opts domain.RequestOptions) error {
	return m.Called(ctx, accountID, paymentMethodID, opts).Error(0)
}

func (m *RemoteClient) DeletePaymentMethod(ctx context.Context, paymentMethodID uuid.UUID, opts domain.RequestOptions) error {
	return m.Called(ctx, paymentMethodID, opts).Error(0)
}

func (m *RemoteClient) ListAccounts(ctx context.Context, offset, limit int, opts domain.RequestOptions) ([]domain.RemoteAccount, error) {
	args := m.Called(ctx, offset, limit, opts)
	accts, _ := args.Get(0).([]domain.RemoteAccount)
	return accts, args.Error(1)
}

// ClientProvider hands out the same client for every tenant unless Err is set.
type ClientProvider struct {
	Client   application.RemoteClient
	Err      error
	Acquired int
	Released int
}

func (p *ClientProvider) Acquire(_ context.Context, tenantID string) (application.RemoteClient, func(), error) {
	if p.Err != nil {
		return nil, nil, p.Err
	}
	p.Acquired++
	return p.Client, func() { p.Released++ }, nil
}

type LocalDirectory struct {
	mock.Mock
}

func (m *LocalDirectory) GetAccount(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, id)
	a, _ := args.Get(0).(*domain.Account)
	return a, args.Error(1)
}

func (m *LocalDirectory) GetPaymentMethod(ctx context.Context, tenantID string, id uuid.UUID) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, tenantID, id)
	pm, _ := args.Get(0).(*domain.PaymentMethod)
	return pm, args.Error(1)
}

func (m *LocalDirectory) GetPayment(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, tenantID, id)
	p, _ := args.Get(0).(*domain.Payment)
	return p, args.Error(1)
}

type PendingStore struct {
	mock.Mock
}

func (m *PendingStore) FindPendingPayments(ctx context.Context, olderThan time.Duration, limit int) ([]domain.PendingPayment, error) {
	args := m.Called(ctx, olderThan, limit)
	pending, _ := args.Get(0).([]domain.PendingPayment)
	return pending, args.Error(1)
}

func (m *PendingStore) UpdateTransactionStatus(ctx context.Context, transactionID uuid.UUID, status domain.TransactionStatus) error {
	return m.Called(ctx, transactionID, status).Error(0)
}

func (m *PendingStore) TouchPendingTransactions(ctx context.Context, paymentID uuid.UUID) error {
	return m.Called(ctx, paymentID).Error(0)
}

// PaymentConfigs is a static PaymentConfigProvider.
type PaymentConfigs map[string]config.PaymentConfig

func (p PaymentConfigs) PaymentConfig(tenantID string) (config.PaymentConfig, error) {
	cfg, ok := p[tenantID]
	if !ok {
		return config.PaymentConfig{}, domain.NewUnknownTenantError(tenantID)
	}
	return cfg, nil
}
