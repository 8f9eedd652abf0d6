package mocks

import (
	"context"

	"github.com/DanielPopoola/payment-bridge/internal/application/services"
	"github.com/DanielPopoola/payment-bridge/internal/reconcile"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Bridge mocks the bridge service for transport tests.
type Bridge struct {
	mock.Mock
}

func (m *Bridge) transaction(ctx context.Context, method string, cmd services.TransactionCommand) (*reconcile.TransactionView, error) {
	args := m.MethodCalled(method, ctx, cmd)
	v, _ := args.Get(0).(*reconcile.TransactionView)
	return v, args.Error(1)
}

func (m *Bridge) Authorize(ctx context.Context, cmd services.TransactionCommand) (*reconcile.TransactionView, error) {
	return m.transaction(ctx, "Authorize", cmd)
}

func (m *Bridge) Purchase(ctx context.Context, cmd services.TransactionCommand) (*reconcile.TransactionView, error) {
	return m.transaction(ctx, "Purchase", cmd)
}

func (m *Bridge) Credit(ctx context.Context, cmd services.TransactionCommand) (*reconcile.TransactionView, error) {
	return m.transaction(ctx, "Credit", cmd)
}

func (m *Bridge) Capture(ctx context.Context, cmd services.TransactionCommand) (*reconcile.TransactionView, error) {
	return m.transaction(ctx, "Capture", cmd)
}

func (m *Bridge) Refund(ctx context.Context, cmd services.TransactionCommand) (*reconcile.TransactionView, error) {
	return m.transaction(ctx, "Refund", cmd)
}

func (m *Bridge) Void(ctx context.Context, cmd services.TransactionCommand) (*reconcile.TransactionView, error) {
	return m.transaction(ctx, "Void", cmd)
}

func (m *Bridge) GetPaymentInfo(ctx context.Context, tenantID string, paymentID uuid.UUID) ([]reconcile.TransactionView, error) {
	args := m.Called(ctx, tenantID, paymentID)
	v, _ := args.Get(0).([]reconcile.TransactionView)
	return v, args.Error(1)
}

func (m *Bridge) GetTransactionInfo(ctx context.Context, tenantID string, paymentID, transactionID uuid.UUID) (*reconcile.TransactionView, error) {
	args := m.Called(ctx, tenantID, paymentID, transactionID)
	v, _ := args.Get(0).(*reconcile.TransactionView)
	return v, args.Error(1)
}

func (m *Bridge) GetPaymentMethodDetail(ctx context.Context, cmd services.PaymentMethodCommand) (*services.PaymentMethodDetail, error) {
	args := m.Called(ctx, cmd)
	d, _ := args.Get(0).(*services.PaymentMethodDetail)
	return d, args.Error(1)
}

func (m *Bridge) GetPaymentMethods(ctx context.Context, cmd services.PaymentMethodCommand) ([]services.PaymentMethodInfo, error) {
	args := m.Called(ctx, cmd)
	infos, _ := args.Get(0).([]services.PaymentMethodInfo)
	return infos, args.Error(1)
}

func (m *Bridge) SetDefaultPaymentMethod(ctx context.Context, cmd services.PaymentMethodCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

func (m *Bridge) DeletePaymentMethod(ctx context.Context, cmd services.PaymentMethodCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

func (m *Bridge) AddPaymentMethod(ctx context.Context, cmd services.PaymentMethodCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

func (m *Bridge) Healthcheck(ctx context.Context, tenantID string) services.HealthStatus {
	return m.Called(ctx, tenantID).Get(0).(services.HealthStatus)
}

// Tenants is a static tenant list.
type Tenants []string

func (t Tenants) IDs() []string { return t }
