package application

import (
	"context"
	"time"

	"github.com/DanielPopoola/payment-bridge/internal/config"
	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/DanielPopoola/payment-bridge/internal/resolver"
	"github.com/google/uuid"
)

// SubmitOptions are forwarded with every payment operation submitted remotely.
type SubmitOptions struct {
	ControlPlugins []string
	Properties     map[string]string
}

// RemoteClient is the port for the remote billing instance.
type RemoteClient interface {
	resolver.RemoteClient

	CreatePayment(ctx context.Context, accountID uuid.UUID, paymentMethodID uuid.NullUUID, txn domain.TransactionRequest, submit SubmitOptions, opts domain.RequestOptions) (*domain.RemotePayment, error)
	CapturePayment(ctx context.Context, txn domain.TransactionRequest, submit SubmitOptions, opts domain.RequestOptions) (*domain.RemotePayment, error)
	RefundPayment(ctx context.Context, txn domain.TransactionRequest, submit SubmitOptions, opts domain.RequestOptions) (*domain.RemotePayment, error)
	VoidPayment(ctx context.Context, txn domain.TransactionRequest, submit SubmitOptions, opts domain.RequestOptions) (*domain.RemotePayment, error)

	GetPaymentMethodsForAccount(ctx context.Context, accountID uuid.UUID, properties map[string]string, opts domain.RequestOptions) ([]domain.RemotePaymentMethod, error)
	SetDefaultPaymentMethod(ctx context.Context, accountID, paymentMethodID uuid.UUID, opts domain.RequestOptions) error
	DeletePaymentMethod(ctx context.Context, paymentMethodID uuid.UUID, opts domain.RequestOptions) error

	ListAccounts(ctx context.Context, offset, limit int, opts domain.RequestOptions) ([]domain.RemoteAccount, error)
}

// ClientProvider hands out a remote client for one tenant. Callers must invoke
// release once the surrounding operation is over.
type ClientProvider interface {
	Acquire(ctx context.Context, tenantID string) (client RemoteClient, release func(), err error)
}

// LocalDirectory is the read side of the local billing instance.
type LocalDirectory interface {
	GetAccount(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Account, error)
	GetPaymentMethod(ctx context.Context, tenantID string, id uuid.UUID) (*domain.PaymentMethod, error)
	GetPayment(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Payment, error)
}

// PendingStore is used by the janitor to find and settle pending local transactions.
type PendingStore interface {
	FindPendingPayments(ctx context.Context, olderThan time.Duration, limit int) ([]domain.PendingPayment, error)
	UpdateTransactionStatus(ctx context.Context, transactionID uuid.UUID, status domain.TransactionStatus) error
	// TouchPendingTransactions restarts the pending clock of a payment's
	// PENDING transactions.
	TouchPendingTransactions(ctx context.Context, paymentID uuid.UUID) error
}

// PaymentConfigProvider supplies per-tenant payment policy.
type PaymentConfigProvider interface {
	PaymentConfig(tenantID string) (config.PaymentConfig, error)
}
