package services

import (
	"context"
	"errors"

	"github.com/DanielPopoola/payment-bridge/internal/application"
	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/DanielPopoola/payment-bridge/internal/reconcile"
	"github.com/google/uuid"
)

const (
	opGetPaymentInfo     = "GET_PAYMENT_INFO"
	opGetTransactionInfo = "GET_TRANSACTION_INFO"
)

// GetPaymentInfo returns the local payment's history with outcomes taken from
// the remote instance. A payment unknown remotely yields an empty history.
func (s *BridgeService) GetPaymentInfo(ctx context.Context, tenantID string, paymentID uuid.UUID) ([]reconcile.TransactionView, error) {
	payment, err := s.directory.GetPayment(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}

	remote, err := s.remotePayment(ctx, tenantID, opGetPaymentInfo, payment)
	if err != nil {
		return nil, err
	}
	if remote == nil {
		return []reconcile.TransactionView{}, nil
	}

	views, report := reconcile.Reconcile(payment.Transactions, remote.Transactions)
	s.recorder.ObserveReconcile(len(payment.Transactions), report)
	if report.Reused > 0 || report.Skipped > 0 {
		s.logger.Warn("transaction histories diverge",
			"tenant_id", tenantID,
			"payment_id", paymentID,
			"payment_external_key", payment.ExternalKey,
			"local_count", len(payment.Transactions),
			"remote_count", len(remote.Transactions),
			"reused", report.Reused,
			"skipped", report.Skipped,
		)
	}
	return views, nil
}

// GetTransactionInfo reconciles a single local transaction. Retries recorded
// under one external key are paired by position.
func (s *BridgeService) GetTransactionInfo(ctx context.Context, tenantID string, paymentID, transactionID uuid.UUID) (*reconcile.TransactionView, error) {
	payment, err := s.directory.GetPayment(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	local, ok := payment.FindTransaction(transactionID)
	if !ok {
		return nil, domain.NewTransactionNotFoundError(paymentID.String(), transactionID.String())
	}
	index, _ := reconcile.IndexWithinKey(payment.Transactions, transactionID)

	remote, err := s.remotePayment(ctx, tenantID, opGetTransactionInfo, payment)
	if err != nil {
		return nil, err
	}
	if remote == nil {
		return nil, application.NewNoMatchingTransactionError(paymentID, transactionID)
	}

	view, ok := reconcile.Transaction(payment.Transactions, remote.Transactions, transactionID, local.ExternalKey, index)
	if !ok {
		return nil, application.NewNoMatchingTransactionError(paymentID, transactionID)
	}
	return &view, nil
}

func (s *BridgeService) remotePayment(ctx context.Context, tenantID, name string, payment *domain.Payment) (*domain.RemotePayment, error) {
	op := operation{
		name: name,
		scope: application.BridgeError{
			AccountID:       payment.AccountID,
			PaymentID:       payment.ID,
			PaymentMethodID: payment.PaymentMethodID,
		},
	}

	var remote *domain.RemotePayment
	err := s.withRemote(ctx, tenantID, op, func(ctx context.Context, sess session) error {
		p, err := sess.client.GetPaymentByExternalKey(ctx, payment.ExternalKey, sess.opts)
		if errors.Is(err, domain.ErrEntityNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		remote = p
		return nil
	})
	return remote, err
}
