package services

import (
	"context"
	"fmt"

	"github.com/DanielPopoola/payment-bridge/internal/application"
	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/DanielPopoola/payment-bridge/internal/reconcile"
	"github.com/DanielPopoola/payment-bridge/internal/resolver"
	"github.com/google/uuid"
)

func (s *BridgeService) Authorize(ctx context.Context, cmd TransactionCommand) (*reconcile.TransactionView, error) {
	return s.runTransaction(ctx, domain.TransactionAuthorize, cmd)
}

func (s *BridgeService) Purchase(ctx context.Context, cmd TransactionCommand) (*reconcile.TransactionView, error) {
	return s.runTransaction(ctx, domain.TransactionPurchase, cmd)
}

func (s *BridgeService) Credit(ctx context.Context, cmd TransactionCommand) (*reconcile.TransactionView, error) {
	return s.runTransaction(ctx, domain.TransactionCredit, cmd)
}

func (s *BridgeService) Capture(ctx context.Context, cmd TransactionCommand) (*reconcile.TransactionView, error) {
	return s.runTransaction(ctx, domain.TransactionCapture, cmd)
}

func (s *BridgeService) Refund(ctx context.Context, cmd TransactionCommand) (*reconcile.TransactionView, error) {
	return s.runTransaction(ctx, domain.TransactionRefund, cmd)
}

// Void carries neither amount nor currency.
func (s *BridgeService) Void(ctx context.Context, cmd TransactionCommand) (*reconcile.TransactionView, error) {
	cmd.Amount.Valid = false
	cmd.Currency = ""
	return s.runTransaction(ctx, domain.TransactionVoid, cmd)
}

// runTransaction replays a locally recorded transaction on the remote
// instance. The remote account is created on first use; operations on an
// existing payment require the payment to be known remotely.
func (s *BridgeService) runTransaction(ctx context.Context, txnType domain.TransactionType, cmd TransactionCommand) (*reconcile.TransactionView, error) {
	logger := s.logger.With(
		"transaction_type", txnType,
		"tenant_id", cmd.TenantID,
		"account_id", cmd.AccountID,
		"payment_id", cmd.PaymentID,
		"payment_method_id", cmd.PaymentMethodID,
		"amount", cmd.Amount.Decimal.String(),
		"currency", cmd.Currency,
	)
	logger.Info("bridge payment entering")

	view, err := s.transaction(ctx, txnType, cmd)
	if err != nil {
		logger.Warn("bridge payment failed", "error", err)
		return nil, err
	}

	logger.Info("bridge payment succeeded", "status", view.Status)
	return view, nil
}

func (s *BridgeService) transaction(ctx context.Context, txnType domain.TransactionType, cmd TransactionCommand) (*reconcile.TransactionView, error) {
	cfg, err := s.configs.PaymentConfig(cmd.TenantID)
	if err != nil {
		return nil, err
	}

	payment, err := s.directory.GetPayment(ctx, cmd.TenantID, cmd.PaymentID)
	if err != nil {
		return nil, err
	}
	localTxn, ok := payment.FindTransaction(cmd.TransactionID)
	if !ok {
		return nil, domain.NewTransactionNotFoundError(cmd.PaymentID.String(), cmd.TransactionID.String())
	}

	extras, err := s.internalPaymentMethodProperty(ctx, cmd, payment, cfg.InternalPaymentMethodIDName)
	if err != nil {
		return nil, err
	}

	account, err := s.directory.GetAccount(ctx, cmd.TenantID, cmd.AccountID)
	if err != nil {
		return nil, err
	}

	op := operation{
		name: string(txnType),
		scope: application.BridgeError{
			AccountID:       cmd.AccountID,
			PaymentID:       cmd.PaymentID,
			PaymentMethodID: cmd.PaymentMethodID,
		},
	}

	var view reconcile.TransactionView
	err = s.withRemote(ctx, cmd.TenantID, op, func(ctx context.Context, sess session) error {
		batch := s.newBatch().AddAccountResolution(account, resolver.CreateIfMissing)
		if txnType.TargetsExistingPayment() {
			batch.AddPaymentAndTransactionResolution(payment.ExternalKey, localTxn.ExternalKey, resolver.ThrowIfMissing)
		}

		resp, err := sess.resolver.Resolve(ctx, batch)
		if err != nil {
			return err
		}

		req := domain.TransactionRequest{
			TransactionType:        txnType,
			PaymentID:              resp.PaymentID(),
			TransactionID:          resp.TransactionID(),
			PaymentExternalKey:     payment.ExternalKey,
			TransactionExternalKey: localTxn.ExternalKey,
			Amount:                 cmd.Amount,
			Currency:               cmd.Currency,
		}
		submit := submitOptions(cfg, cmd.Properties, extras...)

		result, err := s.submit(ctx, sess, resp, req, submit)
		if err != nil {
			return err
		}

		remoteTxn, ok := reconcile.MatchOrLast(result.Transactions, localTxn.ExternalKey)
		if !ok {
			return application.NewNoMatchingTransactionError(cmd.PaymentID, cmd.TransactionID)
		}
		local := *localTxn
		if remoteTxn.TransactionExternalKey != localTxn.ExternalKey {
			if local, ok = firstLocalByKey(payment.Transactions, remoteTxn.TransactionExternalKey); !ok {
				return application.NewNoMatchingTransactionError(cmd.PaymentID, cmd.TransactionID)
			}
		}

		view = reconcile.Merge(local, remoteTxn)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *BridgeService) submit(ctx context.Context, sess session, resp *resolver.Response, req domain.TransactionRequest, submit application.SubmitOptions) (*domain.RemotePayment, error) {
	switch req.TransactionType {
	case domain.TransactionAuthorize, domain.TransactionPurchase, domain.TransactionCredit:
		// A local account without an external key is never resolved.
		if !resp.AccountID().Valid {
			return nil, domain.NewMissingRequiredFieldError("account external key")
		}
		return sess.client.CreatePayment(ctx, resp.AccountID().UUID, resp.PaymentMethodID(), req, submit, sess.opts)
	case domain.TransactionCapture:
		return sess.client.CapturePayment(ctx, req, submit, sess.opts)
	case domain.TransactionRefund:
		return sess.client.RefundPayment(ctx, req, submit, sess.opts)
	case domain.TransactionVoid:
		return sess.client.VoidPayment(ctx, req, submit, sess.opts)
	default:
		return nil, fmt.Errorf("unexpected transaction type %q", req.TransactionType)
	}
}

// internalPaymentMethodProperty names the local payment method to the remote
// instance, which has no payment method of its own for it.
func (s *BridgeService) internalPaymentMethodProperty(ctx context.Context, cmd TransactionCommand, payment *domain.Payment, name string) ([]domain.PluginProperty, error) {
	pmID := cmd.PaymentMethodID
	if pmID == uuid.Nil {
		pmID = payment.PaymentMethodID
	}
	if pmID == uuid.Nil {
		return nil, nil
	}

	pm, err := s.directory.GetPaymentMethod(ctx, cmd.TenantID, pmID)
	if err != nil {
		return nil, err
	}
	return []domain.PluginProperty{{Key: name, Value: pm.ExternalKey, IsUpdatable: true}}, nil
}
