package services

import (
	"context"
	"errors"

	"github.com/DanielPopoola/payment-bridge/internal/application"
	"github.com/DanielPopoola/payment-bridge/internal/config"
	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/DanielPopoola/payment-bridge/internal/resolver"
)

// Payment method operations are only forwarded under the proxy model. Under
// proxy-routing payment methods stay local and every call is a no-op.

const (
	opGetPaymentMethod         = "GET_PAYMENT_METHOD"
	opGetAccountPaymentMethods = "GET_ACCOUNT_PAYMENT_METHODS"
	opSetDefaultPaymentMethod  = "SET_DEFAULT_PAYMENT_METHOD"
	opDeletePaymentMethod      = "DELETE_PAYMENT_METHOD"
	opAddPaymentMethod         = "ADD_PAYMENT_METHOD"
)

func (s *BridgeService) proxied(tenantID string) (bool, error) {
	cfg, err := s.configs.PaymentConfig(tenantID)
	if err != nil {
		return false, err
	}
	return cfg.ProxyModel == config.ProxyModelSimple, nil
}

// GetPaymentMethodDetail returns nil when the payment method is unknown remotely.
func (s *BridgeService) GetPaymentMethodDetail(ctx context.Context, cmd PaymentMethodCommand) (*PaymentMethodDetail, error) {
	if proxied, err := s.proxied(cmd.TenantID); err != nil || !proxied {
		return nil, err
	}

	pm, err := s.directory.GetPaymentMethod(ctx, cmd.TenantID, cmd.PaymentMethodID)
	if err != nil {
		return nil, err
	}

	op := operation{
		name:  opGetPaymentMethod,
		scope: application.BridgeError{AccountID: cmd.AccountID, PaymentMethodID: cmd.PaymentMethodID},
	}

	var detail *PaymentMethodDetail
	err = s.withRemote(ctx, cmd.TenantID, op, func(ctx context.Context, sess session) error {
		remote, err := sess.client.GetPaymentMethodByKey(ctx, pm.ExternalKey, sess.opts)
		if errors.Is(err, domain.ErrEntityNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		detail = paymentMethodDetail(pm, remote)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// GetPaymentMethods lists the remote payment methods of an account, creating
// the remote account on first use.
func (s *BridgeService) GetPaymentMethods(ctx context.Context, cmd PaymentMethodCommand) ([]PaymentMethodInfo, error) {
	if proxied, err := s.proxied(cmd.TenantID); err != nil || !proxied {
		return nil, err
	}

	account, err := s.directory.GetAccount(ctx, cmd.TenantID, cmd.AccountID)
	if err != nil {
		return nil, err
	}

	op := operation{
		name:  opGetAccountPaymentMethods,
		scope: application.BridgeError{AccountID: cmd.AccountID},
	}

	var infos []PaymentMethodInfo
	err = s.withRemote(ctx, cmd.TenantID, op, func(ctx context.Context, sess session) error {
		resp, err := sess.resolver.Resolve(ctx, s.newBatch().AddAccountResolution(account, resolver.CreateIfMissing))
		if err != nil {
			return err
		}
		if !resp.AccountID().Valid {
			return domain.NewMissingRequiredFieldError("account external key")
		}

		remote, err := sess.client.GetPaymentMethodsForAccount(ctx, resp.AccountID().UUID, domain.PropertiesToMap(cmd.Properties), sess.opts)
		if err != nil {
			return err
		}
		infos = paymentMethodInfos(account, remote)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

func (s *BridgeService) SetDefaultPaymentMethod(ctx context.Context, cmd PaymentMethodCommand) error {
	if proxied, err := s.proxied(cmd.TenantID); err != nil || !proxied {
		return err
	}

	account, err := s.directory.GetAccount(ctx, cmd.TenantID, cmd.AccountID)
	if err != nil {
		return err
	}
	pm, err := s.directory.GetPaymentMethod(ctx, cmd.TenantID, cmd.PaymentMethodID)
	if err != nil {
		return err
	}

	op := operation{
		name:  opSetDefaultPaymentMethod,
		scope: application.BridgeError{AccountID: cmd.AccountID, PaymentMethodID: cmd.PaymentMethodID},
	}

	return s.withRemote(ctx, cmd.TenantID, op, func(ctx context.Context, sess session) error {
		batch := s.newBatch().
			AddAccountResolution(account, resolver.CreateIfMissing).
			AddPaymentMethodResolution(pm.ExternalKey, resolver.IgnoreIfMissing)

		resp, err := sess.resolver.Resolve(ctx, batch)
		if err != nil {
			return err
		}
		if !resp.AccountID().Valid {
			return domain.NewMissingRequiredFieldError("account external key")
		}
		if !resp.PaymentMethodID().Valid {
			return domain.NewUnresolvedEntityError(string(resolver.KindPaymentMethod), pm.ExternalKey)
		}

		return sess.client.SetDefaultPaymentMethod(ctx, resp.AccountID().UUID, resp.PaymentMethodID().UUID, sess.opts)
	})
}

// DeletePaymentMethod is a no-op when the payment method is unknown remotely.
func (s *BridgeService) DeletePaymentMethod(ctx context.Context, cmd PaymentMethodCommand) error {
	if proxied, err := s.proxied(cmd.TenantID); err != nil || !proxied {
		return err
	}

	pm, err := s.directory.GetPaymentMethod(ctx, cmd.TenantID, cmd.PaymentMethodID)
	if err != nil {
		return err
	}

	op := operation{
		name:  opDeletePaymentMethod,
		scope: application.BridgeError{AccountID: cmd.AccountID, PaymentMethodID: cmd.PaymentMethodID},
	}

	return s.withRemote(ctx, cmd.TenantID, op, func(ctx context.Context, sess session) error {
		resp, err := sess.resolver.Resolve(ctx, s.newBatch().AddPaymentMethodResolution(pm.ExternalKey, resolver.IgnoreIfMissing))
		if err != nil {
			return err
		}
		if !resp.PaymentMethodID().Valid {
			s.logger.Info("payment method unknown remotely, nothing to delete",
				"tenant_id", cmd.TenantID,
				"payment_method_id", cmd.PaymentMethodID,
				"external_key", pm.ExternalKey,
			)
			return nil
		}
		return sess.client.DeletePaymentMethod(ctx, resp.PaymentMethodID().UUID, sess.opts)
	})
}

// AddPaymentMethod cannot be forwarded: the remote instance would need a
// plugin name the local call does not carry.
func (s *BridgeService) AddPaymentMethod(ctx context.Context, cmd PaymentMethodCommand) error {
	if proxied, err := s.proxied(cmd.TenantID); err != nil || !proxied {
		return err
	}
	return &application.BridgeError{
		Operation:       opAddPaymentMethod,
		AccountID:       cmd.AccountID,
		PaymentMethodID: cmd.PaymentMethodID,
		Err:             domain.NewNotImplementedError("adding a payment method under the proxy model"),
	}
}
