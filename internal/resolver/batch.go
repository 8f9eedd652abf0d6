package resolver

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/google/uuid"
)

// RemoteClient is the subset of the remote billing API that resolution needs.
// Lookups signal absence with domain.ErrEntityNotFound.
type RemoteClient interface {
	GetAccountByKey(ctx context.Context, externalKey string, opts domain.RequestOptions) (*domain.RemoteAccount, error)
	CreateAccount(ctx context.Context, account domain.RemoteAccount, opts domain.RequestOptions) (*domain.RemoteAccount, error)
	GetPaymentMethodByKey(ctx context.Context, externalKey string, opts domain.RequestOptions) (*domain.RemotePaymentMethod, error)
	GetPaymentByExternalKey(ctx context.Context, externalKey string, opts domain.RequestOptions) (*domain.RemotePayment, error)
}

// Sequence hands out batch identifiers.
type Sequence interface {
	Next() int64
}

// AtomicSequence is a process-wide monotonically increasing counter.
type AtomicSequence struct {
	n atomic.Int64
}

func (s *AtomicSequence) Next() int64 {
	return s.n.Add(1)
}

var defaultSequence Sequence = &AtomicSequence{}

type resolveFunc func(ctx context.Context, client RemoteClient, opts domain.RequestOptions, b *ResponseBuilder) (uuid.NullUUID, error)

// Request is one unit of resolution work. Two requests are the same request
// when kind and source key match.
type Request struct {
	Kind      Kind
	SourceKey string
	Policy    Policy
	resolve   resolveFunc
}

type requestKey struct {
	kind Kind
	key  string
}

// Batch is an ordered, de-duplicated set of requests.
type Batch struct {
	id       int64
	requests []Request
	seen     map[requestKey]struct{}
}

func NewBatch() *Batch {
	return NewBatchWithSequence(defaultSequence)
}

func NewBatchWithSequence(seq Sequence) *Batch {
	return &Batch{
		id:   seq.Next(),
		seen: make(map[requestKey]struct{}),
	}
}

// ID is used for log correlation only.
func (b *Batch) ID() int64 {
	return b.id
}

func (b *Batch) Len() int {
	return len(b.requests)
}

// Requests returns the requests in insertion order.
func (b *Batch) Requests() []Request {
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

func (b *Batch) add(r Request) *Batch {
	k := requestKey{kind: r.Kind, key: r.SourceKey}
	if _, dup := b.seen[k]; dup {
		return b
	}
	b.seen[k] = struct{}{}
	b.requests = append(b.requests, r)
	return b
}

// AddAccountResolution maps a local account by its external key. With
// CreateIfMissing a missing remote account is created from the local one.
func (b *Batch) AddAccountResolution(account *domain.Account, policy Policy) *Batch {
	if account == nil || account.ExternalKey == "" {
		return b
	}
	local := *account
	return b.add(Request{
		Kind:      KindAccount,
		SourceKey: local.ExternalKey,
		Policy:    policy,
		resolve: func(ctx context.Context, client RemoteClient, opts domain.RequestOptions, rb *ResponseBuilder) (uuid.NullUUID, error) {
			remote, err := client.GetAccountByKey(ctx, local.ExternalKey, opts)
			if err != nil && !errors.Is(err, domain.ErrEntityNotFound) {
				return uuid.NullUUID{}, err
			}
			if err != nil {
				remote = nil
			}

			if remote == nil {
				switch policy {
				case CreateIfMissing:
					remote, err = client.CreateAccount(ctx, domain.RemoteAccount{
						ExternalKey: local.ExternalKey,
						Country:     local.Country,
						Locale:      local.Locale,
						Currency:    local.Currency,
					}, opts)
					if err != nil {
						return uuid.NullUUID{}, err
					}
				case IgnoreIfMissing:
					return uuid.NullUUID{}, nil
				default:
					return uuid.NullUUID{}, domain.NewUnresolvedEntityError(string(KindAccount), local.ExternalKey)
				}
			}

			if remote == nil || remote.AccountID == uuid.Nil {
				return uuid.NullUUID{}, domain.NewUnresolvedEntityError(string(KindAccount), local.ExternalKey)
			}
			rb.SetAccountID(remote.AccountID)
			return uuid.NullUUID{UUID: remote.AccountID, Valid: true}, nil
		},
	})
}

// AddPaymentMethodResolution maps a payment method by external key. Creating
// a missing payment method is not supported.
func (b *Batch) AddPaymentMethodResolution(externalKey string, policy Policy) *Batch {
	if externalKey == "" {
		return b
	}
	return b.add(Request{
		Kind:      KindPaymentMethod,
		SourceKey: externalKey,
		Policy:    policy,
		resolve: func(ctx context.Context, client RemoteClient, opts domain.RequestOptions, rb *ResponseBuilder) (uuid.NullUUID, error) {
			pm, err := client.GetPaymentMethodByKey(ctx, externalKey, opts)
			if err != nil && !errors.Is(err, domain.ErrEntityNotFound) {
				return uuid.NullUUID{}, err
			}
			if err != nil || pm == nil || pm.PaymentMethodID == uuid.Nil {
				return uuid.NullUUID{}, onMissing(KindPaymentMethod, externalKey, policy)
			}
			rb.SetPaymentMethodID(pm.PaymentMethodID)
			return uuid.NullUUID{UUID: pm.PaymentMethodID, Valid: true}, nil
		},
	})
}

// AddPaymentResolution maps a payment by external key.
func (b *Batch) AddPaymentResolution(paymentExternalKey string, policy Policy) *Batch {
	if paymentExternalKey == "" {
		return b
	}
	return b.add(Request{
		Kind:      KindPayment,
		SourceKey: paymentExternalKey,
		Policy:    policy,
		resolve: func(ctx context.Context, client RemoteClient, opts domain.RequestOptions, rb *ResponseBuilder) (uuid.NullUUID, error) {
			payment, err := lookupPayment(ctx, client, paymentExternalKey, opts)
			if err != nil {
				return uuid.NullUUID{}, err
			}
			if payment == nil {
				return uuid.NullUUID{}, onMissing(KindPayment, paymentExternalKey, policy)
			}
			rb.SetPaymentID(payment.PaymentID)
			return uuid.NullUUID{UUID: payment.PaymentID, Valid: true}, nil
		},
	})
}

// AddPaymentAndTransactionResolution maps a payment and the first of its
// transactions carrying transactionExternalKey. The policy applies to the
// payment; a missing transaction only leaves its slot unset. Without a
// transaction key this degrades to AddPaymentResolution.
func (b *Batch) AddPaymentAndTransactionResolution(paymentExternalKey, transactionExternalKey string, policy Policy) *Batch {
	if paymentExternalKey == "" {
		return b
	}
	if transactionExternalKey == "" {
		return b.AddPaymentResolution(paymentExternalKey, policy)
	}
	return b.add(Request{
		Kind:      KindPaymentAndTransaction,
		SourceKey: paymentExternalKey,
		Policy:    policy,
		resolve: func(ctx context.Context, client RemoteClient, opts domain.RequestOptions, rb *ResponseBuilder) (uuid.NullUUID, error) {
			payment, err := lookupPayment(ctx, client, paymentExternalKey, opts)
			if err != nil {
				return uuid.NullUUID{}, err
			}
			if payment == nil {
				return uuid.NullUUID{}, onMissing(KindPaymentAndTransaction, paymentExternalKey, policy)
			}
			rb.SetPaymentID(payment.PaymentID)
			if txn, ok := payment.FindTransactionByKey(transactionExternalKey); ok {
				rb.SetTransactionID(txn.TransactionID)
			}
			return uuid.NullUUID{UUID: payment.PaymentID, Valid: true}, nil
		},
	})
}

// lookupPayment returns nil without error when the remote side has no such payment.
func lookupPayment(ctx context.Context, client RemoteClient, externalKey string, opts domain.RequestOptions) (*domain.RemotePayment, error) {
	payment, err := client.GetPaymentByExternalKey(ctx, externalKey, opts)
	if errors.Is(err, domain.ErrEntityNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if payment == nil || payment.PaymentID == uuid.Nil {
		return nil, nil
	}
	return payment, nil
}

func onMissing(kind Kind, key string, policy Policy) error {
	switch policy {
	case IgnoreIfMissing:
		return nil
	case CreateIfMissing:
		return domain.NewNotImplementedError("creating a missing remote " + string(kind))
	default:
		return domain.NewUnresolvedEntityError(string(kind), key)
	}
}
