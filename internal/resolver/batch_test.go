package resolver_test

import (
	"testing"

	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/DanielPopoola/payment-bridge/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_DeduplicatesByKindAndKey(t *testing.T) {
	account := &domain.Account{ExternalKey: "acct-1"}

	batch := resolver.NewBatch().
		AddAccountResolution(account, resolver.CreateIfMissing).
		AddAccountResolution(account, resolver.ThrowIfMissing)

	require.Equal(t, 1, batch.Len())
	assert.Equal(t, resolver.CreateIfMissing, batch.Requests()[0].Policy)
}

func TestBatch_SameKeyDifferentKindIsKept(t *testing.T) {
	batch := resolver.NewBatch().
		AddPaymentResolution("shared-key", resolver.IgnoreIfMissing).
		AddPaymentMethodResolution("shared-key", resolver.IgnoreIfMissing)

	assert.Equal(t, 2, batch.Len())
}

func TestBatch_EmptyKeysAreNoOps(t *testing.T) {
	batch := resolver.NewBatch().
		AddAccountResolution(nil, resolver.CreateIfMissing).
		AddAccountResolution(&domain.Account{}, resolver.CreateIfMissing).
		AddPaymentMethodResolution("", resolver.ThrowIfMissing).
		AddPaymentResolution("", resolver.ThrowIfMissing).
		AddPaymentAndTransactionResolution("", "tx-1", resolver.ThrowIfMissing)

	assert.Equal(t, 0, batch.Len())
}

func TestBatch_PreservesInsertionOrder(t *testing.T) {
	batch := resolver.NewBatch().
		AddAccountResolution(&domain.Account{ExternalKey: "acct-1"}, resolver.CreateIfMissing).
		AddPaymentMethodResolution("pm-1", resolver.IgnoreIfMissing).
		AddPaymentAndTransactionResolution("pay-1", "tx-1", resolver.ThrowIfMissing)

	reqs := batch.Requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, resolver.KindAccount, reqs[0].Kind)
	assert.Equal(t, resolver.KindPaymentMethod, reqs[1].Kind)
	assert.Equal(t, resolver.KindPaymentAndTransaction, reqs[2].Kind)
	assert.Equal(t, "pay-1", reqs[2].SourceKey)
}

func TestBatch_PaymentAndTransactionWithoutTransactionKey(t *testing.T) {
	batch := resolver.NewBatch().
		AddPaymentAndTransactionResolution("pay-1", "", resolver.IgnoreIfMissing)

	reqs := batch.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, resolver.KindPayment, reqs[0].Kind)
}

func TestBatch_IdentifiersComeFromSequence(t *testing.T) {
	seq := &fixedSequence{}

	first := resolver.NewBatchWithSequence(seq)
	second := resolver.NewBatchWithSequence(seq)

	assert.Equal(t, int64(1), first.ID())
	assert.Equal(t, int64(2), second.ID())
}

func TestBatch_DefaultSequenceIsMonotonic(t *testing.T) {
	first := resolver.NewBatch()
	second := resolver.NewBatch()

	assert.Greater(t, second.ID(), first.ID())
}
