package domain_test

import (
	"fmt"
	"testing"

	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPluginStatus(t *testing.T) {
	cases := map[string]domain.PluginStatus{
		"SUCCESS":         domain.PluginStatusProcessed,
		"PENDING":         domain.PluginStatusPending,
		"PAYMENT_FAILURE": domain.PluginStatusError,
		"PLUGIN_FAILURE":  domain.PluginStatusCanceled,
		"UNKNOWN":         domain.PluginStatusUndefined,
		"":                domain.PluginStatusUndefined,
		"success":         domain.PluginStatusUndefined,
		"SETTLED":         domain.PluginStatusUndefined,
	}

	for input, expected := range cases {
		t.Run(fmt.Sprintf("status %q", input), func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, expected, domain.ToPluginStatus(input))
			})
		})
	}
}

func TestToTransactionStatus(t *testing.T) {
	assert.Equal(t, domain.TransactionStatusSuccess, domain.ToTransactionStatus(domain.PluginStatusProcessed))
	assert.Equal(t, domain.TransactionStatusPaymentFailure, domain.ToTransactionStatus(domain.PluginStatusError))
	assert.Equal(t, domain.TransactionStatusPluginFailure, domain.ToTransactionStatus(domain.PluginStatusCanceled))
	assert.Equal(t, domain.TransactionStatusPending, domain.ToTransactionStatus(domain.PluginStatusPending))
	assert.Equal(t, domain.TransactionStatusPending, domain.ToTransactionStatus(domain.PluginStatusUndefined))
}

func TestTransactionType(t *testing.T) {
	assert.True(t, domain.TransactionCapture.TargetsExistingPayment())
	assert.True(t, domain.TransactionRefund.TargetsExistingPayment())
	assert.True(t, domain.TransactionVoid.TargetsExistingPayment())
	assert.False(t, domain.TransactionAuthorize.TargetsExistingPayment())
	assert.False(t, domain.TransactionPurchase.TargetsExistingPayment())
	assert.False(t, domain.TransactionCredit.TargetsExistingPayment())

	assert.True(t, domain.TransactionType("CREDIT").Valid())
	assert.False(t, domain.TransactionType("CHARGEBACK").Valid())
}

func TestPayment_FindTransaction(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	p := &domain.Payment{
		ID: uuid.New(),
		Transactions: []domain.Transaction{
			{ID: first, ExternalKey: "tx-1", Status: domain.TransactionStatusSuccess},
			{ID: second, ExternalKey: "tx-2", Status: domain.TransactionStatusPending},
		},
	}

	txn, ok := p.FindTransaction(second)
	require.True(t, ok)
	assert.Equal(t, "tx-2", txn.ExternalKey)

	_, ok = p.FindTransaction(uuid.New())
	assert.False(t, ok)

	assert.True(t, p.HasPendingTransactions())
	p.Transactions[1].Status = domain.TransactionStatusSuccess
	assert.False(t, p.HasPendingTransactions())
}

func TestRemotePayment_FindTransactionByKey(t *testing.T) {
	retryID := uuid.New()
	p := &domain.RemotePayment{
		Transactions: []domain.RemoteTransaction{
			{TransactionID: retryID, TransactionExternalKey: "tx-1"},
			{TransactionID: uuid.New(), TransactionExternalKey: "tx-1"},
		},
	}

	txn, ok := p.FindTransactionByKey("tx-1")
	require.True(t, ok)
	assert.Equal(t, retryID, txn.TransactionID)

	_, ok = p.FindTransactionByKey("tx-9")
	assert.False(t, ok)
}

func TestMergeProperties(t *testing.T) {
	defaults := []domain.PluginProperty{
		{Key: "gateway", Value: "stripe"},
		{Key: "mode", Value: "test"},
	}
	overrides := []domain.PluginProperty{
		{Key: "mode", Value: "live", IsUpdatable: true},
		{Key: "descriptor", Value: "ACME"},
	}

	merged := domain.MergeProperties(defaults, overrides)

	assert.Equal(t, []domain.PluginProperty{
		{Key: "gateway", Value: "stripe"},
		{Key: "mode", Value: "live", IsUpdatable: true},
		{Key: "descriptor", Value: "ACME"},
	}, merged)
}

func TestPropertiesToMap(t *testing.T) {
	props := []domain.PluginProperty{
		{Key: "a", Value: "1"},
		{Key: "pm_id", Value: "caller"},
	}

	m := domain.PropertiesToMap(props, domain.PluginProperty{Key: "pm_id", Value: "pm-key"})

	assert.Equal(t, map[string]string{"a": "1", "pm_id": "pm-key"}, m)
	assert.Empty(t, domain.PropertiesToMap(nil))
}

func TestDomainError_Is(t *testing.T) {
	err := fmt.Errorf("lookup: %w", domain.NewUnresolvedEntityError("ACCOUNT", "acct-1"))

	assert.ErrorIs(t, err, domain.ErrUnresolvedEntity)
	assert.NotErrorIs(t, err, domain.ErrNotImplemented)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeUnresolvedEntity))
	assert.Contains(t, err.Error(), `"acct-1"`)
}
