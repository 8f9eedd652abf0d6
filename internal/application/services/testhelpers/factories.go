package testhelpers

import (
	"context"
	"testing"
	"time"

	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/DanielPopoola/payment-bridge/internal/infrastructure/persistence/postgres"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var faker = gofakeit.New(0)

func NewAccount() *domain.Account {
	return &domain.Account{
		ID:          uuid.New(),
		ExternalKey: "acct-" + faker.LetterN(12),
		Name:        faker.Name(),
		Email:       faker.Email(),
		Currency:    "USD",
		Country:     faker.CountryAbr(),
		Locale:      "en_US",
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

func NewPaymentMethod(accountID uuid.UUID) *domain.PaymentMethod {
	return &domain.PaymentMethod{
		ID:          uuid.New(),
		AccountID:   accountID,
		ExternalKey: "pm-" + faker.LetterN(12),
		PluginName:  "__EXTERNAL_PAYMENT__",
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

// NewPayment builds a payment holding one transaction per given type, spaced
// one second apart so their order is stable.
func NewPayment(tenantID string, accountID, paymentMethodID uuid.UUID, types ...domain.TransactionType) *domain.Payment {
	created := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	p := &domain.Payment{
		ID:              uuid.New(),
		TenantID:        tenantID,
		AccountID:       accountID,
		PaymentMethodID: paymentMethodID,
		ExternalKey:     "pay-" + faker.LetterN(12),
		CreatedAt:       created,
	}
	for i, typ := range types {
		at := created.Add(time.Duration(i) * time.Second)
		p.Transactions = append(p.Transactions, domain.Transaction{
			ID:          uuid.New(),
			PaymentID:   p.ID,
			ExternalKey: "txn-" + faker.LetterN(12),
			Type:        typ,
			Amount:      decimal.NewFromFloat(faker.Price(1, 500)).Round(2),
			Currency:    "USD",
			Status:      domain.TransactionStatusSuccess,
			CreatedAt:   at,
			UpdatedAt:   at,
		})
	}
	return p
}

// Fixture is a persisted account with one payment method.
type Fixture struct {
	TenantID      string
	Account       *domain.Account
	PaymentMethod *domain.PaymentMethod
}

func SeedAccount(t *testing.T, ctx context.Context, store *postgres.Store, tenantID string) Fixture {
	t.Helper()

	acct := NewAccount()
	require.NoError(t, store.SaveAccount(ctx, tenantID, acct))

	pm := NewPaymentMethod(acct.ID)
	require.NoError(t, store.SavePaymentMethod(ctx, tenantID, pm))

	return Fixture{TenantID: tenantID, Account: acct, PaymentMethod: pm}
}

func SeedPayment(t *testing.T, ctx context.Context, store *postgres.Store, f Fixture, types ...domain.TransactionType) *domain.Payment {
	t.Helper()

	p := NewPayment(f.TenantID, f.Account.ID, f.PaymentMethod.ID, types...)
	require.NoError(t, store.SavePayment(ctx, p))
	return p
}
