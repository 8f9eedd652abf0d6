package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanielPopoola/payment-bridge/internal/application"
	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Directory reads accounts, payment methods and payments of the local
// instance. Every lookup is scoped to a tenant.
type Directory struct {
	q Executor
}

func NewDirectory(db *DB) *Directory {
	return &Directory{q: db.Pool}
}

var (
	_ application.LocalDirectory = (*Directory)(nil)
	_ application.PendingStore   = (*Directory)(nil)
)

func (d *Directory) GetAccount(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, tenant_id, external_key, name, email, currency, country, locale, created_at
		FROM accounts WHERE tenant_id = $1 AND id = $2
	`

	var m accountModel
	err := d.q.QueryRow(ctx, query, tenantID, id).Scan(
		&m.ID, &m.TenantID, &m.ExternalKey, &m.Name, &m.Email,
		&m.Currency, &m.Country, &m.Locale, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewLocalEntityNotFoundError("account", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account %s: %w", id, err)
	}
	return m.toDomain(), nil
}

func (d *Directory) GetPaymentMethod(ctx context.Context, tenantID string, id uuid.UUID) (*domain.PaymentMethod, error) {
	query := `
		SELECT id, tenant_id, account_id, external_key, plugin_name, is_default, created_at
		FROM payment_methods WHERE tenant_id = $1 AND id = $2
	`

	var m paymentMethodModel
	err := d.q.QueryRow(ctx, query, tenantID, id).Scan(
		&m.ID, &m.TenantID, &m.AccountID, &m.ExternalKey, &m.PluginName, &m.IsDefault, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewLocalEntityNotFoundError("payment method", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment method %s: %w", id, err)
	}
	return m.toDomain(), nil
}

// GetPayment loads a payment with its transactions ordered oldest first.
func (d *Directory) GetPayment(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Payment, error) {
	query := `
		SELECT id, tenant_id, account_id, payment_method_id, external_key, created_at
		FROM payments WHERE tenant_id = $1 AND id = $2
	`

	var m paymentModel
	err := d.q.QueryRow(ctx, query, tenantID, id).Scan(
		&m.ID, &m.TenantID, &m.AccountID, &m.PaymentMethodID, &m.ExternalKey, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewLocalEntityNotFoundError("payment", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment %s: %w", id, err)
	}

	txns, err := d.transactions(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.toDomain(txns), nil
}

func (d *Directory) transactions(ctx context.Context, paymentID uuid.UUID) ([]domain.Transaction, error) {
	query := `
		SELECT id, payment_id, external_key, transaction_type, amount::text, currency, status, created_at, updated_at
		FROM payment_transactions WHERE payment_id = $1
		ORDER BY created_at, id
	`

	rows, err := d.q.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("query transactions of payment %s: %w", paymentID, err)
	}

	txns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transaction, error) {
		var m transactionModel
		if err := row.Scan(
			&m.ID, &m.PaymentID, &m.ExternalKey, &m.Type, &m.Amount,
			&m.Currency, &m.Status, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return domain.Transaction{}, err
		}
		return m.toDomain()
	})
	if err != nil {
		return nil, fmt.Errorf("error occurred while scanning transactions: %w", err)
	}
	return txns, nil
}

// FindPendingPayments returns payments holding a transaction that has stayed
// PENDING for longer than olderThan, least recently touched first.
func (d *Directory) FindPendingPayments(ctx context.Context, olderThan time.Duration, limit int) ([]domain.PendingPayment, error) {
	query := `
		SELECT p.id, p.tenant_id, p.account_id, p.created_at
		FROM payments p
		WHERE EXISTS (
			SELECT 1 FROM payment_transactions t
			WHERE t.payment_id = p.id
			  AND t.status = 'PENDING'
			  AND t.updated_at < $1
		)
		ORDER BY (
			SELECT MIN(t.updated_at) FROM payment_transactions t
			WHERE t.payment_id = p.id AND t.status = 'PENDING'
		), p.created_at
		LIMIT $2
	`

	cutoff := time.Now().Add(-olderThan)
	rows, err := d.q.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending payments: %w", err)
	}

	pending, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PendingPayment, error) {
		var p domain.PendingPayment
		err := row.Scan(&p.ID, &p.TenantID, &p.AccountID, &p.CreatedAt)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("error occurred while scanning pending payments: %w", err)
	}
	return pending, nil
}

func (d *Directory) TouchPendingTransactions(ctx context.Context, paymentID uuid.UUID) error {
	query := `
		UPDATE payment_transactions SET updated_at = NOW()
		WHERE payment_id = $1 AND status = 'PENDING'
	`

	if _, err := d.q.Exec(ctx, query, paymentID); err != nil {
		return fmt.Errorf("failed to touch pending transactions of payment %s: %w", paymentID, err)
	}
	return nil
}

func (d *Directory) UpdateTransactionStatus(ctx context.Context, transactionID uuid.UUID, status domain.TransactionStatus) error {
	query := `
		UPDATE payment_transactions SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := d.q.Exec(ctx, query, transactionID, string(status))
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewLocalEntityNotFoundError("transaction", transactionID.String())
	}
	return nil
}
