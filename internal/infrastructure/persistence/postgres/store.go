package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/google/uuid"
)

// Store writes local entities. The bridge itself only reads them; the store
// serves fixtures and data seeding.
type Store struct {
	db *DB
}

// ErrDuplicateKey reports an external key already taken within the tenant.
var ErrDuplicateKey = errors.New("external key already exists")

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

func (s *Store) SaveAccount(ctx context.Context, tenantID string, a *domain.Account) error {
	query := `
		INSERT INTO accounts (id, tenant_id, external_key, name, email, currency, country, locale, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.Pool.Exec(ctx, query,
		a.ID, tenantID, a.ExternalKey,
		nullable(a.Name), nullable(a.Email), nullable(a.Currency), nullable(a.Country), nullable(a.Locale),
		a.CreatedAt,
	)
	if IsUniqueViolation(err) {
		return fmt.Errorf("account %s: %w", a.ExternalKey, ErrDuplicateKey)
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (s *Store) SavePaymentMethod(ctx context.Context, tenantID string, pm *domain.PaymentMethod) error {
	query := `
		INSERT INTO payment_methods (id, tenant_id, account_id, external_key, plugin_name, is_default, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.Pool.Exec(ctx, query,
		pm.ID, tenantID, pm.AccountID, pm.ExternalKey, pm.PluginName, pm.IsDefault, pm.CreatedAt,
	)
	if IsUniqueViolation(err) {
		return fmt.Errorf("payment method %s: %w", pm.ExternalKey, ErrDuplicateKey)
	}
	if err != nil {
		return fmt.Errorf("failed to create payment method: %w", err)
	}
	return nil
}

// SavePayment inserts a payment and its transactions atomically.
func (s *Store) SavePayment(ctx context.Context, p *domain.Payment) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, q Executor) error {
		query := `
			INSERT INTO payments (id, tenant_id, account_id, payment_method_id, external_key, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`

		var pmID any
		if p.PaymentMethodID != uuid.Nil {
			pmID = p.PaymentMethodID
		}
		_, err := q.Exec(ctx, query, p.ID, p.TenantID, p.AccountID, pmID, p.ExternalKey, p.CreatedAt)
		if IsUniqueViolation(err) {
			return fmt.Errorf("payment %s: %w", p.ExternalKey, ErrDuplicateKey)
		}
		if err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		for _, t := range p.Transactions {
			if err := insertTransaction(ctx, q, p.ID, t); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertTransaction(ctx context.Context, q Executor, paymentID uuid.UUID, t domain.Transaction) error {
	query := `
		INSERT INTO payment_transactions (
			id, payment_id, external_key, transaction_type, amount, currency, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)
	`

	updatedAt := t.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = t.CreatedAt
	}
	_, err := q.Exec(ctx, query,
		t.ID, paymentID, t.ExternalKey, string(t.Type), t.Amount.String(),
		nullable(t.Currency), string(t.Status), t.CreatedAt, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction %s: %w", t.ExternalKey, err)
	}
	return nil
}
