package postgres

import (
	"fmt"
	"time"

	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type accountModel struct {
	ID          uuid.UUID
	TenantID    string
	ExternalKey string
	Name        *string
	Email       *string
	Currency    *string
	Country     *string
	Locale      *string
	CreatedAt   time.Time
}

type paymentMethodModel struct {
	ID          uuid.UUID
	TenantID    string
	AccountID   uuid.UUID
	ExternalKey string
	PluginName  string
	IsDefault   bool
	CreatedAt   time.Time
}

type paymentModel struct {
	ID              uuid.UUID
	TenantID        string
	AccountID       uuid.UUID
	PaymentMethodID *uuid.UUID
	ExternalKey     string
	CreatedAt       time.Time
}

type transactionModel struct {
	ID          uuid.UUID
	PaymentID   uuid.UUID
	ExternalKey string
	Type        string
	Amount      *string
	Currency    *string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (m accountModel) toDomain() *domain.Account {
	return &domain.Account{
		ID:          m.ID,
		ExternalKey: m.ExternalKey,
		Name:        deref(m.Name),
		Email:       deref(m.Email),
		Currency:    deref(m.Currency),
		Country:     deref(m.Country),
		Locale:      deref(m.Locale),
		CreatedAt:   m.CreatedAt,
	}
}

func (m paymentMethodModel) toDomain() *domain.PaymentMethod {
	return &domain.PaymentMethod{
		ID:          m.ID,
		AccountID:   m.AccountID,
		ExternalKey: m.ExternalKey,
		PluginName:  m.PluginName,
		IsDefault:   m.IsDefault,
		CreatedAt:   m.CreatedAt,
	}
}

func (m paymentModel) toDomain(txns []domain.Transaction) *domain.Payment {
	p := &domain.Payment{
		ID:           m.ID,
		TenantID:     m.TenantID,
		AccountID:    m.AccountID,
		ExternalKey:  m.ExternalKey,
		Transactions: txns,
		CreatedAt:    m.CreatedAt,
	}
	if m.PaymentMethodID != nil {
		p.PaymentMethodID = *m.PaymentMethodID
	}
	return p
}

func (m transactionModel) toDomain() (domain.Transaction, error) {
	t := domain.Transaction{
		ID:          m.ID,
		PaymentID:   m.PaymentID,
		ExternalKey: m.ExternalKey,
		Type:        domain.TransactionType(m.Type),
		Currency:    deref(m.Currency),
		Status:      domain.TransactionStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Amount != nil {
		amount, err := decimal.NewFromString(*m.Amount)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("transaction %s amount %q: %w", m.ID, *m.Amount, err)
		}
		t.Amount = amount
	}
	return t, nil
}
