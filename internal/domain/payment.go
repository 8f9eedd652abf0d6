// Package domain holds the local and remote billing entities the bridge moves between.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the kind of payment operation a transaction records.
type TransactionType string

const (
	TransactionAuthorize TransactionType = "AUTHORIZE"
	TransactionCapture   TransactionType = "CAPTURE"
	TransactionPurchase  TransactionType = "PURCHASE"
	TransactionVoid      TransactionType = "VOID"
	TransactionCredit    TransactionType = "CREDIT"
	TransactionRefund    TransactionType = "REFUND"
)

// TargetsExistingPayment reports whether the operation acts on a payment that
// must already exist on the remote side.
func (t TransactionType) TargetsExistingPayment() bool {
	return t == TransactionCapture || t == TransactionRefund || t == TransactionVoid
}

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionAuthorize, TransactionCapture, TransactionPurchase,
		TransactionVoid, TransactionCredit, TransactionRefund:
		return true
	}
	return false
}

// Account is a local account as stored by the local billing instance.
type Account struct {
	ID          uuid.UUID
	ExternalKey string
	Name        string
	Email       string
	Currency    string
	Country     string
	Locale      string
	CreatedAt   time.Time
}

type PaymentMethod struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	ExternalKey string
	PluginName  string
	IsDefault   bool
	CreatedAt   time.Time
}

// Payment is a local payment and its transaction history, oldest first.
type Payment struct {
	ID              uuid.UUID
	TenantID        string
	AccountID       uuid.UUID
	PaymentMethodID uuid.UUID
	ExternalKey     string
	Transactions    []Transaction
	CreatedAt       time.Time
}

type Transaction struct {
	ID          uuid.UUID
	PaymentID   uuid.UUID
	ExternalKey string
	Type        TransactionType
	Amount      decimal.Decimal
	Currency    string
	Status      TransactionStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FindTransaction returns the transaction with the given id.
func (p *Payment) FindTransaction(id uuid.UUID) (*Transaction, bool) {
	for i := range p.Transactions {
		if p.Transactions[i].ID == id {
			return &p.Transactions[i], true
		}
	}
	return nil, false
}

// HasPendingTransactions reports whether any transaction still awaits a remote outcome.
func (p *Payment) HasPendingTransactions() bool {
	for _, t := range p.Transactions {
		if t.Status == TransactionStatusPending {
			return true
		}
	}
	return false
}

// PendingPayment is the lightweight row the janitor scans for.
type PendingPayment struct {
	ID        uuid.UUID
	TenantID  string
	AccountID uuid.UUID
	CreatedAt time.Time
}
