package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Remote entities mirror the JSON representations served by the remote
// billing instance. Identifiers are the remote instance's own.

type RemoteAccount struct {
	AccountID   uuid.UUID `json:"accountId"`
	ExternalKey string    `json:"externalKey"`
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	Country     string    `json:"country,omitempty"`
	Locale      string    `json:"locale,omitempty"`
}

type RemotePaymentMethodInfo struct {
	ExternalPaymentMethodID string           `json:"externalPaymentMethodId,omitempty"`
	IsDefaultPaymentMethod  bool             `json:"isDefaultPaymentMethod"`
	Properties              []PluginProperty `json:"properties,omitempty"`
}

type RemotePaymentMethod struct {
	PaymentMethodID uuid.UUID                `json:"paymentMethodId"`
	ExternalKey     string                   `json:"externalKey"`
	AccountID       uuid.UUID                `json:"accountId"`
	IsDefault       bool                     `json:"isDefault"`
	PluginName      string                   `json:"pluginName"`
	PluginInfo      *RemotePaymentMethodInfo `json:"pluginInfo,omitempty"`
}

type RemotePayment struct {
	PaymentID          uuid.UUID           `json:"paymentId"`
	AccountID          uuid.UUID           `json:"accountId"`
	PaymentMethodID    uuid.UUID           `json:"paymentMethodId"`
	PaymentExternalKey string              `json:"paymentExternalKey"`
	Currency           string              `json:"currency,omitempty"`
	Transactions       []RemoteTransaction `json:"transactions"`
}

// FindTransactionByKey returns the first transaction carrying the external key.
// A remote payment may hold several under one key when an operation was retried.
func (p *RemotePayment) FindTransactionByKey(externalKey string) (*RemoteTransaction, bool) {
	for i := range p.Transactions {
		if p.Transactions[i].TransactionExternalKey == externalKey {
			return &p.Transactions[i], true
		}
	}
	return nil, false
}

type RemoteTransaction struct {
	TransactionID            uuid.UUID        `json:"transactionId"`
	TransactionExternalKey   string           `json:"transactionExternalKey"`
	PaymentID                uuid.UUID        `json:"paymentId"`
	PaymentExternalKey       string           `json:"paymentExternalKey"`
	TransactionType          string           `json:"transactionType"`
	Amount                   decimal.Decimal  `json:"amount"`
	Currency                 string           `json:"currency"`
	EffectiveDate            time.Time        `json:"effectiveDate"`
	Status                   string           `json:"status"`
	GatewayErrorCode         string           `json:"gatewayErrorCode,omitempty"`
	GatewayErrorMsg          string           `json:"gatewayErrorMsg,omitempty"`
	FirstPaymentReferenceID  string           `json:"firstPaymentReferenceId,omitempty"`
	SecondPaymentReferenceID string           `json:"secondPaymentReferenceId,omitempty"`
	Properties               []PluginProperty `json:"properties,omitempty"`
}

// TransactionRequest is the body submitted to the remote instance for a new
// payment operation. Unresolved identifiers serialize as null.
type TransactionRequest struct {
	TransactionType        TransactionType     `json:"transactionType"`
	PaymentID              uuid.NullUUID       `json:"paymentId"`
	TransactionID          uuid.NullUUID       `json:"transactionId"`
	PaymentExternalKey     string              `json:"paymentExternalKey"`
	TransactionExternalKey string              `json:"transactionExternalKey"`
	Amount                 decimal.NullDecimal `json:"amount"`
	Currency               string              `json:"currency,omitempty"`
}

// RequestOptions carries the audit metadata attached to every remote call.
type RequestOptions struct {
	CreatedBy string
	Reason    string
	Comment   string
	RequestID string
}
