package services

import (
	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionCommand addresses a payment operation with local identifiers.
// The local payment and transaction must already be recorded.
type TransactionCommand struct {
	TenantID        string
	AccountID       uuid.UUID
	PaymentID       uuid.UUID
	TransactionID   uuid.UUID
	PaymentMethodID uuid.UUID
	Amount          decimal.NullDecimal
	Currency        string
	Properties      []domain.PluginProperty
}

type PaymentMethodCommand struct {
	TenantID        string
	AccountID       uuid.UUID
	PaymentMethodID uuid.UUID
	Properties      []domain.PluginProperty
}

// PaymentMethodDetail is the remote view of one payment method.
type PaymentMethodDetail struct {
	PaymentMethodID         uuid.UUID               `json:"paymentMethodId"`
	RemotePaymentMethodID   uuid.UUID               `json:"remotePaymentMethodId"`
	ExternalPaymentMethodID string                  `json:"externalPaymentMethodId,omitempty"`
	IsDefault               bool                    `json:"isDefault"`
	Properties              []domain.PluginProperty `json:"properties,omitempty"`
}

// PaymentMethodInfo is one entry of an account's remote payment methods.
// Remote payment methods carry no local id; ExternalKey links them back.
type PaymentMethodInfo struct {
	AccountID               uuid.UUID `json:"accountId"`
	RemotePaymentMethodID   uuid.UUID `json:"remotePaymentMethodId"`
	ExternalKey             string    `json:"externalKey"`
	IsDefault               bool      `json:"isDefault"`
	ExternalPaymentMethodID string    `json:"externalPaymentMethodId,omitempty"`
}

type HealthStatus struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message"`
}
