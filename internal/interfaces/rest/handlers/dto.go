package handlers

import (
	"github.com/DanielPopoola/payment-bridge/internal/application/services"
	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type transactionRequest struct {
	AccountID       uuid.UUID               `json:"accountId"`
	PaymentMethodID uuid.UUID               `json:"paymentMethodId"`
	Amount          decimal.NullDecimal     `json:"amount"`
	Currency        string                  `json:"currency"`
	Properties      []domain.PluginProperty `json:"properties"`
}

func (req transactionRequest) toCommand(tenantID string, paymentID, transactionID uuid.UUID) services.TransactionCommand {
	return services.TransactionCommand{
		TenantID:        tenantID,
		AccountID:       req.AccountID,
		PaymentID:       paymentID,
		TransactionID:   transactionID,
		PaymentMethodID: req.PaymentMethodID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Properties:      req.Properties,
	}
}

type paymentMethodRequest struct {
	Properties []domain.PluginProperty `json:"properties"`
}

type paymentMethodDetail struct {
	PaymentMethodID         uuid.UUID               `json:"paymentMethodId"`
	RemotePaymentMethodID   uuid.UUID               `json:"remotePaymentMethodId"`
	ExternalPaymentMethodID string                  `json:"externalPaymentMethodId,omitempty"`
	IsDefault               bool                    `json:"isDefault"`
	Properties              []domain.PluginProperty `json:"properties,omitempty"`
}

func toPaymentMethodDetail(d *services.PaymentMethodDetail) *paymentMethodDetail {
	if d == nil {
		return nil
	}
	return &paymentMethodDetail{
		PaymentMethodID:         d.PaymentMethodID,
		RemotePaymentMethodID:   d.RemotePaymentMethodID,
		ExternalPaymentMethodID: d.ExternalPaymentMethodID,
		IsDefault:               d.IsDefault,
		Properties:              d.Properties,
	}
}

type paymentMethodInfo struct {
	AccountID               uuid.UUID `json:"accountId"`
	RemotePaymentMethodID   uuid.UUID `json:"remotePaymentMethodId"`
	ExternalKey             string    `json:"externalKey"`
	IsDefault               bool      `json:"isDefault"`
	ExternalPaymentMethodID string    `json:"externalPaymentMethodId,omitempty"`
}

func toPaymentMethodInfos(infos []services.PaymentMethodInfo) []paymentMethodInfo {
	out := make([]paymentMethodInfo, 0, len(infos))
	for _, i := range infos {
		out = append(out, paymentMethodInfo{
			AccountID:               i.AccountID,
			RemotePaymentMethodID:   i.RemotePaymentMethodID,
			ExternalKey:             i.ExternalKey,
			IsDefault:               i.IsDefault,
			ExternalPaymentMethodID: i.ExternalPaymentMethodID,
		})
	}
	return out
}

type tenantHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status  string                  `json:"status"`
	Tenants map[string]tenantHealth `json:"tenants"`
}
