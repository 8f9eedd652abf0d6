package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/payment-bridge/internal/application/services"
	"github.com/DanielPopoola/payment-bridge/internal/reconcile"
	"github.com/google/uuid"
)

// Bridge is the service surface exposed over HTTP.
type Bridge interface {
	Authorize(ctx context.Context, cmd services.TransactionCommand) (*reconcile.TransactionView, error)
	Purchase(ctx context.Context, cmd services.TransactionCommand) (*reconcile.TransactionView, error)
	Credit(ctx context.Context, cmd services.TransactionCommand) (*reconcile.TransactionView, error)
	Capture(ctx context.Context, cmd services.TransactionCommand) (*reconcile.TransactionView, error)
	Refund(ctx context.Context, cmd services.TransactionCommand) (*reconcile.TransactionView, error)
	Void(ctx context.Context, cmd services.TransactionCommand) (*reconcile.TransactionView, error)

	GetPaymentInfo(ctx context.Context, tenantID string, paymentID uuid.UUID) ([]reconcile.TransactionView, error)
	GetTransactionInfo(ctx context.Context, tenantID string, paymentID, transactionID uuid.UUID) (*reconcile.TransactionView, error)

	GetPaymentMethodDetail(ctx context.Context, cmd services.PaymentMethodCommand) (*services.PaymentMethodDetail, error)
	GetPaymentMethods(ctx context.Context, cmd services.PaymentMethodCommand) ([]services.PaymentMethodInfo, error)
	SetDefaultPaymentMethod(ctx context.Context, cmd services.PaymentMethodCommand) error
	DeletePaymentMethod(ctx context.Context, cmd services.PaymentMethodCommand) error
	AddPaymentMethod(ctx context.Context, cmd services.PaymentMethodCommand) error

	Healthcheck(ctx context.Context, tenantID string) services.HealthStatus
}

// TenantLister names the configured tenants for the health endpoint.
type TenantLister interface {
	IDs() []string
}

type Handlers struct {
	bridge  Bridge
	tenants TenantLister
	logger  *slog.Logger
}

var _ Bridge = (*services.BridgeService)(nil)

func NewHandlers(bridge Bridge, tenants TenantLister, logger *slog.Logger) *Handlers {
	return &Handlers{
		bridge:  bridge,
		tenants: tenants,
		logger:  logger,
	}
}

const (
	tenantBase        = "/v1/tenants/{tenantId}"
	transactionPath   = tenantBase + "/payments/{paymentId}/transactions/{transactionId}"
	paymentMethodBase = tenantBase + "/accounts/{accountId}/payment-methods"
	paymentMethodPath = paymentMethodBase + "/{paymentMethodId}"
)

// Register mounts every route on mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+tenantBase+"/payments/{paymentId}", h.GetPaymentInfo)
	mux.HandleFunc("GET "+transactionPath, h.GetTransactionInfo)
	mux.HandleFunc("POST "+transactionPath+"/{operation}", h.RunTransaction)

	mux.HandleFunc("GET "+paymentMethodBase, h.GetPaymentMethods)
	mux.HandleFunc("GET "+paymentMethodPath, h.GetPaymentMethodDetail)
	mux.HandleFunc("POST "+paymentMethodPath, h.AddPaymentMethod)
	mux.HandleFunc("DELETE "+paymentMethodPath, h.DeletePaymentMethod)
	mux.HandleFunc("PUT "+paymentMethodPath+"/default", h.SetDefaultPaymentMethod)

	mux.HandleFunc("GET /healthz", h.Healthz)
}
