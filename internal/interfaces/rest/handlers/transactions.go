package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/DanielPopoola/payment-bridge/internal/application"
	"github.com/DanielPopoola/payment-bridge/internal/application/services"
	"github.com/DanielPopoola/payment-bridge/internal/interfaces/rest"
	"github.com/DanielPopoola/payment-bridge/internal/reconcile"
)

type transactionFunc func(ctx context.Context, cmd services.TransactionCommand) (*reconcile.TransactionView, error)

func (h *Handlers) transactionOperation(name string) (transactionFunc, bool) {
	switch name {
	case "authorize":
		return h.bridge.Authorize, true
	case "purchase":
		return h.bridge.Purchase, true
	case "credit":
		return h.bridge.Credit, true
	case "capture":
		return h.bridge.Capture, true
	case "refund":
		return h.bridge.Refund, true
	case "void":
		return h.bridge.Void, true
	}
	return nil, false
}

func (h *Handlers) RunTransaction(w http.ResponseWriter, r *http.Request) {
	tenantID, err := pathString(r, "tenantId")
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	paymentID, err := pathUUID(r, "paymentId")
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	transactionID, err := pathUUID(r, "transactionId")
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	run, ok := h.transactionOperation(r.PathValue("operation"))
	if !ok {
		rest.WriteError(w, application.NewInvalidInputError(fmt.Errorf("unknown operation %q", r.PathValue("operation"))), h.logger)
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(fmt.Errorf("failed to decode request body: %w", err)), h.logger)
		return
	}

	view, err := run(r.Context(), req.toCommand(tenantID, paymentID, transactionID))
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteData(w, http.StatusOK, view, h.logger)
}

func (h *Handlers) GetPaymentInfo(w http.ResponseWriter, r *http.Request) {
	tenantID, err := pathString(r, "tenantId")
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	paymentID, err := pathUUID(r, "paymentId")
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	views, err := h.bridge.GetPaymentInfo(r.Context(), tenantID, paymentID)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteData(w, http.StatusOK, views, h.logger)
}

func (h *Handlers) GetTransactionInfo(w http.ResponseWriter, r *http.Request) {
	tenantID, err := pathString(r, "tenantId")
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	paymentID, err := pathUUID(r, "paymentId")
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	transactionID, err := pathUUID(r, "transactionId")
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	view, err := h.bridge.GetTransactionInfo(r.Context(), tenantID, paymentID, transactionID)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteData(w, http.StatusOK, view, h.logger)
}
