package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/DanielPopoola/payment-bridge/internal/application"
	"github.com/DanielPopoola/payment-bridge/internal/application/services"
	"github.com/DanielPopoola/payment-bridge/internal/interfaces/rest"
)

// Under the proxy-routing model the service answers nothing; detail and list
// then render as null and an empty list.

func (h *Handlers) GetPaymentMethods(w http.ResponseWriter, r *http.Request) {
	p, err := bindPaymentMethodParams(r, false)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	props, err := queryProperties(r)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	infos, err := h.bridge.GetPaymentMethods(r.Context(), services.PaymentMethodCommand{
		TenantID:   p.tenantID,
		AccountID:  p.accountID,
		Properties: props,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteData(w, http.StatusOK, toPaymentMethodInfos(infos), h.logger)
}

func (h *Handlers) GetPaymentMethodDetail(w http.ResponseWriter, r *http.Request) {
	p, err := bindPaymentMethodParams(r, true)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	detail, err := h.bridge.GetPaymentMethodDetail(r.Context(), p.command(nil))
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteData(w, http.StatusOK, toPaymentMethodDetail(detail), h.logger)
}

func (h *Handlers) AddPaymentMethod(w http.ResponseWriter, r *http.Request) {
	p, err := bindPaymentMethodParams(r, true)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	var req paymentMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		rest.WriteError(w, application.NewInvalidInputError(fmt.Errorf("failed to decode request body: %w", err)), h.logger)
		return
	}

	if err := h.bridge.AddPaymentMethod(r.Context(), p.command(req.Properties)); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SetDefaultPaymentMethod(w http.ResponseWriter, r *http.Request) {
	p, err := bindPaymentMethodParams(r, true)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	if err := h.bridge.SetDefaultPaymentMethod(r.Context(), p.command(nil)); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	p, err := bindPaymentMethodParams(r, true)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	if err := h.bridge.DeletePaymentMethod(r.Context(), p.command(nil)); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
