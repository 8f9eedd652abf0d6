package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/DanielPopoola/payment-bridge/internal/application"
	"github.com/DanielPopoola/payment-bridge/internal/application/services"
	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

func pathString(r *http.Request, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, r.PathValue(name), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", application.NewInvalidInputError(fmt.Errorf("invalid format for parameter %s: %w", name, err))
	}
	return value, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, r.PathValue(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return uuid.Nil, application.NewInvalidInputError(fmt.Errorf("invalid format for parameter %s: %w", name, err))
	}
	return id, nil
}

// queryProperties reads repeated pluginProperty=key=value query parameters.
func queryProperties(r *http.Request) ([]domain.PluginProperty, error) {
	var raw []string
	if err := runtime.BindQueryParameter("form", true, false, "pluginProperty", r.URL.Query(), &raw); err != nil {
		return nil, application.NewInvalidInputError(fmt.Errorf("invalid format for parameter pluginProperty: %w", err))
	}

	props := make([]domain.PluginProperty, 0, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, application.NewInvalidInputError(fmt.Errorf("plugin property %q is not key=value", kv))
		}
		props = append(props, domain.PluginProperty{Key: key, Value: value})
	}
	return props, nil
}

type paymentMethodParams struct {
	tenantID        string
	accountID       uuid.UUID
	paymentMethodID uuid.UUID
}

func bindPaymentMethodParams(r *http.Request, withPaymentMethod bool) (paymentMethodParams, error) {
	var p paymentMethodParams
	var err error
	if p.tenantID, err = pathString(r, "tenantId"); err != nil {
		return p, err
	}
	if p.accountID, err = pathUUID(r, "accountId"); err != nil {
		return p, err
	}
	if withPaymentMethod {
		if p.paymentMethodID, err = pathUUID(r, "paymentMethodId"); err != nil {
			return p, err
		}
	}
	return p, nil
}

func (p paymentMethodParams) command(props []domain.PluginProperty) services.PaymentMethodCommand {
	return services.PaymentMethodCommand{
		TenantID:        p.tenantID,
		AccountID:       p.accountID,
		PaymentMethodID: p.paymentMethodID,
		Properties:      props,
	}
}
