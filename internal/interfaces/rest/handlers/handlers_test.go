package handlers_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DanielPopoola/payment-bridge/internal/application"
	"github.com/DanielPopoola/payment-bridge/internal/application/mocks"
	"github.com/DanielPopoola/payment-bridge/internal/application/services"
	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/DanielPopoola/payment-bridge/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/payment-bridge/internal/reconcile"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setup(t *testing.T) (*mocks.Bridge, http.Handler) {
	t.Helper()
	bridge := &mocks.Bridge{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	handlers.NewHandlers(bridge, mocks.Tenants{"acme", "globex"}, logger).Register(mux)
	return bridge, mux
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestRunTransaction_Authorize(t *testing.T) {
	bridge, h := setup(t)
	paymentID, txnID, accountID := uuid.New(), uuid.New(), uuid.New()

	expected := services.TransactionCommand{
		TenantID:      "acme",
		AccountID:     accountID,
		PaymentID:     paymentID,
		TransactionID: txnID,
		Amount:        decimal.NewNullDecimal(decimal.RequireFromString("12.5")),
		Currency:      "EUR",
		Properties:    []domain.PluginProperty{{Key: "k", Value: "v"}},
	}
	bridge.On("Authorize", mock.Anything, mock.MatchedBy(func(cmd services.TransactionCommand) bool {
		return cmd.TenantID == expected.TenantID &&
			cmd.AccountID == expected.AccountID &&
			cmd.PaymentID == expected.PaymentID &&
			cmd.TransactionID == expected.TransactionID &&
			cmd.Amount.Valid && cmd.Amount.Decimal.Equal(expected.Amount.Decimal) &&
			cmd.Currency == expected.Currency &&
			assert.ObjectsAreEqual(expected.Properties, cmd.Properties)
	})).Return(&reconcile.TransactionView{
		PaymentID:     paymentID,
		TransactionID: txnID,
		Type:          domain.TransactionAuthorize,
		Status:        domain.PluginStatusProcessed,
	}, nil).Once()

	body := `{"accountId":"` + accountID.String() + `","amount":"12.5","currency":"EUR","properties":[{"key":"k","value":"v"}]}`
	rec, env := do(t, h, http.MethodPost, "/v1/tenants/acme/payments/"+paymentID.String()+"/transactions/"+txnID.String()+"/authorize", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var view reconcile.TransactionView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, txnID, view.TransactionID)
	assert.Equal(t, domain.PluginStatusProcessed, view.Status)
	bridge.AssertExpectations(t)
}

func TestRunTransaction_InvalidPathParameter(t *testing.T) {
	_, h := setup(t)

	rec, env := do(t, h, http.MethodPost, "/v1/tenants/acme/payments/not-a-uuid/transactions/"+uuid.NewString()+"/capture", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, application.ErrCodeInvalidInput, env.Error.Code)
	assert.Contains(t, env.Error.Message, "paymentId")
}

func TestRunTransaction_UnknownOperation(t *testing.T) {
	_, h := setup(t)

	rec, env := do(t, h, http.MethodPost, "/v1/tenants/acme/payments/"+uuid.NewString()+"/transactions/"+uuid.NewString()+"/settle", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, application.ErrCodeInvalidInput, env.Error.Code)
}

func TestRunTransaction_MalformedBody(t *testing.T) {
	_, h := setup(t)

	rec, env := do(t, h, http.MethodPost, "/v1/tenants/acme/payments/"+uuid.NewString()+"/transactions/"+uuid.NewString()+"/void", `{"accountId":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, application.ErrCodeInvalidInput, env.Error.Code)
}

func TestRunTransaction_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unresolved remote payment",
			err:        &application.BridgeError{Operation: "CAPTURE", Err: domain.NewUnresolvedEntityError("PAYMENT_AND_TRANSACTION", "pay-1")},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   domain.ErrCodeUnresolvedEntity,
		},
		{
			name:       "unknown local payment",
			err:        domain.NewLocalEntityNotFoundError("payment", "x"),
			wantStatus: http.StatusNotFound,
			wantCode:   domain.ErrCodeLocalEntityNotFound,
		},
		{
			name:       "unknown tenant",
			err:        domain.NewUnknownTenantError("acme"),
			wantStatus: http.StatusNotFound,
			wantCode:   domain.ErrCodeUnknownTenant,
		},
		{
			name:       "remote answer without transaction",
			err:        application.NewNoMatchingTransactionError(uuid.New(), uuid.New()),
			wantStatus: http.StatusBadGateway,
			wantCode:   application.ErrCodeNoMatchingTxn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge, h := setup(t)
			bridge.On("Capture", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec, env := do(t, h, http.MethodPost,
				"/v1/tenants/acme/payments/"+uuid.NewString()+"/transactions/"+uuid.NewString()+"/capture",
				`{"accountId":"`+uuid.NewString()+`"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestGetPaymentInfo(t *testing.T) {
	bridge, h := setup(t)
	paymentID := uuid.New()
	bridge.On("GetPaymentInfo", mock.Anything, "acme", paymentID).Return([]reconcile.TransactionView{}, nil).Once()

	rec, env := do(t, h, http.MethodGet, "/v1/tenants/acme/payments/"+paymentID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestGetTransactionInfo(t *testing.T) {
	bridge, h := setup(t)
	paymentID, txnID := uuid.New(), uuid.New()
	bridge.On("GetTransactionInfo", mock.Anything, "acme", paymentID, txnID).
		Return(&reconcile.TransactionView{TransactionID: txnID, Status: domain.PluginStatusPending}, nil).Once()

	rec, env := do(t, h, http.MethodGet, "/v1/tenants/acme/payments/"+paymentID.String()+"/transactions/"+txnID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	var view reconcile.TransactionView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, domain.PluginStatusPending, view.Status)
}

func TestGetPaymentMethods_PluginPropertiesFromQuery(t *testing.T) {
	bridge, h := setup(t)
	accountID := uuid.New()
	remotePMID := uuid.New()

	bridge.On("GetPaymentMethods", mock.Anything, services.PaymentMethodCommand{
		TenantID:   "acme",
		AccountID:  accountID,
		Properties: []domain.PluginProperty{{Key: "a", Value: "1"}, {Key: "b", Value: "x=y"}},
	}).Return([]services.PaymentMethodInfo{{AccountID: accountID, RemotePaymentMethodID: remotePMID, ExternalKey: "pm-1"}}, nil).Once()

	rec, env := do(t, h, http.MethodGet, "/v1/tenants/acme/accounts/"+accountID.String()+"/payment-methods?pluginProperty=a=1&pluginProperty=b=x%3Dy", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var infos []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "pm-1", infos[0]["externalKey"])
	assert.Equal(t, remotePMID.String(), infos[0]["remotePaymentMethodId"])
}

func TestGetPaymentMethods_RejectsMalformedProperty(t *testing.T) {
	_, h := setup(t)

	rec, env := do(t, h, http.MethodGet, "/v1/tenants/acme/accounts/"+uuid.NewString()+"/payment-methods?pluginProperty=novalue", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, application.ErrCodeInvalidInput, env.Error.Code)
}

func TestGetPaymentMethodDetail_UnknownRendersNull(t *testing.T) {
	bridge, h := setup(t)
	bridge.On("GetPaymentMethodDetail", mock.Anything, mock.Anything).Return(nil, nil).Once()

	rec, env := do(t, h, http.MethodGet, "/v1/tenants/acme/accounts/"+uuid.NewString()+"/payment-methods/"+uuid.NewString(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", string(env.Data))
}

func TestPaymentMethodMutations(t *testing.T) {
	bridge, h := setup(t)
	accountID, pmID := uuid.New(), uuid.New()
	cmd := services.PaymentMethodCommand{TenantID: "acme", AccountID: accountID, PaymentMethodID: pmID}
	base := "/v1/tenants/acme/accounts/" + accountID.String() + "/payment-methods/" + pmID.String()

	bridge.On("SetDefaultPaymentMethod", mock.Anything, cmd).Return(nil).Once()
	bridge.On("DeletePaymentMethod", mock.Anything, cmd).Return(nil).Once()

	rec, _ := do(t, h, http.MethodPut, base+"/default", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = do(t, h, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	bridge.AssertExpectations(t)
}

func TestAddPaymentMethod_NotImplemented(t *testing.T) {
	bridge, h := setup(t)
	bridge.On("AddPaymentMethod", mock.Anything, mock.MatchedBy(func(cmd services.PaymentMethodCommand) bool {
		return len(cmd.Properties) == 1 && cmd.Properties[0].Key == "token"
	})).Return(&application.BridgeError{
		Operation: "ADD_PAYMENT_METHOD",
		Err:       domain.NewNotImplementedError("adding a payment method"),
	}).Once()

	rec, env := do(t, h, http.MethodPost,
		"/v1/tenants/acme/accounts/"+uuid.NewString()+"/payment-methods/"+uuid.NewString(),
		`{"properties":[{"key":"token","value":"tok_1"}]}`)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, domain.ErrCodeNotImplemented, env.Error.Code)
}

func TestHealthz(t *testing.T) {
	bridge, h := setup(t)
	bridge.On("Healthcheck", mock.Anything, "acme").Return(services.HealthStatus{Healthy: true, Message: "remote OK"}).Once()
	bridge.On("Healthcheck", mock.Anything, "globex").Return(services.HealthStatus{Healthy: false, Message: "remote connection refused"}).Once()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Status  string `json:"status"`
		Tenants map[string]struct {
			Healthy bool   `json:"healthy"`
			Message string `json:"message"`
		} `json:"tenants"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.True(t, body.Tenants["acme"].Healthy)
	assert.False(t, body.Tenants["globex"].Healthy)
}
