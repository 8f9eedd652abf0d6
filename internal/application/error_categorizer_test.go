package application_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/DanielPopoola/payment-bridge/internal/application"
	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/DanielPopoola/payment-bridge/internal/resolver"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRemoteError struct {
	status int
	code   string
}

func (e *fakeRemoteError) Error() string      { return fmt.Sprintf("remote %d %s", e.status, e.code) }
func (e *fakeRemoteError) RemoteStatus() int  { return e.status }
func (e *fakeRemoteError) RemoteCode() string { return e.code }

func TestToHTTPStatus(t *testing.T) {
	unresolved := &resolver.ResolutionError{
		BatchID:   7,
		Kind:      resolver.KindPaymentMethod,
		SourceKey: "pm-1",
		Err:       domain.NewUnresolvedEntityError("PAYMENT_METHOD", "pm-1"),
	}
	transport := &resolver.ResolutionError{
		Kind: resolver.KindAccount,
		Err:  &resolver.TransportError{Err: errors.New("dial tcp: connection refused")},
	}

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unresolved entity", unresolved, http.StatusUnprocessableEntity, domain.ErrCodeUnresolvedEntity},
		{"transport", transport, http.StatusBadGateway, application.ErrCodeRemoteFailure},
		{"not implemented", domain.NewNotImplementedError("x"), http.StatusNotImplemented, domain.ErrCodeNotImplemented},
		{"local miss", domain.NewLocalEntityNotFoundError("payment", "p"), http.StatusNotFound, domain.ErrCodeLocalEntityNotFound},
		{"unknown tenant", domain.NewUnknownTenantError("t"), http.StatusNotFound, domain.ErrCodeUnknownTenant},
		{"remote miss", domain.NewEntityNotFoundError("payment", "k"), http.StatusNotFound, application.ErrCodeRemoteNotFound},
		{"remote failure", &fakeRemoteError{status: 400, code: "invalid_amount"}, http.StatusBadGateway, "REMOTE_INVALID_AMOUNT"},
		{"remote failure without code", &fakeRemoteError{status: 500}, http.StatusBadGateway, application.ErrCodeRemoteFailure},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), http.StatusRequestTimeout, application.ErrCodeTimeout},
		{"service error", application.NewInvalidInputError(errors.New("bad")), http.StatusBadRequest, application.ErrCodeInvalidInput},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, application.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, application.ToHTTPStatus(tt.err))
			assert.Equal(t, tt.code, application.ToErrorCode(tt.err))
		})
	}

	assert.Equal(t, http.StatusOK, application.ToHTTPStatus(nil))
}

func TestCategorizeError(t *testing.T) {
	assert.Equal(t, application.CategoryTransient, application.CategorizeError(context.Canceled))
	assert.Equal(t, application.CategoryClientError, application.CategorizeError(domain.ErrUnresolvedEntity))
	assert.Equal(t, application.CategoryPermanent, application.CategorizeError(domain.ErrNotImplemented))
	assert.Equal(t, application.CategoryTransient, application.CategorizeError(&fakeRemoteError{status: 503}))
	assert.Equal(t, application.CategoryTransient, application.CategorizeError(&fakeRemoteError{status: 429}))
	assert.Equal(t, application.CategoryPermanent, application.CategorizeError(&fakeRemoteError{status: 409}))
	assert.Equal(t, application.CategoryInfrastructure, application.CategorizeError(application.NewInternalError(nil)))

	assert.True(t, application.IsRetryable(&fakeRemoteError{status: 502}))
	assert.False(t, application.IsRetryable(domain.ErrUnresolvedEntity))
	assert.Equal(t, application.ErrorCategory(""), application.CategorizeError(nil))
}

func TestBridgeError(t *testing.T) {
	accountID := uuid.New()
	err := &application.BridgeError{
		Operation: "CAPTURE",
		AccountID: accountID,
		Err:       domain.ErrUnresolvedEntity,
	}

	msg := err.Error()
	assert.Contains(t, msg, `operation="CAPTURE"`)
	assert.Contains(t, msg, accountID.String())
	assert.Contains(t, msg, `payment="n/a"`)
	assert.Contains(t, msg, `paymentMethodId="n/a"`)
	assert.ErrorIs(t, err, domain.ErrUnresolvedEntity)
}
