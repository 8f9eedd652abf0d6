package killbill_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DanielPopoola/payment-bridge/internal/application"
	"github.com/DanielPopoola/payment-bridge/internal/application/mocks"
	"github.com/DanielPopoola/payment-bridge/internal/config"
	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/DanielPopoola/payment-bridge/internal/infrastructure/killbill"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var retryCfg = config.RetryConfig{BaseDelay: time.Millisecond, MaxRetries: 3}

func TestRetryClient_GetPayment_Success(t *testing.T) {
	inner := &mocks.RemoteClient{}
	client := killbill.NewRetryClient(inner, retryCfg)

	expected := &domain.RemotePayment{PaymentID: uuid.New(), PaymentExternalKey: "pay-1"}
	inner.On("GetPaymentByExternalKey", mock.Anything, "pay-1", domain.RequestOptions{}).Return(expected, nil).Once()

	resp, err := client.GetPaymentByExternalKey(context.Background(), "pay-1", domain.RequestOptions{})

	require.NoError(t, err)
	assert.Equal(t, expected, resp)
	inner.AssertExpectations(t)
}

func TestRetryClient_RetriesOn5xx(t *testing.T) {
	inner := &mocks.RemoteClient{}
	client := killbill.NewRetryClient(inner, retryCfg)

	expected := &domain.RemoteAccount{AccountID: uuid.New(), ExternalKey: "acct-1"}
	inner.On("GetAccountByKey", mock.Anything, "acct-1", mock.Anything).
		Return(nil, &killbill.RemoteError{StatusCode: http.StatusServiceUnavailable, Message: "down"}).Twice()
	inner.On("GetAccountByKey", mock.Anything, "acct-1", mock.Anything).Return(expected, nil).Once()

	resp, err := client.GetAccountByKey(context.Background(), "acct-1", domain.RequestOptions{})

	require.NoError(t, err)
	assert.Equal(t, expected, resp)
	inner.AssertNumberOfCalls(t, "GetAccountByKey", 3)
}

func TestRetryClient_NoRetryOnNotFound(t *testing.T) {
	inner := &mocks.RemoteClient{}
	client := killbill.NewRetryClient(inner, retryCfg)

	notFound := domain.NewEntityNotFoundError("payment method", "pm-1")
	notFound.Err = &killbill.RemoteError{StatusCode: http.StatusNotFound}
	inner.On("GetPaymentMethodByKey", mock.Anything, "pm-1", mock.Anything).Return(nil, notFound).Once()

	_, err := client.GetPaymentMethodByKey(context.Background(), "pm-1", domain.RequestOptions{})

	assert.ErrorIs(t, err, domain.ErrEntityNotFound)
	inner.AssertNumberOfCalls(t, "GetPaymentMethodByKey", 1)
}

func TestRetryClient_MaxRetriesExceeded(t *testing.T) {
	inner := &mocks.RemoteClient{}
	client := killbill.NewRetryClient(inner, retryCfg)

	inner.On("ListAccounts", mock.Anything, 0, 1, mock.Anything).
		Return(nil, &killbill.RemoteError{StatusCode: http.StatusBadGateway})

	_, err := client.ListAccounts(context.Background(), 0, 1, domain.RequestOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum retries exceeded")
	inner.AssertNumberOfCalls(t, "ListAccounts", 3)
}

func TestRetryClient_ContextCancelledDuringBackoff(t *testing.T) {
	inner := &mocks.RemoteClient{}
	client := killbill.NewRetryClient(inner, config.RetryConfig{BaseDelay: time.Hour, MaxRetries: 3})

	ctx, cancel := context.WithCancel(context.Background())
	inner.On("GetPaymentByExternalKey", mock.Anything, "pay-1", mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, &killbill.RemoteError{StatusCode: http.StatusInternalServerError})

	_, err := client.GetPaymentByExternalKey(ctx, "pay-1", domain.RequestOptions{})

	assert.ErrorIs(t, err, context.Canceled)
	inner.AssertNumberOfCalls(t, "GetPaymentByExternalKey", 1)
}

func TestRetryClient_SubmissionsAreNotRetried(t *testing.T) {
	inner := &mocks.RemoteClient{}
	client := killbill.NewRetryClient(inner, retryCfg)

	txn := domain.TransactionRequest{TransactionType: domain.TransactionCapture, PaymentExternalKey: "pay-1"}
	inner.On("CapturePayment", mock.Anything, txn, application.SubmitOptions{}, mock.Anything).
		Return(nil, &killbill.RemoteError{StatusCode: http.StatusServiceUnavailable}).Once()

	_, err := client.CapturePayment(context.Background(), txn, application.SubmitOptions{}, domain.RequestOptions{})

	var remoteErr *killbill.RemoteError
	require.True(t, errors.As(err, &remoteErr))
	inner.AssertNumberOfCalls(t, "CapturePayment", 1)
}
