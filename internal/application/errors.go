package application

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeTimeout        = "TIMEOUT"
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeNoMatchingTxn  = "NO_MATCHING_TRANSACTION"
	ErrCodeRemoteFailure  = "REMOTE_FAILURE"
	ErrCodeRemoteNotFound = "REMOTE_ENTITY_NOT_FOUND"
)

func NewTimeoutError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodeTimeout,
		Message:    "Request timed out waiting for the remote instance",
		HTTPStatus: http.StatusRequestTimeout,
	}
}

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "An internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInvalidInputError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidInput,
		Message:    "Invalid input",
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

func NewNoMatchingTransactionError(paymentID, transactionID uuid.UUID) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeNoMatchingTxn,
		Message:    fmt.Sprintf("remote response holds no transaction for payment %s, transaction %s", paymentID, transactionID),
		HTTPStatus: http.StatusBadGateway,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}

// BridgeError reports a failed bridged operation together with the local
// identifiers it was issued for.
type BridgeError struct {
	Operation       string
	AccountID       uuid.UUID
	PaymentID       uuid.UUID
	PaymentMethodID uuid.UUID
	Err             error
}

func (e *BridgeError) Error() string {
	return fmt.Sprintf("failed to run payment operation=%q, account=%q, paymentMethodId=%q, payment=%q: %v",
		e.Operation, orNA(e.AccountID), orNA(e.PaymentMethodID), orNA(e.PaymentID), e.Err)
}

func (e *BridgeError) Unwrap() error {
	return e.Err
}

func orNA(id uuid.UUID) string {
	if id == uuid.Nil {
		return "n/a"
	}
	return id.String()
}
