package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches two domain errors by code, so sentinels below work with errors.Is
// regardless of the message they were built with.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// Retryable interface for errors that can be retried
type Retryable interface {
	IsRetryable() bool
}

const (
	ErrCodeUnresolvedEntity     = "UNRESOLVED_ENTITY"
	ErrCodeNotImplemented       = "NOT_IMPLEMENTED"
	ErrCodeEntityNotFound       = "ENTITY_NOT_FOUND"
	ErrCodeLocalEntityNotFound  = "LOCAL_ENTITY_NOT_FOUND"
	ErrCodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	ErrCodeTransactionNotFound  = "TRANSACTION_NOT_FOUND"
	ErrCodeUnknownTenant        = "UNKNOWN_TENANT"
)

var (
	ErrUnresolvedEntity     = &DomainError{Code: ErrCodeUnresolvedEntity, Message: "unresolved entity"}
	ErrNotImplemented       = &DomainError{Code: ErrCodeNotImplemented, Message: "not implemented"}
	ErrEntityNotFound       = &DomainError{Code: ErrCodeEntityNotFound, Message: "remote entity not found"}
	ErrLocalEntityNotFound  = &DomainError{Code: ErrCodeLocalEntityNotFound, Message: "local entity not found"}
	ErrMissingRequiredField = &DomainError{Code: ErrCodeMissingRequiredField, Message: "missing required field"}
	ErrTransactionNotFound  = &DomainError{Code: ErrCodeTransactionNotFound, Message: "transaction not found"}
	ErrUnknownTenant        = &DomainError{Code: ErrCodeUnknownTenant, Message: "unknown tenant"}
)

func NewUnresolvedEntityError(kind, key string) *DomainError {
	return &DomainError{
		Code:    ErrCodeUnresolvedEntity,
		Message: fmt.Sprintf("unable to resolve %s with external key %q", kind, key),
	}
}

func NewNotImplementedError(what string) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotImplemented,
		Message: fmt.Sprintf("%s is not implemented", what),
	}
}

func NewEntityNotFoundError(kind, key string) *DomainError {
	return &DomainError{
		Code:    ErrCodeEntityNotFound,
		Message: fmt.Sprintf("remote %s %q not found", kind, key),
	}
}

func NewLocalEntityNotFoundError(kind, id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeLocalEntityNotFound,
		Message: fmt.Sprintf("local %s %s not found", kind, id),
	}
}

func NewMissingRequiredFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewTransactionNotFoundError(paymentID, transactionID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeTransactionNotFound,
		Message: fmt.Sprintf("transaction %s not found on payment %s", transactionID, paymentID),
	}
}

func NewUnknownTenantError(tenantID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeUnknownTenant,
		Message: fmt.Sprintf("no remote configuration for tenant %q", tenantID),
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
