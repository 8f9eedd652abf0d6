package application

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/DanielPopoola/payment-bridge/internal/resolver"
)

// ErrorCategory represents the nature of an error for retry logic
type ErrorCategory string

const (
	CategoryTransient      ErrorCategory = "TRANSIENT"
	CategoryPermanent      ErrorCategory = "PERMANENT"
	CategoryClientError    ErrorCategory = "CLIENT_ERROR"
	CategoryInfrastructure ErrorCategory = "INFRASTRUCTURE"
)

// RemoteStatusError is implemented by errors carrying the remote instance's
// HTTP status and error code.
type RemoteStatusError interface {
	error
	RemoteStatus() int
	RemoteCode() string
}

func asRemoteStatus(err error) (RemoteStatusError, bool) {
	var remoteErr RemoteStatusError
	ok := errors.As(err, &remoteErr)
	return remoteErr, ok
}

// CategorizeError determines error category for retry and logging purposes
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTransient
	}

	if errors.Is(err, domain.ErrUnresolvedEntity) ||
		errors.Is(err, domain.ErrLocalEntityNotFound) ||
		errors.Is(err, domain.ErrTransactionNotFound) ||
		errors.Is(err, domain.ErrEntityNotFound) ||
		errors.Is(err, domain.ErrMissingRequiredField) ||
		errors.Is(err, domain.ErrUnknownTenant) {
		return CategoryClientError
	}

	if errors.Is(err, domain.ErrNotImplemented) {
		return CategoryPermanent
	}

	if svcErr, ok := IsServiceError(err); ok {
		switch svcErr.Code {
		case ErrCodeInvalidInput:
			return CategoryClientError
		case ErrCodeInternal:
			return CategoryInfrastructure
		case ErrCodeTimeout:
			return CategoryTransient
		}
	}

	if remoteErr, ok := asRemoteStatus(err); ok {
		if remoteErr.RemoteStatus() >= 500 || remoteErr.RemoteStatus() == http.StatusTooManyRequests {
			return CategoryTransient
		}
		return CategoryPermanent
	}

	// Default: Transient (safe fallback)
	return CategoryTransient
}

// IsRetryable returns true if the error category suggests retry
func IsRetryable(err error) bool {
	category := CategorizeError(err)
	return category == CategoryTransient || category == CategoryInfrastructure
}

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	switch {
	case errors.Is(err, domain.ErrMissingRequiredField):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownTenant),
		errors.Is(err, domain.ErrLocalEntityNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrEntityNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnresolvedEntity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotImplemented):
		return http.StatusNotImplemented
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}

	if _, ok := asRemoteStatus(err); ok {
		return http.StatusBadGateway
	}
	if resolver.IsTransportError(err) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

// ToErrorCode clear error code for API responses
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		if domainErr.Code == domain.ErrCodeEntityNotFound {
			return ErrCodeRemoteNotFound
		}
		return domainErr.Code
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrCodeTimeout
	}

	if remoteErr, ok := asRemoteStatus(err); ok {
		if code := remoteErr.RemoteCode(); code != "" {
			return "REMOTE_" + strings.ToUpper(code)
		}
		return ErrCodeRemoteFailure
	}
	if resolver.IsTransportError(err) {
		return ErrCodeRemoteFailure
	}

	return ErrCodeInternal
}
