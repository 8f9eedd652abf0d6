package resolver

import (
	"errors"
	"fmt"

	"github.com/DanielPopoola/payment-bridge/internal/domain"
)

// ResolutionError is the batch-level failure returned by Resolve. It names the
// request that aborted the batch.
type ResolutionError struct {
	BatchID   int64
	Kind      Kind
	SourceKey string
	Err       error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolution batch %d failed on %s %q: %v", e.BatchID, e.Kind, e.SourceKey, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// TransportError wraps a failure of the remote call itself: network, non-2xx
// status or an unreadable body.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("remote call failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether the remote side could not be asked at all,
// as opposed to answering that the entity does not exist.
func IsTransportError(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

func IsResolutionError(err error) (*ResolutionError, bool) {
	var resErr *ResolutionError
	ok := errors.As(err, &resErr)
	return resErr, ok
}

// classify keeps policy errors as they are and tags everything else as transport.
func classify(err error) error {
	if errors.Is(err, domain.ErrUnresolvedEntity) || errors.Is(err, domain.ErrNotImplemented) {
		return err
	}
	return &TransportError{Err: err}
}
