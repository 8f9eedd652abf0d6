package killbill

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// RemoteError is a non-2xx answer from the remote instance.
type RemoteError struct {
	StatusCode int
	Code       string
	ClassName  string
	Message    string
}

// errorResponse is the error body served by the remote instance.
type errorResponse struct {
	ClassName string `json:"className"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

func (e *RemoteError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

func (e *RemoteError) RemoteStatus() int {
	return e.StatusCode
}

func (e *RemoteError) RemoteCode() string {
	return e.Code
}

func newRemoteError(status int, body errorResponse) *RemoteError {
	code := ""
	if body.Code != 0 {
		code = strconv.Itoa(body.Code)
	}
	return &RemoteError{
		StatusCode: status,
		Code:       code,
		ClassName:  body.ClassName,
		Message:    body.Message,
	}
}

func IsRemoteError(err error) (*RemoteError, bool) {
	var remoteErr *RemoteError
	ok := errors.As(err, &remoteErr)
	return remoteErr, ok
}

func isNotFound(err error) bool {
	remoteErr, ok := IsRemoteError(err)
	return ok && remoteErr.StatusCode == http.StatusNotFound
}
