package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorCode classifies adapter failures.
type ErrorCode int

const (
	ErrCodeTimeout ErrorCode = iota
	ErrCodeConnection
	ErrCodeAuth
	ErrCodeNotFound
	ErrCodeRateLimit
	ErrCodeValidation
	ErrCodeServer
	ErrCodeCanceled
	ErrCodeCircuitOpen
)

var errorCodeNames = [...]string{
	ErrCodeTimeout:     "timeout",
	ErrCodeConnection:  "connection",
	ErrCodeAuth:        "auth",
	ErrCodeNotFound:    "not_found",
	ErrCodeRateLimit:   "rate_limit",
	ErrCodeValidation:  "validation",
	ErrCodeServer:      "server",
	ErrCodeCanceled:    "canceled",
	ErrCodeCircuitOpen: "circuit_open",
}

func (c ErrorCode) String() string {
	if c < 0 || int(c) >= len(errorCodeNames) {
		return "unknown"
	}
	return errorCodeNames[c]
}

// Error is every failure the Adapter returns. StatusCode and Body are set
// when the server answered; Err is set when the round trip itself failed.
type Error struct {
	StatusCode int
	Code       ErrorCode
	Message    string
	Retryable  bool
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func wrapError(code ErrorCode, retryable bool, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Retryable: retryable, Err: err}
}

func statusError(code ErrorCode, retryable bool, status int, body []byte) *Error {
	return &Error{
		StatusCode: status,
		Code:       code,
		Message:    fmt.Sprintf("HTTP %d", status),
		Retryable:  retryable,
		Body:       body,
	}
}

// NewTimeoutError wraps a deadline or network timeout.
func NewTimeoutError(err error) *Error { return wrapError(ErrCodeTimeout, true, err) }

// NewConnectionError wraps a dial, DNS or transport failure.
func NewConnectionError(err error) *Error { return wrapError(ErrCodeConnection, true, err) }

// NewCanceledError wraps a cancellation by the caller.
func NewCanceledError(err error) *Error { return wrapError(ErrCodeCanceled, false, err) }

// NewCircuitOpenError wraps a rejection by the circuit breaker.
func NewCircuitOpenError(err error) *Error { return wrapError(ErrCodeCircuitOpen, false, err) }

// NewValidationError reports a request the adapter could not build.
func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

// NewAuthError reports a 401 or 403 answer.
func NewAuthError(status int, body []byte) *Error {
	return statusError(ErrCodeAuth, false, status, body)
}

// NewNotFoundError reports a 404 answer.
func NewNotFoundError(body []byte) *Error {
	return statusError(ErrCodeNotFound, false, http.StatusNotFound, body)
}

// NewServerError reports a 5xx answer.
func NewServerError(status int, body []byte) *Error {
	return statusError(ErrCodeServer, true, status, body)
}

// ClassifyStatusCode returns nil for 2xx statuses and an *Error carrying
// status and body otherwise. 429 and 5xx are retryable.
func ClassifyStatusCode(status int, body []byte) *Error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewAuthError(status, body)
	case status == http.StatusNotFound:
		return NewNotFoundError(body)
	case status == http.StatusTooManyRequests:
		return statusError(ErrCodeRateLimit, true, status, body)
	case status >= 400 && status < 500:
		return statusError(ErrCodeValidation, false, status, body)
	case status >= 500:
		return NewServerError(status, body)
	default:
		// 1xx and 3xx that the transport did not resolve.
		return statusError(ErrCodeServer, false, status, body)
	}
}

// classifyTransportError turns a failed round trip into an *Error.
// Cancellation is checked before deadlines so an abandoned request is never
// reported as a slow one.
func classifyTransportError(err error) *Error {
	var e *Error
	var netErr net.Error
	switch {
	case errors.As(err, &e):
		return e
	case errors.Is(err, context.Canceled):
		return NewCanceledError(err)
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return NewTimeoutError(err)
	default:
		return NewConnectionError(err)
	}
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return 0, false
	}
	return e.Code, true
}

func hasCode(err error, code ErrorCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

func IsTimeout(err error) bool    { return hasCode(err, ErrCodeTimeout) }
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }
func IsNotFound(err error) bool   { return hasCode(err, ErrCodeNotFound) }
func IsRateLimit(err error) bool  { return hasCode(err, ErrCodeRateLimit) }
func IsCanceled(err error) bool   { return hasCode(err, ErrCodeCanceled) }

// IsRetryable reports whether err is an *Error marked retryable. It is the
// default retry and circuit breaker filter.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
