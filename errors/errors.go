package errors

import (
	"context"
	stderrors "errors"
	"fmt"
)

// Kind discriminates the AppError variants.
type Kind int

const (
	// KindInternal marks a local failure.
	KindInternal Kind = iota
	// KindAPI marks a failure reported by the remote side.
	KindAPI
	// KindCancelled marks an abandoned operation.
	KindCancelled
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "Internal"
	case KindAPI:
		return "API"
	case KindCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// AppError is the unified application error. The set of implementations is
// closed: *InternalError, *APIError and *CancelledError.
type AppError interface {
	error
	Kind() Kind
	appError()
}

// InternalError is a local failure such as a decode or validation error.
type InternalError struct {
	// Message describes the failure.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error renders "Internal: message", followed by the cause when present.
func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", KindInternal, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", KindInternal, e.Message)
}

func (e *InternalError) Unwrap() error { return e.Cause }

// Kind returns KindInternal.
func (e *InternalError) Kind() Kind { return KindInternal }

func (e *InternalError) appError() {}

// APIError is a failure reported by the remote side.
type APIError struct {
	// Code is the application-defined code payload.
	Code any
	// StatusCode is the HTTP status the code was derived from (0 if none).
	StatusCode int
	// Body is the raw response body (may be nil).
	Body []byte
}

// Error renders the code and, when known, the HTTP status.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %v (HTTP %d)", KindAPI, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", KindAPI, e.Code)
}

// Kind returns KindAPI.
func (e *APIError) Kind() Kind { return KindAPI }

// Retryable reports whether the code is an ErrorCode marked retryable.
func (e *APIError) Retryable() bool {
	code, ok := e.Code.(ErrorCode)
	return ok && IsRetryableCode(code)
}

func (e *APIError) appError() {}

// CancelledError marks an abandoned operation. It carries no payload.
type CancelledError struct{}

func (e *CancelledError) Error() string { return KindCancelled.String() }

// Kind returns KindCancelled.
func (e *CancelledError) Kind() Kind { return KindCancelled }

// Is lets errors.Is(err, context.Canceled) match a CancelledError.
func (e *CancelledError) Is(target error) bool {
	return target == context.Canceled
}

func (e *CancelledError) appError() {}

var (
	_ AppError = (*InternalError)(nil)
	_ AppError = (*APIError)(nil)
	_ AppError = (*CancelledError)(nil)
)

// --- Constructors ---

// Internal creates an InternalError. cause may be nil.
func Internal(message string, cause error) *InternalError {
	return &InternalError{Message: message, Cause: cause}
}

// API creates an APIError carrying code.
func API(code any) *APIError {
	return &APIError{Code: code}
}

// APIFromStatus creates an APIError for a failed HTTP exchange.
func APIFromStatus(code any, statusCode int, body []byte) *APIError {
	return &APIError{Code: code, StatusCode: statusCode, Body: body}
}

// Cancelled creates a CancelledError.
func Cancelled() *CancelledError {
	return &CancelledError{}
}

// --- Inspection ---

// AsAppError returns the first AppError in err's chain.
func AsAppError(err error) (AppError, bool) {
	var appErr AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsAppError reports whether err wraps an AppError.
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// KindOf returns the kind of the first AppError in err's chain.
func KindOf(err error) (Kind, bool) {
	appErr, ok := AsAppError(err)
	if !ok {
		return 0, false
	}
	return appErr.Kind(), true
}

// IsInternal reports whether err wraps an *InternalError.
func IsInternal(err error) bool {
	var e *InternalError
	return stderrors.As(err, &e)
}

// IsAPI reports whether err wraps an *APIError.
func IsAPI(err error) bool {
	var e *APIError
	return stderrors.As(err, &e)
}

// IsCancelled reports whether err wraps a *CancelledError.
func IsCancelled(err error) bool {
	var e *CancelledError
	return stderrors.As(err, &e)
}

// APICode extracts the code of an APIError when it has type C.
func APICode[C any](err error) (C, bool) {
	var zero C
	var e *APIError
	if !stderrors.As(err, &e) {
		return zero, false
	}
	code, ok := e.Code.(C)
	return code, ok
}
