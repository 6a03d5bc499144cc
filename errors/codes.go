package errors

import "net/http"

// ErrorCode is the code the default status reader puts in APIError.Code.
// Applications with their own catalogue may store any comparable value
// there instead.
type ErrorCode string

const (
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrCodeConflict      ErrorCode = "CONFLICT"

	// The codes below describe transient conditions; see IsRetryableCode.

	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	ErrCodeConnectionFailed   ErrorCode = "CONNECTION_FAILED"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeExternalService    ErrorCode = "EXTERNAL_SERVICE_ERROR"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// IsRetryableCode reports whether code describes a transient condition
// worth another attempt.
func IsRetryableCode(code ErrorCode) bool {
	switch code {
	case ErrCodeRateLimited, ErrCodeTimeout, ErrCodeConnectionFailed,
		ErrCodeServiceUnavailable, ErrCodeExternalService:
		return true
	}
	return false
}

var statusCodes = map[int]ErrorCode{
	http.StatusBadRequest:          ErrCodeInvalidInput,
	http.StatusUnprocessableEntity: ErrCodeInvalidInput,
	http.StatusUnauthorized:        ErrCodeUnauthorized,
	http.StatusForbidden:           ErrCodeForbidden,
	http.StatusNotFound:            ErrCodeNotFound,
	http.StatusConflict:            ErrCodeConflict,
	http.StatusTooManyRequests:     ErrCodeRateLimited,
	http.StatusRequestTimeout:      ErrCodeTimeout,
	http.StatusGatewayTimeout:      ErrCodeTimeout,
	http.StatusBadGateway:          ErrCodeExternalService,
	http.StatusServiceUnavailable:  ErrCodeServiceUnavailable,
}

// CodeForStatus maps an HTTP status onto the catalogue. Unlisted 4xx
// statuses are ErrCodeInvalidInput; anything else is ErrCodeInternal.
func CodeForStatus(status int) ErrorCode {
	if code, ok := statusCodes[status]; ok {
		return code
	}
	if status/100 == 4 {
		return ErrCodeInvalidInput
	}
	return ErrCodeInternal
}
