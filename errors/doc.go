// Package errors defines the closed application error taxonomy returned by
// every typed request and task in typedhttp.
//
// There are exactly three variants:
//
//   - *InternalError: a local failure (decoding, validation, request
//     construction) with a message and an optional cause.
//   - *APIError: a failure reported by the remote side, carrying a
//     caller-defined code payload.
//   - *CancelledError: the operation was abandoned.
//
// Variants are inspected with AsAppError, KindOf or the Is* helpers:
//
//	if code, ok := errors.APICode[errors.ErrorCode](err); ok && code == errors.ErrCodeNotFound {
//	    // ...
//	}
package errors
