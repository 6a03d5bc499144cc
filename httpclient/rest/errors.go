package rest

import (
	"context"
	"errors"

	apperrors "github.com/kbukum/typedhttp/errors"
	"github.com/kbukum/typedhttp/httpclient"
)

// ErrorReader maps a transport failure to an AppError. Returning nil marks
// the error as unmapped; the client then reports it as Internal.
type ErrorReader func(err error) apperrors.AppError

// DefaultErrorReader maps adapter errors onto the AppError taxonomy.
func DefaultErrorReader(err error) apperrors.AppError {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return apperrors.Cancelled()
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}

	var httpErr *httpclient.Error
	if !errors.As(err, &httpErr) {
		return apperrors.Internal(err.Error(), err)
	}

	if httpErr.StatusCode > 0 {
		return apperrors.APIFromStatus(apperrors.CodeForStatus(httpErr.StatusCode), httpErr.StatusCode, httpErr.Body)
	}
	switch httpErr.Code {
	case httpclient.ErrCodeTimeout:
		return apperrors.API(apperrors.ErrCodeTimeout)
	case httpclient.ErrCodeConnection:
		return apperrors.API(apperrors.ErrCodeConnectionFailed)
	case httpclient.ErrCodeRateLimit:
		return apperrors.API(apperrors.ErrCodeRateLimited)
	case httpclient.ErrCodeCircuitOpen:
		return apperrors.API(apperrors.ErrCodeServiceUnavailable)
	case httpclient.ErrCodeCanceled:
		return apperrors.Cancelled()
	default:
		return apperrors.Internal(httpErr.Message, err)
	}
}

// readError applies the client's reader and never returns nil.
func (c *Client) readError(err error) apperrors.AppError {
	if appErr := c.errorReader(err); appErr != nil {
		return appErr
	}
	return apperrors.Internal("unmapped transport error", err)
}
