package rest_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/kbukum/typedhttp/errors"
	"github.com/kbukum/typedhttp/httpclient"
	"github.com/kbukum/typedhttp/httpclient/rest"
)

func TestDefaultErrorReader(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind apperrors.Kind
		code apperrors.ErrorCode
	}{
		{"context canceled", context.Canceled, apperrors.KindCancelled, ""},
		{"wrapped canceled", fmt.Errorf("get: %w", context.Canceled), apperrors.KindCancelled, ""},
		{"adapter canceled", httpclient.NewCanceledError(context.Canceled), apperrors.KindCancelled, ""},
		{"app error passthrough", apperrors.API(apperrors.ErrCodeConflict), apperrors.KindAPI, apperrors.ErrCodeConflict},
		{"404", httpclient.NewNotFoundError(nil), apperrors.KindAPI, apperrors.ErrCodeNotFound},
		{"401", httpclient.NewAuthError(401, nil), apperrors.KindAPI, apperrors.ErrCodeUnauthorized},
		{"503", httpclient.NewServerError(503, nil), apperrors.KindAPI, apperrors.ErrCodeServiceUnavailable},
		{"timeout", httpclient.NewTimeoutError(context.DeadlineExceeded), apperrors.KindAPI, apperrors.ErrCodeTimeout},
		{"connection", httpclient.NewConnectionError(errors.New("refused")), apperrors.KindAPI, apperrors.ErrCodeConnectionFailed},
		{"rate limit", &httpclient.Error{Code: httpclient.ErrCodeRateLimit}, apperrors.KindAPI, apperrors.ErrCodeRateLimited},
		{"circuit open", httpclient.NewCircuitOpenError(errors.New("open")), apperrors.KindAPI, apperrors.ErrCodeServiceUnavailable},
		{"validation", httpclient.NewValidationError("bad url"), apperrors.KindInternal, ""},
		{"plain", errors.New("boom"), apperrors.KindInternal, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			appErr := rest.DefaultErrorReader(tc.err)
			if appErr == nil {
				t.Fatal("expected an AppError")
			}
			if appErr.Kind() != tc.kind {
				t.Fatalf("expected %s, got %s (%v)", tc.kind, appErr.Kind(), appErr)
			}
			if tc.code != "" {
				if code, _ := apperrors.APICode[apperrors.ErrorCode](appErr); code != tc.code {
					t.Errorf("expected code %s, got %v", tc.code, appErr)
				}
			}
		})
	}

	if rest.DefaultErrorReader(nil) != nil {
		t.Error("nil error should map to nil")
	}
}

func TestDefaultErrorReader_KeepsStatusAndBody(t *testing.T) {
	appErr := rest.DefaultErrorReader(httpclient.ClassifyStatusCode(409, []byte(`{"error":"taken"}`)))
	var apiErr *apperrors.APIError
	if !errors.As(appErr, &apiErr) {
		t.Fatalf("expected APIError, got %v", appErr)
	}
	if apiErr.StatusCode != 409 || string(apiErr.Body) != `{"error":"taken"}` {
		t.Errorf("unexpected API error %+v", apiErr)
	}
	if apiErr.Code != apperrors.ErrCodeConflict {
		t.Errorf("expected CONFLICT, got %v", apiErr.Code)
	}
}

func TestDefaultErrorReader_InternalKeepsCause(t *testing.T) {
	cause := errors.New("dns failure")
	appErr := rest.DefaultErrorReader(cause)
	if !errors.Is(appErr, cause) {
		t.Errorf("expected cause to be preserved, got %v", appErr)
	}
}
