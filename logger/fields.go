package logger

import "time"

// Field keys shared by the packages of this module.
const (
	FieldComponent = "component"
	FieldMethod    = "method"
	FieldURL       = "url"
	FieldStatus    = "status"
	FieldAttempt   = "attempt"
	FieldBackoff   = "backoff"
	FieldDecoder   = "decoder"
	FieldBody      = "body"
	FieldIssues    = "issues"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Fields pairs up alternating keys and values. Pairs whose key is not a
// string are skipped, as is a trailing key without a value.
//
//	log.Info("sent", logger.Fields(logger.FieldMethod, "GET", logger.FieldStatus, 200))
func Fields(kvs ...any) map[string]any {
	m := make(map[string]any, len(kvs)/2)
	for i := 1; i < len(kvs); i += 2 {
		if k, ok := kvs[i-1].(string); ok {
			m[k] = kvs[i]
		}
	}
	return m
}

func with(fields map[string]any, key string, value any) map[string]any {
	if fields == nil {
		fields = map[string]any{}
	}
	fields[key] = value
	return fields
}

// MergeWithError sets the error field, allocating fields when nil.
func MergeWithError(fields map[string]any, err error) map[string]any {
	return with(fields, FieldError, err.Error())
}

// MergeWithDuration sets the duration field in milliseconds.
func MergeWithDuration(fields map[string]any, d time.Duration) map[string]any {
	return with(fields, FieldDuration, d.Milliseconds())
}
