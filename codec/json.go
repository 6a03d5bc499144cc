package codec

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/kbukum/typedhttp/validation"
)

// JSONOption configures a JSON decoder.
type JSONOption[T any] func(*jsonDecoder[T])

// WithCheck adds a programmatic validation step that runs after struct-tag
// validation. The check records failures on the supplied Validator.
func WithCheck[T any](check func(v T, val *validation.Validator)) JSONOption[T] {
	return func(d *jsonDecoder[T]) {
		d.checks = append(d.checks, check)
	}
}

// DisallowUnknownFields rejects objects carrying fields T does not declare.
func DisallowUnknownFields[T any]() JSONOption[T] {
	return func(d *jsonDecoder[T]) {
		d.strict = true
	}
}

type jsonDecoder[T any] struct {
	name   string
	strict bool
	checks []func(T, *validation.Validator)
}

// JSON returns a decoder that unmarshals into T and validates the result.
// Untyped targets (any, map[string]any) keep numbers as json.Number.
func JSON[T any](name string, opts ...JSONOption[T]) Decoder[T] {
	d := &jsonDecoder[T]{name: name}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *jsonDecoder[T]) Name() string { return d.name }

func (d *jsonDecoder[T]) Decode(data []byte) (T, error) {
	var v T
	switch trimmed := bytes.TrimSpace(data); {
	case len(trimmed) == 0:
		return v, newDecodeError(d.name, nil, Issue{Message: "empty body"})
	case bytes.Equal(trimmed, []byte("null")):
		return v, newDecodeError(d.name, nil, Issue{Message: "null body"})
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if d.strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&v); err != nil {
		return v, newDecodeError(d.name, err, jsonIssue(err))
	}
	if _, err := dec.Token(); !stderrors.Is(err, io.EOF) {
		return v, newDecodeError(d.name, err, Issue{Message: "unexpected data after top-level value"})
	}

	if err := validation.Validate(v); err != nil {
		return v, newDecodeError(d.name, err, validationIssues(err)...)
	}

	if len(d.checks) > 0 {
		val := validation.New()
		for _, check := range d.checks {
			check(v, val)
		}
		if err := val.Validate(); err != nil {
			return v, newDecodeError(d.name, err, validationIssues(err)...)
		}
	}
	return v, nil
}

// jsonIssue converts encoding/json errors into a located issue.
func jsonIssue(err error) Issue {
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		return Issue{
			Path:    typeErr.Field,
			Message: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
		}
	}
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return Issue{Message: fmt.Sprintf("invalid JSON at offset %d: %s", syntaxErr.Offset, syntaxErr.Error())}
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		return Issue{Message: "truncated JSON"}
	}
	return Issue{Message: err.Error()}
}

func validationIssues(err error) []Issue {
	var vErr *validation.Error
	if !stderrors.As(err, &vErr) {
		return []Issue{{Message: err.Error()}}
	}
	issues := make([]Issue, len(vErr.Fields))
	for i, f := range vErr.Fields {
		issues[i] = Issue{Path: f.Field, Message: f.Message}
	}
	return issues
}
