package codec

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
)

// Decoder validates and decodes a response body into T.
type Decoder[T any] interface {
	// Name identifies the decoded entity in diagnostics.
	Name() string
	// Decode returns the typed value or a *DecodeError.
	Decode(data []byte) (T, error)
}

// Issue is a single decode or validation problem.
type Issue struct {
	// Path locates the offending value ("" for the root).
	Path string `json:"path"`
	// Message describes the problem.
	Message string `json:"message"`
}

// String renders the issue as "path: message".
func (i Issue) String() string {
	path := i.Path
	if path == "" {
		path = "<root>"
	}
	return path + ": " + i.Message
}

// DecodeError reports why a payload could not be decoded.
type DecodeError struct {
	// Decoder is the name of the failing decoder.
	Decoder string
	// Issues lists every problem found. Never empty.
	Issues []Issue
	// Err is the underlying error, if any.
	Err error
}

// Error joins the issues as "decode <name>: issue; issue".
func (e *DecodeError) Error() string {
	lines := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		lines[i] = issue.String()
	}
	return fmt.Sprintf("decode %s: %s", e.Decoder, strings.Join(lines, "; "))
}

func (e *DecodeError) Unwrap() error { return e.Err }

func newDecodeError(name string, err error, issues ...Issue) *DecodeError {
	if len(issues) == 0 {
		msg := "invalid value"
		if err != nil {
			msg = err.Error()
		}
		issues = []Issue{{Message: msg}}
	}
	return &DecodeError{Decoder: name, Issues: issues, Err: err}
}

// funcDecoder adapts a plain function to Decoder.
type funcDecoder[T any] struct {
	name string
	fn   func([]byte) (T, error)
}

// Func wraps fn as a named Decoder. Errors from fn that are not already a
// *DecodeError are wrapped in one.
func Func[T any](name string, fn func(data []byte) (T, error)) Decoder[T] {
	return &funcDecoder[T]{name: name, fn: fn}
}

func (d *funcDecoder[T]) Name() string { return d.name }

func (d *funcDecoder[T]) Decode(data []byte) (T, error) {
	v, err := d.fn(data)
	if err == nil {
		return v, nil
	}
	var zero T
	var decErr *DecodeError
	if stderrors.As(err, &decErr) {
		return zero, decErr
	}
	return zero, newDecodeError(d.name, err)
}

// emptyDecoder accepts bodies that carry no entity.
type emptyDecoder struct {
	name string
}

// Empty returns a decoder for endpoints that answer without an entity. It
// accepts an empty body, whitespace, `null` and `{}`.
func Empty(name string) Decoder[struct{}] {
	return &emptyDecoder{name: name}
}

func (d *emptyDecoder) Name() string { return d.name }

func (d *emptyDecoder) Decode(data []byte) (struct{}, error) {
	trimmed := bytes.TrimSpace(data)
	switch string(trimmed) {
	case "", "null", "{}":
		return struct{}{}, nil
	}

	// {} with inner whitespace, or an object whose members were all null.
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err == nil && len(obj) == 0 {
		return struct{}{}, nil
	}
	return struct{}{}, newDecodeError(d.name, nil, Issue{Message: "expected an empty body"})
}

// nonEmptyStringDecoder accepts a non-empty JSON string or plain text.
type nonEmptyStringDecoder struct {
	name string
}

// NonEmptyString returns a decoder for endpoints that answer with a bare
// string. A JSON string literal is unquoted; anything else is taken as text.
func NonEmptyString(name string) Decoder[string] {
	return &nonEmptyStringDecoder{name: name}
}

func (d *nonEmptyStringDecoder) Name() string { return d.name }

func (d *nonEmptyStringDecoder) Decode(data []byte) (string, error) {
	trimmed := bytes.TrimSpace(data)
	s := string(trimmed)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", newDecodeError(d.name, err, Issue{Message: "invalid JSON string"})
		}
	}
	if s == "" || string(trimmed) == "null" {
		return "", newDecodeError(d.name, nil, Issue{Message: "expected a non-empty string"})
	}
	return s, nil
}
