package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// FieldError is one failing field. Field is a dotted path such as
// "address.city"; it is empty for failures of the whole value.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	if f.Field == "" {
		return f.Message
	}
	return f.Field + ": " + f.Message
}

// Error lists every field that failed validation.
type Error struct {
	Fields []FieldError `json:"fields"`
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validator accumulates field errors from chained checks. Every check
// records at most one error and returns the Validator.
type Validator struct {
	fields []FieldError
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{}
}

// AddError records a failure for field.
func (v *Validator) AddError(field, message string) {
	v.fields = append(v.fields, FieldError{Field: field, Message: message})
}

// Errors returns the recorded failures in the order they were added.
func (v *Validator) Errors() []FieldError {
	return slices.Clone(v.fields)
}

// Validate returns nil when nothing failed and an *Error otherwise.
func (v *Validator) Validate() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &Error{Fields: v.Errors()}
}

// Check records message for field unless ok holds.
func (v *Validator) Check(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}

// Required rejects blank strings.
func (v *Validator) Required(field, value string) *Validator {
	return v.Check(strings.TrimSpace(value) != "", field, "is required")
}

// Length bounds the number of characters of value. A negative max means no
// upper bound.
func (v *Validator) Length(field, value string, minLen, maxLen int) *Validator {
	n := utf8.RuneCountInString(value)
	switch {
	case n < minLen:
		v.AddError(field, fmt.Sprintf("must be at least %d characters", minLen))
	case maxLen >= 0 && n > maxLen:
		v.AddError(field, fmt.Sprintf("must be %d characters or less", maxLen))
	}
	return v
}

// Min rejects values below minVal.
func (v *Validator) Min(field string, value, minVal int) *Validator {
	return v.Check(value >= minVal, field, fmt.Sprintf("must be at least %d", minVal))
}

// Max rejects values above maxVal.
func (v *Validator) Max(field string, value, maxVal int) *Validator {
	return v.Check(value <= maxVal, field, fmt.Sprintf("must be %d or less", maxVal))
}

// Range rejects values outside [minVal, maxVal].
func (v *Validator) Range(field string, value, minVal, maxVal int) *Validator {
	return v.Check(value >= minVal && value <= maxVal, field,
		fmt.Sprintf("must be between %d and %d", minVal, maxVal))
}

// UUID rejects non-empty values that are not UUIDs. Pair it with Required
// for mandatory identifiers.
func (v *Validator) UUID(field, value string) *Validator {
	if value == "" {
		return v
	}
	_, err := uuid.Parse(value)
	return v.Check(err == nil, field, "must be a valid UUID")
}

// Matches rejects non-empty values re does not match.
func (v *Validator) Matches(field, value string, re *regexp.Regexp) *Validator {
	return v.Check(value == "" || re.MatchString(value), field, "does not match required format")
}

// OneOf rejects non-empty values outside allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	return v.Check(value == "" || slices.Contains(allowed, value), field,
		"must be one of: "+strings.Join(allowed, ", "))
}
