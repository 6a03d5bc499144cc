package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var structValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return v
})

// jsonFieldName names fields as they appear on the wire.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return toSnakeCase(f.Name)
	}
	return name
}

// Validate runs the `validate` struct tags of s. Values that are not a
// struct or a non-nil pointer to one pass unchecked.
func Validate(s any) error {
	if !IsStruct(s) {
		return nil
	}
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}

	var tagErrs validator.ValidationErrors
	if !errors.As(err, &tagErrs) {
		return &Error{Fields: []FieldError{{Message: err.Error()}}}
	}
	fields := make([]FieldError, len(tagErrs))
	for i, e := range tagErrs {
		fields[i] = FieldError{Field: fieldPath(e), Message: tagMessage(e)}
	}
	return &Error{Fields: fields}
}

// IsStruct reports whether v is a struct or a non-nil pointer to one.
func IsStruct(v any) bool {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Struct
}

// fieldPath strips the root type from the namespace: "User.address.city"
// becomes "address.city".
func fieldPath(e validator.FieldError) string {
	if _, path, ok := strings.Cut(e.Namespace(), "."); ok {
		return path
	}
	return toSnakeCase(e.Field())
}

var tagMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"url":      "must be a valid URL",
	"uuid":     "must be a valid UUID",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"gt":       "must be greater than %s",
	"gte":      "must be greater than or equal to %s",
	"lt":       "must be less than %s",
	"lte":      "must be less than or equal to %s",
	"oneof":    "must be one of: %s",
}

func tagMessage(e validator.FieldError) string {
	msg, ok := tagMessages[e.Tag()]
	if !ok {
		return "is invalid"
	}
	if strings.Contains(msg, "%s") {
		return strings.Replace(msg, "%s", e.Param(), 1)
	}
	return msg
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
