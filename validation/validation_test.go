package validation

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestValidator_Checks(t *testing.T) {
	sku := regexp.MustCompile(`^[A-Z]{3}-\d+$`)
	tests := []struct {
		name  string
		check func(*Validator)
		want  string
	}{
		{"required ok", func(v *Validator) { v.Required("name", "Ada") }, ""},
		{"required blank", func(v *Validator) { v.Required("name", "  ") }, "name: is required"},
		{"length ok", func(v *Validator) { v.Length("code", "héllo", 5, 5) }, ""},
		{"length short", func(v *Validator) { v.Length("code", "ab", 3, -1) }, "code: must be at least 3 characters"},
		{"length long", func(v *Validator) { v.Length("code", "abcdef", 0, 4) }, "code: must be 4 characters or less"},
		{"min", func(v *Validator) { v.Min("age", 17, 18) }, "age: must be at least 18"},
		{"max", func(v *Validator) { v.Max("age", 131, 130) }, "age: must be 130 or less"},
		{"range ok", func(v *Validator) { v.Range("page", 3, 1, 3) }, ""},
		{"range out", func(v *Validator) { v.Range("page", 0, 1, 3) }, "page: must be between 1 and 3"},
		{"uuid ok", func(v *Validator) { v.UUID("id", uuid.NewString()) }, ""},
		{"uuid empty", func(v *Validator) { v.UUID("id", "") }, ""},
		{"uuid bad", func(v *Validator) { v.UUID("id", "nope") }, "id: must be a valid UUID"},
		{"matches ok", func(v *Validator) { v.Matches("sku", "ABC-12", sku) }, ""},
		{"matches bad", func(v *Validator) { v.Matches("sku", "abc", sku) }, "sku: does not match required format"},
		{"one of ok", func(v *Validator) { v.OneOf("plan", "pro", "free", "pro") }, ""},
		{"one of bad", func(v *Validator) { v.OneOf("plan", "gold", "free", "pro") }, "plan: must be one of: free, pro"},
		{"check", func(v *Validator) { v.Check(false, "", "totals do not add up") }, "totals do not add up"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := New()
			tc.check(v)
			errs := v.Errors()
			if tc.want == "" {
				if len(errs) != 0 {
					t.Errorf("expected no errors, got %v", errs)
				}
				return
			}
			if len(errs) != 1 || errs[0].String() != tc.want {
				t.Errorf("expected %q, got %v", tc.want, errs)
			}
		})
	}
}

func TestValidator_Validate(t *testing.T) {
	if err := New().Required("name", "Ada").Min("age", 30, 18).Validate(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	v := New().Required("name", "").Min("age", 3, 18)
	v.AddError("email", "is taken")
	err := v.Validate()

	var vErr *Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	want := "validation failed: name: is required; age: must be at least 18; email: is taken"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	vErr.Fields[0].Message = "mutated"
	if v.Errors()[0].Message != "is required" {
		t.Error("returned errors should not alias the validator state")
	}
}

type address struct {
	City string `json:"city" validate:"required"`
}

type account struct {
	Email    string    `json:"email" validate:"required,email"`
	Plan     string    `json:"plan" validate:"oneof=free pro"`
	Seats    int       `json:"seats" validate:"gte=1"`
	Address  address   `json:"address"`
	Tags     []tag     `json:"tags" validate:"dive"`
	TeamName string    `validate:"max=5"`
	Internal string    `json:"-" validate:"required"`
	Owner    *struct{} `json:"owner,omitempty"`
}

type tag struct {
	ID string `json:"id" validate:"required"`
}

func TestValidate_Struct(t *testing.T) {
	valid := account{Email: "ada@example.com", Plan: "pro", Seats: 2, Address: address{City: "London"}, Internal: "x"}
	if err := Validate(valid); err != nil {
		t.Fatalf("expected valid account, got %v", err)
	}

	invalid := account{Email: "nope", Plan: "gold", Tags: []tag{{}}, TeamName: "too long"}
	err := Validate(&invalid)
	var vErr *Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *Error, got %v", err)
	}

	got := map[string]string{}
	for _, f := range vErr.Fields {
		got[f.Field] = f.Message
	}
	want := map[string]string{
		"email":        "must be a valid email address",
		"plan":         "must be one of: free pro",
		"seats":        "must be greater than or equal to 1",
		"address.city": "is required",
		"tags[0].id":   "is required",
		"team_name":    "must be at most 5",
		"internal":     "is required",
	}
	for path, msg := range want {
		if got[path] != msg {
			t.Errorf("%s: expected %q, got %q", path, msg, got[path])
		}
	}
	if len(got) != len(want) {
		t.Errorf("expected %d failing fields, got %v", len(want), got)
	}
}

func TestValidate_NonStruct(t *testing.T) {
	for _, v := range []any{nil, 42, "text", map[string]any{"a": 1}, (*account)(nil), []account{{}}} {
		if err := Validate(v); err != nil {
			t.Errorf("expected nil for %T, got %v", v, err)
		}
	}
}

func TestToSnakeCase(t *testing.T) {
	for in, want := range map[string]string{"TeamName": "team_name", "ID": "i_d", "city": "city"} {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFieldError_String(t *testing.T) {
	if got := (FieldError{Field: "id", Message: "is required"}).String(); got != "id: is required" {
		t.Errorf("unexpected rendering %q", got)
	}
	if got := (FieldError{Message: "bad"}).String(); !strings.HasPrefix(got, "bad") {
		t.Errorf("unexpected rendering %q", got)
	}
}
