// Package validation checks decoded response payloads.
//
// Struct tag validation (go-playground/validator) runs automatically inside
// codec.JSON for struct targets. Programmatic checks collect field errors for
// rules that tags cannot express.
//
//	type User struct {
//	    ID    string `json:"id" validate:"required,uuid"`
//	    Email string `json:"email" validate:"required,email"`
//	}
//	err := validation.Validate(user)
//
//	v := validation.New()
//	v.Range("page", page.Number, 1, page.Total)
//	err := v.Validate()
//
// Both return *Error, whose Fields lists every failing field.
package validation
