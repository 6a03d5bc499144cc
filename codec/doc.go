// Package codec decodes and validates response payloads.
//
// A Decoder turns raw response bytes into a typed value or a *DecodeError.
// JSON decoders run struct-tag validation after unmarshalling, so a payload
// that parses but breaks a `validate` rule is still a decode failure.
//
//	type User struct {
//	    ID   string `json:"id" validate:"required"`
//	    Name string `json:"name"`
//	}
//	dec := codec.JSON[User]("User")
//	user, err := dec.Decode(body)
//
// StripJSON removes null leaves from a payload before decoding. Report renders
// a decode failure as one "path: message" line per issue for diagnostics.
package codec
