package codec

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
)

// Strip returns v with every nil entry removed from nested map[string]any
// and []any values. Object members whose value is nil are dropped and nil
// array elements are filtered out. Every other value, including false, 0,
// "" and empty containers, is kept. The input is not modified.
func Strip(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if val == nil {
				continue
			}
			out[k] = Strip(val)
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, val := range t {
			if val == nil {
				continue
			}
			out = append(out, Strip(val))
		}
		return out
	default:
		return v
	}
}

// StripJSON applies Strip to a raw JSON document while keeping member order
// and number literals intact. Empty input is returned as is. When data is not
// a single well-formed JSON value it is returned unchanged together with the
// parse error, so callers can still hand it to a decoder.
func StripJSON(data []byte) ([]byte, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return data, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var buf bytes.Buffer
	buf.Grow(len(data))

	tok, err := dec.Token()
	if err != nil {
		return data, err
	}
	if err := writeStripped(dec, &buf, tok); err != nil {
		return data, err
	}
	if _, err := dec.Token(); !stderrors.Is(err, io.EOF) {
		if err == nil {
			err = fmt.Errorf("unexpected data after top-level value")
		}
		return data, err
	}
	return buf.Bytes(), nil
}

// writeStripped writes the value starting at tok, dropping null members and
// elements of any container it contains.
func writeStripped(dec *json.Decoder, buf *bytes.Buffer, tok json.Token) error {
	delim, ok := tok.(json.Delim)
	if !ok {
		return writeScalar(buf, tok)
	}

	switch delim {
	case '{':
		buf.WriteByte('{')
		first := true
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return err
			}
			key, ok := keyTok.(string)
			if !ok {
				return fmt.Errorf("invalid object key %v", keyTok)
			}
			valTok, err := dec.Token()
			if err != nil {
				return err
			}
			if valTok == nil {
				continue
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := writeScalar(buf, key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeStripped(dec, buf, valTok); err != nil {
				return err
			}
		}
		if _, err := dec.Token(); err != nil {
			return err
		}
		buf.WriteByte('}')
	case '[':
		buf.WriteByte('[')
		first := true
		for dec.More() {
			elemTok, err := dec.Token()
			if err != nil {
				return err
			}
			if elemTok == nil {
				continue
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := writeStripped(dec, buf, elemTok); err != nil {
				return err
			}
		}
		if _, err := dec.Token(); err != nil {
			return err
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("unexpected delimiter %q", delim)
	}
	return nil
}

func writeScalar(buf *bytes.Buffer, tok json.Token) error {
	switch t := tok.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if t {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case json.Number:
		buf.WriteString(t.String())
	case string:
		enc := json.NewEncoder(buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(t); err != nil {
			return err
		}
		// Encode appends a newline.
		buf.Truncate(buf.Len() - 1)
	default:
		return fmt.Errorf("unexpected token %T", tok)
	}
	return nil
}
