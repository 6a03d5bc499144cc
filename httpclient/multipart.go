package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"net/textproto"
	"slices"
	"strings"
)

// MultipartBody is a multipart/form-data request body. The adapter encodes
// it and sets Content-Type with the generated boundary.
type MultipartBody struct {
	// Fields are plain form values, written in key order.
	Fields map[string]string
	// Files follow the fields in slice order.
	Files []FileField
}

// FileField is one uploaded file. Data takes precedence over Reader.
type FileField struct {
	FieldName string
	FileName  string
	// ContentType defaults to application/octet-stream.
	ContentType string
	Data        []byte
	Reader      io.Reader
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func (f FileField) header() textproto.MIMEHeader {
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(f.FieldName), quoteEscaper.Replace(f.FileName)))
	h.Set("Content-Type", ct)
	return h
}

func (f FileField) content() io.Reader {
	switch {
	case f.Data != nil:
		return bytes.NewReader(f.Data)
	case f.Reader != nil:
		return f.Reader
	default:
		return strings.NewReader("")
	}
}

// Encode renders the body and returns it with its Content-Type value.
// File readers are consumed.
func (m *MultipartBody) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, k := range slices.Sorted(maps.Keys(m.Fields)) {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", fmt.Errorf("field %q: %w", k, err)
		}
	}
	for _, f := range m.Files {
		part, err := w.CreatePart(f.header())
		if err == nil {
			_, err = io.Copy(part, f.content())
		}
		if err != nil {
			return nil, "", fmt.Errorf("file %q: %w", f.FieldName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
