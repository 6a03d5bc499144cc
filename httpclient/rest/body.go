package rest

import (
	"io"

	"github.com/kbukum/typedhttp/httpclient"
)

// BodyContent is a request body that carries its own content type. The
// variants are FormData, BinaryData and BinaryStream.
type BodyContent interface {
	// ContentType is the value sent as the Content-Type header. Form data
	// reports the bare multipart type; the boundary is added when encoding.
	ContentType() string
	// payload returns the value handed to the adapter.
	payload() any
}

type formData struct {
	form *httpclient.MultipartBody
}

// FormData sends form as multipart/form-data.
func FormData(form *httpclient.MultipartBody) BodyContent {
	return formData{form: form}
}

func (f formData) ContentType() string { return httpclient.ContentTypeMultipartFormData }

// payload leaves the Content-Type header to the multipart encoder, which
// adds the boundary parameter.
func (f formData) payload() any {
	if f.form == nil {
		return &httpclient.MultipartBody{}
	}
	return f.form
}

type binaryBody struct {
	contentType string
	data        []byte
	r           io.Reader
}

// BinaryData sends data as is with the given content type. The task can be
// run any number of times.
func BinaryData(contentType string, data []byte) BodyContent {
	return binaryBody{contentType: contentType, data: data}
}

// BinaryStream sends the bytes read from r with the given content type. The
// reader is consumed by the first run of the task.
func BinaryStream(contentType string, r io.Reader) BodyContent {
	return binaryBody{contentType: contentType, r: r}
}

func (b binaryBody) ContentType() string {
	if b.contentType == "" {
		return httpclient.ContentTypeOctetStream
	}
	return b.contentType
}

func (b binaryBody) payload() any {
	if b.r != nil {
		return b.r
	}
	if b.data == nil {
		return []byte{}
	}
	return b.data
}

// requestHeaders returns the headers a body variant sets on the request.
func requestHeaders(body BodyContent) map[string]string {
	if _, ok := body.(formData); ok {
		return nil
	}
	return map[string]string{httpclient.HeaderContentType: body.ContentType()}
}
