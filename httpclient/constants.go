package httpclient

// Header names set by the adapter and the request wrapper.
const (
	HeaderAccept      = "Accept"
	HeaderContentType = "Content-Type"
	HeaderSessionID   = "X-SessionID"
	HeaderRequestID   = "X-Request-ID"
	HeaderAuth        = "Authorization"
)

// Content types.
const (
	ContentTypeJSON              = "application/json"
	ContentTypeJPEG              = "image/jpeg"
	ContentTypePNG               = "image/png"
	ContentTypeMultipartFormData = "multipart/form-data"
	ContentTypeOctetStream       = "application/octet-stream"
	ContentTypeText              = "text/plain"
)
