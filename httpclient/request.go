package httpclient

import "mime"

// Request is one outbound call.
type Request struct {
	Method string
	// Path is joined onto Config.BaseURL unless it is an absolute URL.
	Path string
	// Headers override the adapter defaults.
	Headers map[string]string
	Query   map[string]string
	// Body may be a *MultipartBody, an io.Reader, []byte or a string. Any
	// other value is sent as JSON.
	Body any
	// Auth replaces Config.Auth for this request.
	Auth Authenticator
}

// Response is a fully read HTTP response. Headers keep the first value of
// each canonical header name.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool { return r.StatusCode/100 == 2 }

// IsError reports a 4xx or 5xx status.
func (r *Response) IsError() bool { return r.StatusCode >= 400 }

// Text returns the body as a string.
func (r *Response) Text() string { return string(r.Body) }

// ContentType returns the media type without parameters, or the raw header
// when it does not parse.
func (r *Response) ContentType() string {
	ct := r.Headers[HeaderContentType]
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return ct
}
