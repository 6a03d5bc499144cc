package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kbukum/typedhttp/codec"
	apperrors "github.com/kbukum/typedhttp/errors"
	"github.com/kbukum/typedhttp/httpclient"
	"github.com/kbukum/typedhttp/logger"
	"github.com/kbukum/typedhttp/observability"
	"github.com/kbukum/typedhttp/task"
)

// Get builds a GET request for url decoded with dec.
func Get[T any](c *Client, url string, dec codec.Decoder[T], opts ...RequestOption) task.Task[T] {
	return do(c, http.MethodGet, url, dec, nil, nil, opts)
}

// Post builds a POST request sending body as JSON.
func Post[T any](c *Client, url string, dec codec.Decoder[T], body any, opts ...RequestOption) task.Task[T] {
	return do(c, http.MethodPost, url, dec, body, nil, opts)
}

// Put builds a PUT request sending body as JSON.
func Put[T any](c *Client, url string, dec codec.Decoder[T], body any, opts ...RequestOption) task.Task[T] {
	return do(c, http.MethodPut, url, dec, body, nil, opts)
}

// Delete builds a DELETE request for url.
func Delete[T any](c *Client, url string, dec codec.Decoder[T], opts ...RequestOption) task.Task[T] {
	return do(c, http.MethodDelete, url, dec, nil, nil, opts)
}

// PostBinary builds a POST request sending body with its own content type.
func PostBinary[T any](c *Client, url string, dec codec.Decoder[T], body BodyContent, opts ...RequestOption) task.Task[T] {
	if body == nil {
		body = BinaryData("", nil)
	}
	return do(c, http.MethodPost, url, dec, body.payload(), requestHeaders(body), opts)
}

func do[T any](c *Client, method, url string, dec codec.Decoder[T], body any, headers map[string]string, opts []RequestOption) task.Task[T] {
	return func(ctx context.Context) (T, error) {
		var zero T

		req := httpclient.Request{Method: method, Path: url, Body: body}
		for k, v := range headers {
			WithHeader(k, v)(&req)
		}
		for _, opt := range opts {
			opt(&req)
		}

		resp, err := c.adapter.Do(ctx, req)
		if err != nil {
			return zero, c.readError(err)
		}

		return decode(ctx, c, method, url, dec, resp.Body)
	}
}

// decode strips null leaves from payload and runs dec over it.
func decode[T any](ctx context.Context, c *Client, method, url string, dec codec.Decoder[T], payload []byte) (T, error) {
	// Bodies that are not JSON come back unchanged and go to the decoder
	// as is, so plain-text decoders still work.
	stripped, _ := codec.StripJSON(payload)

	ctx, span := observability.StartSpan(ctx, observability.SpanDecode)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrDecoder, dec.Name())

	v, err := dec.Decode(stripped)
	if err == nil {
		return v, nil
	}

	var zero T
	msg := fmt.Sprintf("Parsing error on request: %s %s for entity: %s", method, url, dec.Name())
	c.log.Error(msg, logger.MergeWithError(logger.Fields(
		logger.FieldMethod, method,
		logger.FieldURL, url,
		logger.FieldDecoder, dec.Name(),
		logger.FieldBody, string(payload),
		logger.FieldIssues, c.reporter.Report(err),
	), err))

	observability.SetSpanError(ctx, err)
	if c.metrics != nil {
		c.metrics.RecordDecodeFailure(ctx, dec.Name())
	}
	return zero, apperrors.Internal(msg, err)
}
