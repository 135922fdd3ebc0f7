package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/stockroom/pkg/metrics"
)

// Result is the typed outcome of a call.
type Result[T any] struct {
	Success  bool
	Data     T
	Error    string
	Status   int
	Attempts int
}

// Request performs the call and decodes a successful payload into T. An empty
// 2xx body yields the zero T. A payload that does not decode is a failure that
// keeps the HTTP status.
func Request[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) Result[T] {
	resp := c.Do(ctx, endpoint, opts)
	out := Result[T]{
		Success:  resp.Success,
		Error:    resp.Error,
		Status:   resp.Status,
		Attempts: resp.Attempts,
	}
	if !resp.Success || len(strings.TrimSpace(string(resp.Data))) == 0 {
		return out
	}

	if err := json.Unmarshal(resp.Data, &out.Data); err != nil {
		label := opts.Label
		if label == "" {
			label, _, _ = strings.Cut(endpoint, "?")
		}
		metrics.UpstreamResults.WithLabelValues(label, "decode").Inc()

		var zero T
		out.Data = zero
		out.Success = false
		out.Error = fmt.Sprintf("apiclient: decode %s: %v", endpoint, err)
	}
	return out
}

func Get[T any](ctx context.Context, c *Client, endpoint string) Result[T] {
	return Request[T](ctx, c, endpoint, RequestOptions{Method: http.MethodGet})
}

func Post[T any](ctx context.Context, c *Client, endpoint string, body any) Result[T] {
	return Request[T](ctx, c, endpoint, RequestOptions{Method: http.MethodPost, Body: body})
}

func Put[T any](ctx context.Context, c *Client, endpoint string, body any) Result[T] {
	return Request[T](ctx, c, endpoint, RequestOptions{Method: http.MethodPut, Body: body})
}

func Patch[T any](ctx context.Context, c *Client, endpoint string, body any) Result[T] {
	return Request[T](ctx, c, endpoint, RequestOptions{Method: http.MethodPatch, Body: body})
}

func Delete[T any](ctx context.Context, c *Client, endpoint string) Result[T] {
	return Request[T](ctx, c, endpoint, RequestOptions{Method: http.MethodDelete})
}
