// Package apiclient is the retry-aware JSON client the dashboard uses to talk
// to the inventory API.
//
// Every call returns a Response (or a typed Result) describing success or
// failure; nothing is thrown at the caller:
//
//	client := apiclient.New(apiclient.ConfigFromEnv())
//	res := apiclient.Get[[]models.InventoryItem](ctx, client, "/inventory")
//	if !res.Success {
//	    log.Warn("inventory unavailable", "status", res.Status, "error", res.Error)
//	}
//
// Only transport failures are retried, with a linear backoff of
// Retry.Delay × attempt. A per-attempt timeout is reported as a network
// failure (status 0) but ends the call, as do HTTP error statuses.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shashiranjanraj/stockroom/config"
	"github.com/shashiranjanraj/stockroom/pkg/logger"
	"github.com/shashiranjanraj/stockroom/pkg/metrics"
	"github.com/shashiranjanraj/stockroom/pkg/reqid"
)

// RetryConfig controls retries of network failures.
type RetryConfig struct {
	Enabled     bool
	MaxAttempts int
	Delay       time.Duration
}

// Config is the explicit client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retry   RetryConfig
	Headers map[string]string
	Token   string
}

// DefaultConfig matches the stock inventory API deployment.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:3001/api",
		Timeout: 30 * time.Second,
		Retry:   RetryConfig{Enabled: true, MaxAttempts: 3, Delay: time.Second},
	}
}

// ConfigFromEnv builds a Config from the API_* settings.
func ConfigFromEnv() Config {
	return Config{
		BaseURL: config.APIBaseURL(),
		Timeout: config.APITimeout(),
		Retry: RetryConfig{
			Enabled:     config.RetryEnabled(),
			MaxAttempts: config.RetryMaxAttempts(),
			Delay:       config.RetryDelay(),
		},
		Token: config.APIToken(),
	}
}

func (c Config) maxAttempts() int {
	if !c.Retry.Enabled || c.Retry.MaxAttempts < 1 {
		return 1
	}
	return c.Retry.MaxAttempts
}

// Sleeper waits d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var defaultTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 20,
	IdleConnTimeout:     90 * time.Second,
}

// Client issues requests against one base URL.
type Client struct {
	cfg   Config
	http  *http.Client
	sleep Sleeper
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithTransport installs rt on a fresh *http.Client (tests, mocks).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http = &http.Client{Transport: rt} }
}

// WithSleeper replaces the backoff sleep.
func WithSleeper(s Sleeper) Option { return func(c *Client) { c.sleep = s } }

func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:   cfg,
		http:  &http.Client{Transport: defaultTransport},
		sleep: sleepCtx,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config { return c.cfg }

// RequestOptions describes one call. Zero values mean GET with the client
// timeout.
type RequestOptions struct {
	Method  string
	Headers map[string]string
	Body    any
	Timeout time.Duration
	// Label names the call in metrics; defaults to the endpoint path.
	Label string
}

// Response is the untyped outcome of a call. Status is the HTTP status when a
// response arrived and 0 for network failures.
type Response struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data,omitempty"`
	Error    string          `json:"error,omitempty"`
	Status   int             `json:"status"`
	Attempts int             `json:"attempts"`
}

// StatusError is a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API Error: %d %s", e.Code, http.StatusText(e.Code))
}

// Do performs the request with the retry policy.
func (c *Client) Do(ctx context.Context, endpoint string, opts RequestOptions) Response {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Method == "" {
		opts.Method = http.MethodGet
	}
	label := opts.Label
	if label == "" {
		label, _, _ = strings.Cut(endpoint, "?")
	}

	start := time.Now()
	defer func() {
		metrics.UpstreamDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	}()

	body, err := encodeBody(opts.Body)
	if err != nil {
		metrics.UpstreamResults.WithLabelValues(label, "aborted").Inc()
		return Response{Error: err.Error()}
	}

	log := logger.WithCtx(ctx)
	maxAttempts := c.cfg.maxAttempts()

	for attempt := 1; ; attempt++ {
		metrics.UpstreamAttempts.WithLabelValues(label).Inc()

		status, raw, err := c.attempt(ctx, endpoint, opts, body)
		var se *StatusError
		switch {
		case err == nil:
			metrics.UpstreamResults.WithLabelValues(label, "ok").Inc()
			return Response{Success: true, Data: raw, Status: status, Attempts: attempt}

		case errors.As(err, &se):
			metrics.UpstreamResults.WithLabelValues(label, "http_error").Inc()
			return Response{Error: err.Error(), Data: raw, Status: status, Attempts: attempt}

		case ctx.Err() != nil:
			metrics.UpstreamResults.WithLabelValues(label, "aborted").Inc()
			return Response{Error: ctx.Err().Error(), Attempts: attempt}

		case errors.Is(err, context.DeadlineExceeded):
			metrics.UpstreamResults.WithLabelValues(label, "timeout").Inc()
			log.Error("apiclient: request timed out", "endpoint", endpoint, "attempt", attempt)
			return Response{Error: err.Error(), Attempts: attempt}
		}

		if attempt >= maxAttempts {
			metrics.UpstreamResults.WithLabelValues(label, "network").Inc()
			log.Error("apiclient: request failed", "endpoint", endpoint, "attempts", attempt, "error", err)
			return Response{Error: err.Error(), Attempts: attempt}
		}

		delay := c.cfg.Retry.Delay * time.Duration(attempt)
		log.Warn("apiclient: network failure, retrying",
			"endpoint", endpoint, "attempt", attempt, "delay", delay, "error", err)

		if serr := c.sleep(ctx, delay); serr != nil {
			metrics.UpstreamResults.WithLabelValues(label, "aborted").Inc()
			return Response{Error: serr.Error(), Attempts: attempt}
		}
	}
}

// attempt runs one request. A nil error means a 2xx response, *StatusError a
// non-2xx response, context.DeadlineExceeded the attempt timeout; anything
// else is a network failure.
func (c *Client) attempt(ctx context.Context, endpoint string, opts RequestOptions, body []byte) (int, []byte, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = c.cfg.Timeout
	}
	actx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(actx, opts.Method, c.url(endpoint), rd)
	if err != nil {
		return 0, nil, fmt.Errorf("apiclient: build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := reqid.FromCtx(ctx); id != "" {
		req.Header.Set(reqid.Header, id)
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("apiclient: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, raw, &StatusError{Code: resp.StatusCode}
	}
	return resp.StatusCode, raw, nil
}

func (c *Client) url(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

func encodeBody(v any) ([]byte, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	case string:
		return []byte(b), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("apiclient: marshal body: %w", err)
	}
	return raw, nil
}
