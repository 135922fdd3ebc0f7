package testkit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ─── MockTransport ────────────────────────────────────────────────────────────

// Reply is one scripted upstream answer. A non-nil Err simulates a network
// failure; Delay holds the answer until the request context expires.
type Reply struct {
	Status int
	Body   string
	Err    error
	Delay  time.Duration
}

// ErrNetwork is the failure returned by NetworkError replies.
var ErrNetwork = errors.New("testkit: connection refused")

// JSON builds a reply carrying v encoded as JSON.
func JSON(status int, v any) Reply {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testkit: marshal reply: %v", err))
	}
	return Reply{Status: status, Body: string(raw)}
}

// Status builds an empty-bodied reply with the given status.
func Status(code int) Reply { return Reply{Status: code} }

// NetworkError builds a reply that fails at the transport level.
func NetworkError() Reply { return Reply{Err: ErrNetwork} }

// MockTransport implements http.RoundTripper.
// Requests are matched by URL path suffix against the routes registered with
// On; each route plays its replies in order and repeats the last one.
// Unmatched requests get a 404 unless Strict is set.
//
//	mt := testkit.NewMockTransport()
//	mt.On("/inventory", testkit.NetworkError(), testkit.JSON(200, items))
//	client := apiclient.New(cfg, apiclient.WithTransport(mt))
//	// ... run test ...
//	assert.Equal(t, 2, mt.Calls("/inventory"))
type MockTransport struct {
	mu       sync.Mutex
	routes   []*mockRoute
	requests []Recorded
	Strict   bool
}

// Recorded is a request seen by the transport, with its body read out.
type Recorded struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

type mockRoute struct {
	suffix  string
	replies []Reply
	calls   int
}

func NewMockTransport() *MockTransport { return &MockTransport{} }

// On registers replies for requests whose path ends with suffix. An empty
// suffix matches every request.
func (mt *MockTransport) On(suffix string, replies ...Reply) *MockTransport {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.routes = append(mt.routes, &mockRoute{suffix: suffix, replies: replies})
	return mt
}

// RoundTrip intercepts the outgoing request and returns the scripted reply.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := Recorded{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.RawQuery,
		Header: req.Header.Clone(),
	}
	if req.Body != nil {
		rec.Body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}

	mt.mu.Lock()
	mt.requests = append(mt.requests, rec)
	route := mt.match(req.URL.Path)
	var reply Reply
	if route != nil {
		idx := route.calls
		if idx >= len(route.replies) {
			idx = len(route.replies) - 1
		}
		route.calls++
		if idx >= 0 {
			reply = route.replies[idx]
		}
	}
	strict := mt.Strict
	mt.mu.Unlock()

	if route == nil {
		if strict {
			return nil, fmt.Errorf("testkit: unexpected outgoing HTTP call to %s", req.URL)
		}
		reply = Reply{Status: http.StatusNotFound, Body: `{"error":"no mock configured"}`}
	}

	if reply.Delay > 0 {
		t := time.NewTimer(reply.Delay)
		defer t.Stop()
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-t.C:
		}
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	return buildHTTPResponse(req, reply), nil
}

// match picks the longest matching suffix.
func (mt *MockTransport) match(path string) *mockRoute {
	var best *mockRoute
	for _, r := range mt.routes {
		if r.suffix != "" && path != r.suffix && !strings.HasSuffix(path, r.suffix) {
			continue
		}
		if best == nil || len(r.suffix) > len(best.suffix) {
			best = r
		}
	}
	return best
}

// Calls returns how many requests matched the route registered for suffix.
func (mt *MockTransport) Calls(suffix string) int {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	n := 0
	for _, r := range mt.routes {
		if r.suffix == suffix {
			n += r.calls
		}
	}
	return n
}

// Requests returns every request seen so far.
func (mt *MockTransport) Requests() []Recorded {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return append([]Recorded(nil), mt.requests...)
}

// Total is the number of requests seen so far.
func (mt *MockTransport) Total() int {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return len(mt.requests)
}

// AssertAllCalled returns an error for every route that never matched.
func (mt *MockTransport) AssertAllCalled() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var errs []error
	for _, r := range mt.routes {
		if r.calls == 0 {
			errs = append(errs, fmt.Errorf("testkit: mock route %q was never called", r.suffix))
		}
	}
	return errs
}

func buildHTTPResponse(req *http.Request, rd Reply) *http.Response {
	code := rd.Status
	if code == 0 {
		code = http.StatusOK
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")

	return &http.Response{
		StatusCode: code,
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader([]byte(rd.Body))),
		Request:    req,
	}
}
