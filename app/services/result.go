// Package services fetches each dashboard resource from the inventory API
// and applies that resource's fallback policy.
//
// Every method returns a Result; nothing is returned as a Go error and
// nothing panics. Callers decide whether to render live data, fallback data,
// or an error banner from Result.Status and Result.Fallback.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/shashiranjanraj/stockroom/pkg/apiclient"
	"github.com/shashiranjanraj/stockroom/pkg/cache"
	"github.com/shashiranjanraj/stockroom/pkg/logger"
	"github.com/shashiranjanraj/stockroom/pkg/metrics"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusEmpty   Status = "empty"
	StatusError   Status = "error"
)

// ErrMissingPayload is the cause recorded when a 2xx body lacks the
// expected shape.
var ErrMissingPayload = errors.New("services: response payload missing")

// Result is the outcome of one service call. On StatusError, Err names the
// cause and Data holds the documented fallback; Fallback is true when that
// fallback is sample data rather than an empty list.
type Result[T any] struct {
	Status   Status `json:"status"`
	Data     T      `json:"data"`
	Err      string `json:"error,omitempty"`
	Fallback bool   `json:"fallback"`
}

func (r Result[T]) OK() bool { return r.Status != StatusError }

// base is shared by every service.
type base struct {
	client *apiclient.Client
	cache  cache.Store
	ttl    time.Duration
}

// call describes one endpoint contract: how to unwrap its envelope E into T
// and what to serve when it fails.
type call[E, T any] struct {
	resource string
	endpoint string
	unwrap   func(E) (T, bool)
	size     func(T) int
	// fallback returns the failure data and whether it is sample data.
	fallback func() (T, bool)
}

func (c call[E, T]) run(ctx context.Context, b *base) Result[T] {
	key := "svc:" + c.endpoint

	var cached T
	if b.cache.Get(ctx, key, &cached) {
		metrics.CacheHits.WithLabelValues(c.resource).Inc()
		return c.done(cached)
	}
	metrics.CacheMisses.WithLabelValues(c.resource).Inc()

	res := apiclient.Request[E](ctx, b.client, c.endpoint, apiclient.RequestOptions{Label: c.resource})
	if !res.Success {
		return c.fail(ctx, res.Error)
	}
	data, ok := c.unwrap(res.Data)
	if !ok {
		return c.fail(ctx, ErrMissingPayload.Error())
	}

	if b.ttl > 0 {
		if err := b.cache.Set(ctx, key, data, b.ttl); err != nil {
			logger.WithCtx(ctx).Debug("services: cache set failed", "resource", c.resource, "error", err)
		}
	}
	return c.done(data)
}

func (c call[E, T]) done(data T) Result[T] {
	status := StatusSuccess
	if c.size != nil && c.size(data) == 0 {
		status = StatusEmpty
	}
	metrics.ServiceResults.WithLabelValues(c.resource, string(status)).Inc()
	return Result[T]{Status: status, Data: data}
}

func (c call[E, T]) fail(ctx context.Context, cause string) Result[T] {
	data, sample := c.fallback()
	metrics.ServiceResults.WithLabelValues(c.resource, string(StatusError)).Inc()
	if sample {
		metrics.Fallbacks.WithLabelValues(c.resource).Inc()
	}
	logger.WithCtx(ctx).Warn("services: fetch failed",
		"resource", c.resource, "endpoint", c.endpoint, "fallback", sample, "error", cause)
	return Result[T]{Status: StatusError, Data: data, Err: cause, Fallback: sample}
}

// ─── Envelope unwrapping ─────────────────────────────────────────────────────

// bare accepts a JSON array. A missing or null body is not a payload.
func bare[X any](rows []X) ([]X, bool) { return rows, rows != nil }

type ordersEnvelope[X any] struct {
	Orders *[]X `json:"orders"`
}

func ordersMember[X any](e ordersEnvelope[X]) ([]X, bool) {
	if e.Orders == nil {
		return nil, false
	}
	return nonNil(*e.Orders), true
}

type alternativesEnvelope[X any] struct {
	Alternatives *[]X `json:"alternatives"`
}

func alternativesMember[X any](e alternativesEnvelope[X]) ([]X, bool) {
	if e.Alternatives == nil {
		return nil, false
	}
	return nonNil(*e.Alternatives), true
}

func nonNil[X any](rows []X) []X {
	if rows == nil {
		return []X{}
	}
	return rows
}

func count[X any](rows []X) int { return len(rows) }

func sample[T any](fn func() T) func() (T, bool) {
	return func() (T, bool) { return fn(), true }
}

func emptyList[X any]() ([]X, bool) { return []X{}, false }
