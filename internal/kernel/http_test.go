package kernel_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockroom/internal/kernel"
	"github.com/shashiranjanraj/stockroom/pkg/ctx"
	"github.com/shashiranjanraj/stockroom/pkg/router"
	"github.com/shashiranjanraj/stockroom/pkg/testkit"
)

func TestNew_ServesHealthAndMetrics(t *testing.T) {
	k, err := kernel.New(kernel.Options{})
	require.NoError(t, err)

	rec := testkit.Serve(t, k.Handler(), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	testkit.DecodeEnvelope(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = testkit.Serve(t, k.Handler(), http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "stockroom_http_requests_total")
}

func TestNew_MountsRegisteredRoutes(t *testing.T) {
	k, err := kernel.New(kernel.Options{}, func(r *router.Router) error {
		r.Get("/ping", "ping", ctx.Wrap(func(c *ctx.Context) { c.Success("pong") }))
		return nil
	})
	require.NoError(t, err)

	rec := testkit.Serve(t, k.Handler(), http.MethodGet, "/ping", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out string
	testkit.DecodeEnvelope(t, rec, &out)
	assert.Equal(t, "pong", out)

	names := map[string]string{}
	for _, rt := range k.Routes() {
		names[rt.Name] = rt.Method + " " + rt.Path
	}
	assert.Equal(t, "GET /ping", names["ping"])
	assert.Equal(t, "GET /health", names["health"])
	assert.Equal(t, "GET /metrics", names["metrics"])
}

func TestNew_RegisterErrorAborts(t *testing.T) {
	boom := errors.New("no database")

	k, err := kernel.New(kernel.Options{}, func(*router.Router) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, k)
}

func TestNew_RateLimitApplies(t *testing.T) {
	k, err := kernel.New(kernel.Options{RateLimit: 2})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, testkit.Serve(t, k.Handler(), http.MethodGet, "/health", nil).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests,
		testkit.Serve(t, k.Handler(), http.MethodGet, "/health", nil).Code)
}
