package dashboard_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockroom/app/dashboard"
	"github.com/shashiranjanraj/stockroom/pkg/testkit"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestRegistry_GetReusesPagePerSession(t *testing.T) {
	reg := dashboard.NewRegistry(context.Background(), dashboard.Deps{Services: newServices(testkit.NewMockTransport())}, time.Minute)

	a := reg.Get("sess-a")
	assert.Same(t, a, reg.Get("sess-a"))
	assert.NotSame(t, a, reg.Get("sess-b"))
	assert.Equal(t, 2, reg.Len())

	got, ok := reg.Lookup("sess-a")
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = reg.Lookup("sess-c")
	assert.False(t, ok)
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_EvictsIdlePages(t *testing.T) {
	c := &clock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	reg := dashboard.NewRegistry(context.Background(), dashboard.Deps{Services: newServices(testkit.NewMockTransport())}, 10*time.Minute)
	reg.SetClock(c.Now)

	reg.Get("idle")
	reg.Get("busy")

	c.Advance(8 * time.Minute)
	reg.Get("busy")
	assert.Zero(t, reg.Evict())

	c.Advance(5 * time.Minute)
	assert.Equal(t, 1, reg.Evict())

	_, ok := reg.Lookup("idle")
	assert.False(t, ok)
	_, ok = reg.Lookup("busy")
	assert.True(t, ok)
}
