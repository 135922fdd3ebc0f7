package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockroom/pkg/schedule"
)

func TestScheduler_RegisterAndList(t *testing.T) {
	s := schedule.New()
	require.NoError(t, s.Every(5*time.Minute).Name("cache:warm").Run(func(context.Context) {}))
	require.NoError(t, s.Daily().Name("exports:prune").WithoutOverlapping().Run(func(context.Context) {}))
	require.NoError(t, s.Cron("0 3 * * *").Run(func(context.Context) {}))

	assert.Equal(t, []string{
		"cache:warm  [@every 5m0s]",
		"exports:prune  [@daily]",
		"job-3  [0 3 * * *]",
	}, s.List())
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := schedule.New()
	err := s.Cron("not a cron").Name("bad").Run(func(context.Context) {})
	assert.Error(t, err)
	assert.Empty(t, s.List())
}

func TestScheduler_RunNowUsesStartContext(t *testing.T) {
	s := schedule.New()

	type key struct{}
	var got any
	require.NoError(t, s.Hourly().Name("heartbeat").Run(func(ctx context.Context) {
		got = ctx.Value(key{})
	}))

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), key{}, "started"))
	defer cancel()
	s.Start(ctx)

	require.NoError(t, s.RunNow("heartbeat"))
	assert.Equal(t, "started", got)

	assert.ErrorIs(t, s.RunNow("missing"), schedule.ErrUnknownJob)
}
