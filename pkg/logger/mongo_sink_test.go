package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeCollection struct {
	mu      sync.Mutex
	batches [][]interface{}
}

func (f *fakeCollection) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, docs)
	return &mongo.InsertManyResult{}, nil
}

func (f *fakeCollection) entries() []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Entry
	for _, b := range f.batches {
		for _, d := range b {
			out = append(out, d.(Entry))
		}
	}
	return out
}

func newTestSink(col *fakeCollection, disconnected *bool) *MongoSink {
	return newMongoSink(col, func(context.Context) error {
		*disconnected = true
		return nil
	}, slog.LevelInfo, 16, time.Hour)
}

func TestMongoSink_RoutesKnownAttributes(t *testing.T) {
	col := &fakeCollection{}
	var disconnected bool
	sink := newTestSink(col, &disconnected)

	log := slog.New(sink).With("request_id", "req-1")
	log.Warn("services: falling back", "section", "openOrders", "endpoint", "/orders/open", "attempts", 3)
	sink.Close()

	got := col.entries()
	require.Len(t, got, 1)
	e := got[0]
	assert.Equal(t, "WARN", e.Level)
	assert.Equal(t, "services: falling back", e.Msg)
	assert.Equal(t, "req-1", e.RequestID)
	assert.Equal(t, "openOrders", e.Section)
	assert.Equal(t, "/orders/open", e.Endpoint)
	assert.EqualValues(t, 3, e.Attrs["attempts"])
	assert.True(t, disconnected)
}

func TestMongoSink_GroupsPrefixKeys(t *testing.T) {
	col := &fakeCollection{}
	var disconnected bool
	sink := newTestSink(col, &disconnected)

	log := slog.New(sink).WithGroup("upstream").With("label", "inventory")
	log.Error("apiclient: request failed", "request_id", "nested", "error", errors.New("boom"))
	sink.Close()

	got := col.entries()
	require.Len(t, got, 1)
	e := got[0]
	assert.Empty(t, e.RequestID)
	assert.Equal(t, "inventory", e.Attrs["upstream.label"])
	assert.Equal(t, "nested", e.Attrs["upstream.request_id"])
	assert.Equal(t, "boom", e.Attrs["upstream.error"])
}

func TestMongoSink_SkipsRecordsBelowLevel(t *testing.T) {
	col := &fakeCollection{}
	var disconnected bool
	sink := newTestSink(col, &disconnected)

	slog.New(sink).Debug("noise")
	sink.Close()

	assert.Empty(t, col.entries())
}

func TestMongoSink_DropsWhenQueueIsFull(t *testing.T) {
	col := &fakeCollection{}
	sink := &MongoSink{sinkState: &sinkState{col: col, queue: make(chan Entry, 1)}}

	log := slog.New(sink)
	log.Info("one")
	log.Info("two")

	assert.Equal(t, int64(1), sink.Dropped())
}

// recordingHandler keeps the messages it sees and optionally fails.
type recordingHandler struct {
	mu    sync.Mutex
	level slog.Level
	msgs  []string
	err   error
}

func (h *recordingHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, r.Message)
	return h.err
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestFanout_DeliversToEveryHandlerAndJoinsErrors(t *testing.T) {
	failing := &recordingHandler{err: errors.New("sink down")}
	healthy := &recordingHandler{}
	f := NewFanout(failing, healthy)

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)
	err := f.Handle(context.Background(), r)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink down")
	assert.Equal(t, []string{"hello"}, failing.msgs)
	assert.Equal(t, []string{"hello"}, healthy.msgs)
}

func TestFanout_RespectsEachHandlerLevel(t *testing.T) {
	quiet := &recordingHandler{level: slog.LevelError}
	loud := &recordingHandler{level: slog.LevelDebug}
	f := NewFanout(quiet, loud)

	assert.True(t, f.Enabled(context.Background(), slog.LevelDebug))
	require.NoError(t, f.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "info", 0)))

	assert.Empty(t, quiet.msgs)
	assert.Equal(t, []string{"info"}, loud.msgs)
	assert.False(t, NewFanout(quiet).Enabled(context.Background(), slog.LevelWarn))
}

func TestWithCtx_FallsBackToBaseLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})

	assert.Same(t, L, WithCtx(context.Background()))

	tagged := L.With("request_id", "abc")
	ctx := InjectLogger(context.Background(), tagged)
	WithCtx(ctx).Warn("tagged")

	assert.Contains(t, buf.String(), "request_id=abc")
}
