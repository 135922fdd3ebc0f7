package logger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	sinkQueueSize = 4096
	sinkBatchSize = 50
	sinkFlushTick = 2 * time.Second
)

// Entry is the document stored per log record.
type Entry struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	Section   string    `bson:"section,omitempty"`
	Endpoint  string    `bson:"endpoint,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

// inserter is the part of *mongo.Collection the sink writes through.
type inserter interface {
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

// MongoSink is an slog.Handler that batches records into a MongoDB
// collection from a single background goroutine. Records are dropped when
// the queue is full.
type MongoSink struct {
	*sinkState
	attrs  []slog.Attr
	prefix string
}

type sinkState struct {
	col        inserter
	disconnect func(context.Context) error
	level      slog.Level
	queue      chan Entry
	stop       chan struct{}
	wg         sync.WaitGroup
	once       sync.Once
	dropped    atomic.Int64
}

// NewMongoSink connects to uri and starts the flush loop.
func NewMongoSink(uri, db, collection string, level slog.Level) (*MongoSink, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).
		SetConnectTimeout(5*time.Second).
		SetServerSelectionTimeout(5*time.Second).
		SetMaxPoolSize(4))
	if err != nil {
		return nil, fmt.Errorf("logger: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("logger: mongo ping: %w", err)
	}

	col := client.Database(db).Collection(collection)
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "time", Value: -1}}},
		{Keys: bson.D{{Key: "request_id", Value: 1}}},
	})

	return newMongoSink(col, client.Disconnect, level, sinkQueueSize, sinkFlushTick), nil
}

func newMongoSink(col inserter, disconnect func(context.Context) error, level slog.Level, queue int, tick time.Duration) *MongoSink {
	st := &sinkState{
		col:        col,
		disconnect: disconnect,
		level:      level,
		queue:      make(chan Entry, queue),
		stop:       make(chan struct{}),
	}
	st.wg.Add(1)
	go st.loop(tick)
	return &MongoSink{sinkState: st}
}

func (s *MongoSink) Enabled(_ context.Context, l slog.Level) bool { return l >= s.level }

// Handle queues one entry. request_id, section and endpoint at the top level
// get their own fields; everything else lands in Attrs under its group path.
func (s *MongoSink) Handle(_ context.Context, r slog.Record) error {
	e := Entry{Time: r.Time, Level: r.Level.String(), Msg: r.Message, Attrs: bson.M{}}
	for _, a := range s.attrs {
		e.put("", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		e.put(s.prefix, a)
		return true
	})
	if len(e.Attrs) == 0 {
		e.Attrs = nil
	}

	select {
	case s.queue <- e:
	default:
		s.dropped.Add(1)
	}
	return nil
}

func (e *Entry) put(prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		sub := prefix
		if a.Key != "" {
			sub += a.Key + "."
		}
		for _, g := range v.Group() {
			e.put(sub, g)
		}
		return
	}
	if a.Key == "" {
		return
	}
	if prefix == "" {
		switch a.Key {
		case "request_id":
			e.RequestID = v.String()
			return
		case "section":
			e.Section = v.String()
			return
		case "endpoint":
			e.Endpoint = v.String()
			return
		}
	}
	if err, ok := v.Any().(error); ok {
		e.Attrs[prefix+a.Key] = err.Error()
		return
	}
	e.Attrs[prefix+a.Key] = v.Any()
}

func (s *MongoSink) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Attr, 0, len(s.attrs)+len(attrs))
	next = append(next, s.attrs...)
	for _, a := range attrs {
		if s.prefix != "" {
			a = slog.Group(s.prefix[:len(s.prefix)-1], a)
		}
		next = append(next, a)
	}
	return &MongoSink{sinkState: s.sinkState, attrs: next, prefix: s.prefix}
}

func (s *MongoSink) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	return &MongoSink{sinkState: s.sinkState, attrs: s.attrs, prefix: s.prefix + name + "."}
}

// Dropped is the number of records lost to a full queue.
func (s *MongoSink) Dropped() int64 { return s.dropped.Load() }

// Close drains the queue, writes the last batch and disconnects.
func (s *MongoSink) Close() {
	s.once.Do(func() {
		close(s.stop)
		s.wg.Wait()
		if s.disconnect == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.disconnect(ctx)
	})
}

func (st *sinkState) loop(tick time.Duration) {
	defer st.wg.Done()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	batch := make([]interface{}, 0, sinkBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, _ = st.col.InsertMany(ctx, batch)
		cancel()
		batch = make([]interface{}, 0, sinkBatchSize)
	}

	for {
		select {
		case e := <-st.queue:
			batch = append(batch, e)
			if len(batch) >= sinkBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-st.stop:
			for len(st.queue) > 0 {
				batch = append(batch, <-st.queue)
			}
			flush()
			return
		}
	}
}

// Fanout sends each record to every enabled handler.
type Fanout struct {
	handlers []slog.Handler
}

func NewFanout(hs ...slog.Handler) *Fanout { return &Fanout{handlers: hs} }

func (f *Fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

// Handle passes r to every enabled handler even when one of them fails, and
// returns the joined errors.
func (f *Fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *Fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &Fanout{handlers: hs}
}

func (f *Fanout) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &Fanout{handlers: hs}
}
