// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the logger injected by the request middleware, already
// tagged with the request_id, so log lines from handlers, services and the
// upstream API client correlate:
//
//	log := logger.WithCtx(ctx)
//	log.Warn("services: falling back to sample data", "endpoint", "/inventory")
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/stockroom/config"
)

var L *slog.Logger

func init() {
	L = slog.New(newHandler(os.Stdout, config.AppEnv()))
	slog.SetDefault(L)
}

func newHandler(w io.Writer, env string) slog.Handler {
	switch env {
	case "production", "prod":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case "testing", "test":
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// Setup attaches the optional MongoDB sink when LOG_MONGO_URI is configured.
// The returned func flushes and disconnects it; it is never nil.
func Setup() func() {
	uri := config.LogMongoURI()
	if uri == "" {
		return func() {}
	}

	sink, err := NewMongoSink(uri, config.LogMongoDB(), "dashboard_logs", slog.LevelInfo)
	if err != nil {
		L.Warn("logger: mongo sink disabled", "error", err)
		return func() {}
	}

	L = slog.New(NewFanout(L.Handler(), sink))
	slog.SetDefault(L)
	L.Info("logger: mongo sink attached", "db", config.LogMongoDB())
	return sink.Close
}

// SetOutput rebuilds the base logger writing to w. Tests use it to capture
// or silence output.
func SetOutput(w io.Writer) {
	L = slog.New(newHandler(w, config.AppEnv()))
	slog.SetDefault(L)
}

type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx. Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
